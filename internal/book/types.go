package book

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
)

var ErrInvalidOrder = errors.New("invalid order")

// Side represents the order side: bid or ask.
type Side uint8

const (
	SideBid Side = iota
	SideAsk
)

func (s Side) String() string {
	switch s {
	case SideBid:
		return "BID"
	case SideAsk:
		return "ASK"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the opposite side.
func (s Side) Opposite() Side {
	if s == SideBid {
		return SideAsk
	}
	return SideBid
}

// OrderKind represents the order type: limit or market.
type OrderKind uint8

const (
	OrderKindLimit OrderKind = iota
	OrderKindMarket
)

func (k OrderKind) String() string {
	switch k {
	case OrderKindLimit:
		return "LIMIT"
	case OrderKindMarket:
		return "MARKET"
	default:
		return "UNKNOWN"
	}
}

// PriceTicks represents price in integer ticks. MinPrice is the smallest
// representable price; callers clamp to it before submitting.
type PriceTicks int64

const MinPrice PriceTicks = 1

func (p PriceTicks) String() string { return strconv.FormatInt(int64(p), 10) }

// Size represents order quantity.
type Size int64

func (s Size) String() string { return strconv.FormatInt(int64(s), 10) }

// OwnerID identifies who submitted an order: the noise source or an agent.
type OwnerID string

// Order is an input/value object (safe to pass around).
// The engine mutates its own internal resting orders, not this.
type Order struct {
	ID    string
	Owner OwnerID
	Side  Side
	Kind  OrderKind
	Price PriceTicks // limit only
	Size  Size
	Time  int64 // monotonic submission timestamp, used for tie-breaks
}

// NewLimitOrder builds a validated limit order with a fresh ID.
func NewLimitOrder(owner OwnerID, side Side, price PriceTicks, size Size, now int64) (Order, error) {
	if size <= 0 || price < MinPrice {
		return Order{}, ErrInvalidOrder
	}
	return Order{
		ID:    uuid.NewString(),
		Owner: owner,
		Side:  side,
		Kind:  OrderKindLimit,
		Price: price,
		Size:  size,
		Time:  now,
	}, nil
}

// NewMarketOrder builds a validated market order with a fresh ID.
func NewMarketOrder(owner OwnerID, side Side, size Size, now int64) (Order, error) {
	if size <= 0 {
		return Order{}, ErrInvalidOrder
	}
	return Order{
		ID:    uuid.NewString(),
		Owner: owner,
		Side:  side,
		Kind:  OrderKindMarket,
		Size:  size,
		Time:  now,
	}, nil
}

// Trade records a single execution. Created only by the engine; never mutated.
type Trade struct {
	ID     string
	Price  PriceTicks
	Size   Size
	Time   int64
	Buyer  OwnerID
	Seller OwnerID
}

// Snapshot is a point-in-time copy of the book handed to external consumers.
// It is detached from engine state: mutating it has no effect on the book,
// and it must not be reused across ticks as a live view.
type Snapshot struct {
	Bids      []Order // best first (descending price, then arrival)
	Asks      []Order // best first (ascending price, then arrival)
	Trades    []Trade // full trade log, chronological
	LastPrice PriceTicks
}
