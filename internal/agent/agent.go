// Package agent holds the autonomous trading strategies that observe the
// book and quote into it. Agents never touch engine internals: they act only
// through the BookHandle surface the driver hands them.
package agent

import (
	"github.com/shopspring/decimal"

	"lobsim/internal/book"
)

// BookHandle is the constrained view of the matching engine an agent may
// use. *book.Engine satisfies it; agents must not down-cast.
type BookHandle interface {
	AddOrder(o book.Order) []book.Trade
	CancelAllOrders(owner book.OwnerID)
	BestBid() (book.PriceTicks, bool)
	BestAsk() (book.PriceTicks, bool)
	LastPrice() book.PriceTicks
	TradeCount() int
	TradesSince(cursor int) []book.Trade
}

// Agent is the common contract of all strategy variants.
type Agent interface {
	ID() book.OwnerID
	Name() string
	// Color is cosmetic, consumed by the rendering layer.
	Color() string

	Inventory() int64
	Cash() decimal.Decimal

	// Reconcile folds newly observed trades into inventory and cash.
	Reconcile(h BookHandle)
	// UnrealizedPnL values the net position at the given price.
	UnrealizedPnL(current book.PriceTicks) decimal.Decimal
	// Decide may cancel the agent's resting orders and submit new ones.
	Decide(h BookHandle, now int64)
	// Reset restores the starting portfolio.
	Reset()
}

// midPrice returns the reference price an agent quotes around: the mid when
// both sides are quoted, otherwise the last trade price.
func midPrice(h BookHandle) (float64, bool) {
	bb, okB := h.BestBid()
	ba, okA := h.BestAsk()
	switch {
	case okB && okA:
		return float64(bb+ba) / 2, true
	case h.LastPrice() > 0:
		return float64(h.LastPrice()), true
	case okB:
		return float64(bb), true
	case okA:
		return float64(ba), true
	default:
		return 0, false
	}
}

// marketSpread returns the observed spread in ticks, or 0 when a side is
// missing.
func marketSpread(h BookHandle) float64 {
	bb, okB := h.BestBid()
	ba, okA := h.BestAsk()
	if !okB || !okA {
		return 0
	}
	return float64(ba - bb)
}

func clampPrice(p float64) book.PriceTicks {
	t := book.PriceTicks(p + 0.5)
	if t < book.MinPrice {
		t = book.MinPrice
	}
	return t
}
