package book

import "github.com/google/uuid"

// Engine is the deterministic single-venue matching engine. It trusts its
// inputs (validation happens at order construction) and its operations are
// total: degenerate input degrades to a no-op, never a panic.
//
// It has no goroutines, mutexes, channels, or time calls. The simulation
// driver owns the only instance and serializes all access.
type Engine struct {
	bids *bookSide
	asks *bookSide

	orders map[string]*restingOrder // resting only
	trades []Trade                  // append-only

	lastPrice PriceTicks
	seq       uint64
}

// NewEngine creates an empty book.
func NewEngine() *Engine {
	return &Engine{
		bids:   newBookSide(true),
		asks:   newBookSide(false),
		orders: map[string]*restingOrder{},
	}
}

func (e *Engine) sideFor(s Side) *bookSide {
	if s == SideBid {
		return e.bids
	}
	return e.asks
}

// AddOrder submits an order and returns the trades it produced, in execution
// order. A market order sweeps the opposite side and never rests; a limit
// order is inserted at its priority position first, then the book is matched
// until no cross remains. Orders with non-positive size are a no-op.
func (e *Engine) AddOrder(o Order) []Trade {
	if o.Size <= 0 {
		return nil
	}
	if o.Kind == OrderKindMarket {
		return e.sweep(o)
	}
	if o.Price < MinPrice {
		return nil
	}
	e.addResting(o)
	return e.matchCrossed()
}

func (e *Engine) addResting(o Order) {
	e.seq++
	node := &restingOrder{
		id:    o.ID,
		owner: o.Owner,
		side:  o.Side,
		price: o.Price,
		size:  o.Size,
		time:  o.Time,
		seq:   e.seq,
	}
	l := e.sideFor(o.Side).getOrCreate(o.Price)
	l.append(node)
	l.totalVolume += node.size
	e.orders[node.id] = node
}

// sweep consumes resting liquidity for a market order, strictly in book
// priority. Runs out of liquidity? The remainder is discarded.
func (e *Engine) sweep(taker Order) []Trade {
	opp := e.sideFor(taker.Side.Opposite())

	var trades []Trade
	remaining := taker.Size
	for remaining > 0 {
		maker := opp.bestOrder()
		if maker == nil {
			break
		}
		traded := remaining
		if maker.size < traded {
			traded = maker.size
		}
		remaining -= traded
		maker.size -= traded
		maker.level.totalVolume -= traded

		buyer, seller := taker.Owner, maker.owner
		if taker.Side == SideAsk {
			buyer, seller = maker.owner, taker.Owner
		}
		// the maker rested first, so the maker sets the price
		trades = append(trades, e.recordTrade(maker.price, traded, taker.Time, buyer, seller))

		if maker.isFilled() {
			e.removeResting(maker)
		}
	}
	return trades
}

// matchCrossed trades the two best resting orders against each other while
// the book is crossed. The execution price is the price of whichever order
// arrived earlier (the maker sets the price).
func (e *Engine) matchCrossed() []Trade {
	var trades []Trade
	for {
		bid := e.bids.bestOrder()
		ask := e.asks.bestOrder()
		if bid == nil || ask == nil || bid.price < ask.price {
			break
		}

		traded := bid.size
		if ask.size < traded {
			traded = ask.size
		}
		price := bid.price
		if ask.arrivedBefore(bid) {
			price = ask.price
		}
		ts := bid.time
		if ask.time > ts {
			ts = ask.time
		}

		bid.size -= traded
		bid.level.totalVolume -= traded
		ask.size -= traded
		ask.level.totalVolume -= traded

		trades = append(trades, e.recordTrade(price, traded, ts, bid.owner, ask.owner))

		if bid.isFilled() {
			e.removeResting(bid)
		}
		if ask.isFilled() {
			e.removeResting(ask)
		}
	}
	return trades
}

func (e *Engine) recordTrade(price PriceTicks, size Size, ts int64, buyer, seller OwnerID) Trade {
	t := Trade{
		ID:     uuid.NewString(),
		Price:  price,
		Size:   size,
		Time:   ts,
		Buyer:  buyer,
		Seller: seller,
	}
	e.trades = append(e.trades, t)
	e.lastPrice = price
	return t
}

func (e *Engine) removeResting(o *restingOrder) {
	e.sideFor(o.side).removeOrder(o)
	delete(e.orders, o.id)
}

// BestBid returns the highest resting bid price, if any.
func (e *Engine) BestBid() (PriceTicks, bool) {
	if l := e.bids.best(); l != nil {
		return l.price, true
	}
	return 0, false
}

// BestAsk returns the lowest resting ask price, if any.
func (e *Engine) BestAsk() (PriceTicks, bool) {
	if l := e.asks.best(); l != nil {
		return l.price, true
	}
	return 0, false
}

// LastPrice returns the price of the most recent trade, or zero before any.
func (e *Engine) LastPrice() PriceTicks { return e.lastPrice }

// TradeCount returns the length of the append-only trade log.
func (e *Engine) TradeCount() int { return len(e.trades) }

// TradesSince returns a copy of the trade-log suffix starting at cursor.
// Agents use this to reconcile fills exactly once.
func (e *Engine) TradesSince(cursor int) []Trade {
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(e.trades) {
		return nil
	}
	out := make([]Trade, len(e.trades)-cursor)
	copy(out, e.trades[cursor:])
	return out
}

// CancelAllOrders removes every resting order on both sides belonging to
// owner. Agents reposition by cancel-then-repost rather than amend-in-place.
func (e *Engine) CancelAllOrders(owner OwnerID) {
	var doomed []*restingOrder
	for _, node := range e.orders {
		if node.owner == owner {
			doomed = append(doomed, node)
		}
	}
	for _, node := range doomed {
		e.removeResting(node)
	}
}

// Cleanup truncates each side to at most maxDepth resting orders nearest the
// touch. This bounds memory against stale deep liquidity; it is not a
// business rule and must not run mid-match.
func (e *Engine) Cleanup(maxDepth int) {
	if maxDepth < 0 {
		maxDepth = 0
	}
	e.truncateSide(e.bids, maxDepth)
	e.truncateSide(e.asks, maxDepth)
}

func (e *Engine) truncateSide(bs *bookSide, maxDepth int) {
	var doomed []*restingOrder
	n := 0
	for _, l := range bs.levels {
		for o := l.head; o != nil; o = o.next {
			n++
			if n > maxDepth {
				doomed = append(doomed, o)
			}
		}
	}
	for _, o := range doomed {
		e.removeResting(o)
	}
}

// RestingVolume returns the total resting volume on one side.
func (e *Engine) RestingVolume(s Side) Size {
	var total Size
	for _, l := range e.sideFor(s).levels {
		total += l.totalVolume
	}
	return total
}

// Snapshot returns a defensive copy of the current book state. Two
// consecutive calls with no intervening mutation return equal data.
func (e *Engine) Snapshot() Snapshot {
	trades := make([]Trade, len(e.trades))
	copy(trades, e.trades)
	return Snapshot{
		Bids:      e.copySide(e.bids),
		Asks:      e.copySide(e.asks),
		Trades:    trades,
		LastPrice: e.lastPrice,
	}
}

func (e *Engine) copySide(bs *bookSide) []Order {
	var out []Order
	kind := OrderKindLimit
	side := SideAsk
	if bs.isBid {
		side = SideBid
	}
	for _, l := range bs.levels {
		for o := l.head; o != nil; o = o.next {
			out = append(out, Order{
				ID:    o.id,
				Owner: o.owner,
				Side:  side,
				Kind:  kind,
				Price: o.price,
				Size:  o.size,
				Time:  o.time,
			})
		}
	}
	return out
}
