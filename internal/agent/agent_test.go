package agent

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lobsim/internal/book"
)

// stubHandle records submissions without matching them, so strategy quoting
// can be asserted in isolation.
type stubHandle struct {
	bb, ba     book.PriceTicks
	hasBB      bool
	hasBA      bool
	last       book.PriceTicks
	trades     []book.Trade
	submitted  []book.Order
	cancelsFor []book.OwnerID
}

func (s *stubHandle) AddOrder(o book.Order) []book.Trade {
	s.submitted = append(s.submitted, o)
	return nil
}

func (s *stubHandle) CancelAllOrders(owner book.OwnerID) {
	s.cancelsFor = append(s.cancelsFor, owner)
}

func (s *stubHandle) BestBid() (book.PriceTicks, bool) { return s.bb, s.hasBB }
func (s *stubHandle) BestAsk() (book.PriceTicks, bool) { return s.ba, s.hasBA }
func (s *stubHandle) LastPrice() book.PriceTicks       { return s.last }
func (s *stubHandle) TradeCount() int                  { return len(s.trades) }

func (s *stubHandle) TradesSince(cursor int) []book.Trade {
	if cursor >= len(s.trades) {
		return nil
	}
	out := make([]book.Trade, len(s.trades)-cursor)
	copy(out, s.trades[cursor:])
	return out
}

func quotes(t *testing.T, orders []book.Order) (bid, ask book.Order) {
	t.Helper()
	require.Len(t, orders, 2)
	for _, o := range orders {
		if o.Side == book.SideBid {
			bid = o
		} else {
			ask = o
		}
	}
	require.NotEmpty(t, bid.ID, "no bid quoted")
	require.NotEmpty(t, ask.ID, "no ask quoted")
	return bid, ask
}

func TestNaiveMakerQuotesAroundMid(t *testing.T) {
	h := &stubHandle{bb: 99, ba: 101, hasBB: true, hasBA: true}
	a := NewNaiveMaker(DefaultNaiveMakerConfig())

	a.Decide(h, 1)

	assert.Equal(t, []book.OwnerID{a.ID()}, h.cancelsFor, "cancel-then-repost")
	bid, ask := quotes(t, h.submitted)
	assert.Less(t, bid.Price, book.PriceTicks(100))
	assert.Greater(t, ask.Price, book.PriceTicks(100))
	assert.Equal(t, book.Size(5), bid.Size)
}

func TestNaiveMakerInventoryShiftIsMonotonic(t *testing.T) {
	decide := func(inventory int64) (book.Order, book.Order) {
		h := &stubHandle{bb: 99, ba: 101, hasBB: true, hasBA: true}
		a := NewNaiveMaker(DefaultNaiveMakerConfig())
		a.inventory = inventory
		a.Decide(h, 1)
		return quotes(t, h.submitted)
	}

	flatBid, flatAsk := decide(0)
	longBid, longAsk := decide(10)
	longerBid, longerAsk := decide(20)
	shortBid, shortAsk := decide(-10)

	// long inventory pushes both quotes strictly down, and further down
	// the longer the position; short inventory pushes them up
	assert.Less(t, longBid.Price, flatBid.Price)
	assert.Less(t, longAsk.Price, flatAsk.Price)
	assert.Less(t, longerBid.Price, longBid.Price)
	assert.Less(t, longerAsk.Price, longAsk.Price)
	assert.Greater(t, shortBid.Price, flatBid.Price)
	assert.Greater(t, shortAsk.Price, flatAsk.Price)
}

func TestNaiveMakerSkipsWithNoReferencePrice(t *testing.T) {
	h := &stubHandle{}
	a := NewNaiveMaker(DefaultNaiveMakerConfig())
	a.Decide(h, 1)
	assert.Empty(t, h.submitted)
}

func TestDeepMakerEnforcesFloorSpread(t *testing.T) {
	// market spread of 1 tick: the floor must kick in
	h := &stubHandle{bb: 100, ba: 101, hasBB: true, hasBA: true}
	a := NewDeepMaker(DefaultDeepMakerConfig())

	a.Decide(h, 1)

	bid, ask := quotes(t, h.submitted)
	assert.GreaterOrEqual(t, int64(ask.Price-bid.Price), int64(DefaultDeepMakerConfig().FloorSpread))
	assert.Equal(t, book.Size(20), bid.Size, "deep maker rests larger volume")
}

func TestDeepMakerScalesWideSpread(t *testing.T) {
	h := &stubHandle{bb: 90, ba: 110, hasBB: true, hasBA: true}
	a := NewDeepMaker(DefaultDeepMakerConfig())

	a.Decide(h, 1)

	bid, ask := quotes(t, h.submitted)
	// 20-tick market spread, multiplier 4: quoted spread is 80
	assert.Equal(t, book.PriceTicks(60), bid.Price)
	assert.Equal(t, book.PriceTicks(140), ask.Price)
}

func TestTrendFollowerBuysIntoUptrend(t *testing.T) {
	a := NewTrendFollower(DefaultTrendFollowerConfig())

	// feed a steadily rising mid until momentum clears the threshold
	var last *stubHandle
	for i := 0; i < 20; i++ {
		last = &stubHandle{
			bb: book.PriceTicks(100 + 2*i), ba: book.PriceTicks(102 + 2*i),
			hasBB: true, hasBA: true,
		}
		a.Decide(last, int64(i+1))
	}

	require.Greater(t, a.Momentum(), DefaultTrendFollowerConfig().Threshold)
	require.Len(t, last.submitted, 1, "trend follower quotes one side only")
	o := last.submitted[0]
	assert.Equal(t, book.SideBid, o.Side)
	assert.Equal(t, last.bb+1, o.Price, "buy just above the best bid")
}

func TestTrendFollowerSellsIntoDowntrend(t *testing.T) {
	a := NewTrendFollower(DefaultTrendFollowerConfig())

	var last *stubHandle
	for i := 0; i < 20; i++ {
		last = &stubHandle{
			bb: book.PriceTicks(200 - 2*i), ba: book.PriceTicks(202 - 2*i),
			hasBB: true, hasBA: true,
		}
		a.Decide(last, int64(i+1))
	}

	require.Less(t, a.Momentum(), -DefaultTrendFollowerConfig().Threshold)
	require.Len(t, last.submitted, 1)
	o := last.submitted[0]
	assert.Equal(t, book.SideAsk, o.Side)
	assert.Equal(t, last.ba-1, o.Price, "sell just below the best ask")
}

func TestTrendFollowerIdlesWithoutMomentum(t *testing.T) {
	a := NewTrendFollower(DefaultTrendFollowerConfig())

	var last *stubHandle
	for i := 0; i < 20; i++ {
		last = &stubHandle{bb: 100, ba: 102, hasBB: true, hasBA: true}
		a.Decide(last, int64(i+1))
	}
	assert.Empty(t, last.submitted)
}

func TestPortfolioReconcileAppliesEachTradeOnce(t *testing.T) {
	e := book.NewEngine()
	a := NewNaiveMaker(DefaultNaiveMakerConfig())

	// the agent's resting bid gets lifted by a noise ask
	bid, err := book.NewLimitOrder(a.ID(), book.SideBid, 100, 10, 1)
	require.NoError(t, err)
	e.AddOrder(bid)
	ask, err := book.NewLimitOrder("noise", book.SideAsk, 99, 4, 2)
	require.NoError(t, err)
	e.AddOrder(ask)

	a.Reconcile(e)
	assert.Equal(t, int64(4), a.Inventory())
	// bought 4 @ 100 ticks of 0.01 cash each
	wantCash := decimal.NewFromInt(10000).Sub(decimal.NewFromInt(4))
	assert.True(t, a.Cash().Equal(wantCash), "cash = %s", a.Cash())

	// a second reconcile with no new trades must not double-count
	a.Reconcile(e)
	assert.Equal(t, int64(4), a.Inventory())
	assert.True(t, a.Cash().Equal(wantCash))

	// only the unseen suffix is applied next time
	ask2, err := book.NewLimitOrder("noise", book.SideAsk, 100, 6, 3)
	require.NoError(t, err)
	e.AddOrder(ask2)
	a.Reconcile(e)
	assert.Equal(t, int64(10), a.Inventory())
}

func TestPortfolioIgnoresOtherOwnersTrades(t *testing.T) {
	e := book.NewEngine()
	a := NewTrendFollower(DefaultTrendFollowerConfig())

	bid, _ := book.NewLimitOrder("x", book.SideBid, 100, 5, 1)
	e.AddOrder(bid)
	ask, _ := book.NewLimitOrder("y", book.SideAsk, 100, 5, 2)
	e.AddOrder(ask)

	a.Reconcile(e)
	assert.Zero(t, a.Inventory())
	assert.True(t, a.Cash().Equal(DefaultTrendFollowerConfig().InitialCash))
}

func TestUnrealizedPnL(t *testing.T) {
	e := book.NewEngine()
	a := NewNaiveMaker(DefaultNaiveMakerConfig())

	bid, _ := book.NewLimitOrder(a.ID(), book.SideBid, 100, 10, 1)
	e.AddOrder(bid)
	ask, _ := book.NewLimitOrder("noise", book.SideAsk, 100, 10, 2)
	e.AddOrder(ask)
	a.Reconcile(e)

	// flat at the entry price
	assert.True(t, a.UnrealizedPnL(100).IsZero(), "pnl = %s", a.UnrealizedPnL(100))
	// +10 ticks on 10 units at 0.01 per tick = 1.00
	assert.True(t, a.UnrealizedPnL(110).Equal(decimal.NewFromInt(1)), "pnl = %s", a.UnrealizedPnL(110))
	// -10 ticks mirrors to -1.00
	assert.True(t, a.UnrealizedPnL(90).Equal(decimal.NewFromInt(-1)), "pnl = %s", a.UnrealizedPnL(90))
}

func TestResetFlattensPortfolio(t *testing.T) {
	e := book.NewEngine()
	a := NewNaiveMaker(DefaultNaiveMakerConfig())

	bid, _ := book.NewLimitOrder(a.ID(), book.SideBid, 100, 10, 1)
	e.AddOrder(bid)
	ask, _ := book.NewLimitOrder("noise", book.SideAsk, 100, 10, 2)
	e.AddOrder(ask)
	a.Reconcile(e)
	require.NotZero(t, a.Inventory())

	a.Reset()
	assert.Zero(t, a.Inventory())
	assert.True(t, a.Cash().Equal(DefaultNaiveMakerConfig().InitialCash))

	// trades seen before the reset stay forgotten
	a.Reconcile(e)
	assert.Zero(t, a.Inventory())
}
