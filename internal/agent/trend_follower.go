package agent

import (
	"math"

	"github.com/shopspring/decimal"

	"lobsim/internal/book"
)

// TrendFollowerConfig tunes the momentum strategy.
type TrendFollowerConfig struct {
	// Alpha is the EMA smoothing factor for mid-price momentum.
	Alpha float64
	// Threshold is the momentum magnitude (ticks per observation) above
	// which the agent takes a directional position.
	Threshold float64
	// OrderSize is the volume of each directional order.
	OrderSize book.Size
	// InitialCash and TickValue seed the portfolio.
	InitialCash decimal.Decimal
	TickValue   decimal.Decimal
}

// DefaultTrendFollowerConfig returns the stock tuning.
func DefaultTrendFollowerConfig() TrendFollowerConfig {
	return TrendFollowerConfig{
		Alpha:       0.3,
		Threshold:   0.6,
		OrderSize:   8,
		InitialCash: decimal.NewFromInt(10000),
		TickValue:   decimal.New(1, -2),
	}
}

// TrendFollower tracks exponentially smoothed mid-price momentum and, when
// it exceeds the threshold, posts a single-sided limit order just inside the
// spread: a buy one tick above the best bid in an uptrend, a sell one tick
// below the best ask in a downtrend.
type TrendFollower struct {
	Portfolio
	cfg TrendFollowerConfig

	momentum float64
	prevMid  float64
	hasPrev  bool
}

// NewTrendFollower creates a trend follower.
func NewTrendFollower(cfg TrendFollowerConfig) *TrendFollower {
	return &TrendFollower{
		Portfolio: NewPortfolio("trend", cfg.InitialCash, cfg.TickValue),
		cfg:       cfg,
	}
}

func (a *TrendFollower) Name() string  { return "Trend Follower" }
func (a *TrendFollower) Color() string { return "#F59E0B" }

// Momentum returns the current smoothed mid-price momentum.
func (a *TrendFollower) Momentum() float64 { return a.momentum }

// Reset flattens the portfolio and forgets the momentum state.
func (a *TrendFollower) Reset() {
	a.Portfolio.Reset()
	a.momentum = 0
	a.prevMid = 0
	a.hasPrev = false
}

// Decide updates the momentum estimate and takes a directional position
// when it is strong enough.
func (a *TrendFollower) Decide(h BookHandle, now int64) {
	h.CancelAllOrders(a.ID())

	mid, ok := midPrice(h)
	if !ok {
		return
	}
	if a.hasPrev {
		a.momentum = a.cfg.Alpha*(mid-a.prevMid) + (1-a.cfg.Alpha)*a.momentum
	}
	a.prevMid = mid
	a.hasPrev = true

	if math.Abs(a.momentum) < a.cfg.Threshold {
		return
	}

	if a.momentum > 0 {
		bb, ok := h.BestBid()
		if !ok {
			return
		}
		if o, err := book.NewLimitOrder(a.ID(), book.SideBid, bb+1, a.cfg.OrderSize, now); err == nil {
			h.AddOrder(o)
		}
		return
	}

	ba, ok := h.BestAsk()
	if !ok {
		return
	}
	price := ba - 1
	if price < book.MinPrice {
		price = book.MinPrice
	}
	if o, err := book.NewLimitOrder(a.ID(), book.SideAsk, price, a.cfg.OrderSize, now); err == nil {
		h.AddOrder(o)
	}
}
