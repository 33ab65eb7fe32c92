package agent

import (
	"github.com/shopspring/decimal"

	"lobsim/internal/book"
)

// DeepMakerConfig tunes the deep/wide market maker.
type DeepMakerConfig struct {
	// SpreadMult scales the observed market spread; the quoted spread
	// never drops below FloorSpread even when the market spread is ~0.
	SpreadMult  float64
	FloorSpread float64
	// QuoteSize is the resting volume per quote.
	QuoteSize book.Size
	// InitialCash and TickValue seed the portfolio.
	InitialCash decimal.Decimal
	TickValue   decimal.Decimal
}

// DefaultDeepMakerConfig returns the stock tuning.
func DefaultDeepMakerConfig() DeepMakerConfig {
	return DeepMakerConfig{
		SpreadMult:  4,
		FloorSpread: 8,
		QuoteSize:   20,
		InitialCash: decimal.NewFromInt(50000),
		TickValue:   decimal.New(1, -2),
	}
}

// DeepMaker is a liquidity provider that avoids the touch: it quotes a
// spread several multiples of the market's, with larger resting volume.
type DeepMaker struct {
	Portfolio
	cfg DeepMakerConfig
}

// NewDeepMaker creates a deep/wide market maker.
func NewDeepMaker(cfg DeepMakerConfig) *DeepMaker {
	return &DeepMaker{
		Portfolio: NewPortfolio("deep-mm", cfg.InitialCash, cfg.TickValue),
		cfg:       cfg,
	}
}

func (a *DeepMaker) Name() string  { return "Deep MM" }
func (a *DeepMaker) Color() string { return "#7C3AED" }

// Decide reposts wide symmetric quotes around the mid.
func (a *DeepMaker) Decide(h BookHandle, now int64) {
	h.CancelAllOrders(a.ID())

	mid, ok := midPrice(h)
	if !ok {
		return
	}

	spread := marketSpread(h) * a.cfg.SpreadMult
	if spread < a.cfg.FloorSpread {
		spread = a.cfg.FloorSpread
	}
	half := spread / 2

	bid := clampPrice(mid - half)
	ask := clampPrice(mid + half)
	if ask <= bid {
		ask = bid + 1
	}

	if o, err := book.NewLimitOrder(a.ID(), book.SideBid, bid, a.cfg.QuoteSize, now); err == nil {
		h.AddOrder(o)
	}
	if o, err := book.NewLimitOrder(a.ID(), book.SideAsk, ask, a.cfg.QuoteSize, now); err == nil {
		h.AddOrder(o)
	}
}
