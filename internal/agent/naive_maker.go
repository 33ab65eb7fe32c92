package agent

import (
	"github.com/shopspring/decimal"

	"lobsim/internal/book"
)

// NaiveMakerConfig tunes the naive market maker.
type NaiveMakerConfig struct {
	// SpreadMult scales the observed market spread into the quoted spread.
	SpreadMult float64
	// FallbackSpread is quoted when the market spread is unobservable.
	FallbackSpread float64
	// InventorySkew shifts both quotes by this many ticks per unit of
	// inventory, against the position, to mean-revert it.
	InventorySkew float64
	// QuoteSize is the resting volume per quote.
	QuoteSize book.Size
	// InitialCash and TickValue seed the portfolio.
	InitialCash decimal.Decimal
	TickValue   decimal.Decimal
}

// DefaultNaiveMakerConfig returns the stock tuning.
func DefaultNaiveMakerConfig() NaiveMakerConfig {
	return NaiveMakerConfig{
		SpreadMult:     1.5,
		FallbackSpread: 2,
		InventorySkew:  0.5,
		QuoteSize:      5,
		InitialCash:    decimal.NewFromInt(10000),
		TickValue:      decimal.New(1, -2),
	}
}

// NaiveMaker quotes symmetrically around the mid, shifting both quotes
// against its signed inventory. It cancels and reposts every cycle.
type NaiveMaker struct {
	Portfolio
	cfg NaiveMakerConfig
}

// NewNaiveMaker creates a naive market maker.
func NewNaiveMaker(cfg NaiveMakerConfig) *NaiveMaker {
	return &NaiveMaker{
		Portfolio: NewPortfolio("naive-mm", cfg.InitialCash, cfg.TickValue),
		cfg:       cfg,
	}
}

func (a *NaiveMaker) Name() string  { return "Naive MM" }
func (a *NaiveMaker) Color() string { return "#10B981" }

// Decide repositions both quotes around the inventory-shifted mid.
func (a *NaiveMaker) Decide(h BookHandle, now int64) {
	h.CancelAllOrders(a.ID())

	mid, ok := midPrice(h)
	if !ok {
		return
	}

	half := marketSpread(h) * a.cfg.SpreadMult / 2
	if half <= 0 {
		half = a.cfg.FallbackSpread / 2
	}
	center := mid - float64(a.Inventory())*a.cfg.InventorySkew

	bid := clampPrice(center - half)
	ask := clampPrice(center + half)
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
