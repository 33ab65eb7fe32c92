// Package noise produces the synthetic order flow that keeps the book alive:
// limit and market orders scattered around a drifting fair price, biased by
// an externally selected market regime.
package noise

import (
	"math"
	"math/rand"
	"strings"

	"lobsim/internal/book"
)

// Owner is the owner id stamped on all noise-generated orders.
const Owner book.OwnerID = "noise"

// Regime is the macro market-condition mode biasing the generator.
type Regime uint8

const (
	RegimeStable Regime = iota
	RegimeUptrend
	RegimeDowntrend
	RegimeVolatile
)

func (r Regime) String() string {
	switch r {
	case RegimeStable:
		return "STABLE"
	case RegimeUptrend:
		return "UPTREND"
	case RegimeDowntrend:
		return "DOWNTREND"
	case RegimeVolatile:
		return "VOLATILE"
	default:
		return "UNKNOWN"
	}
}

// ParseRegime maps a regime name (case-insensitive) back to its value.
func ParseRegime(s string) (Regime, bool) {
	switch strings.ToUpper(s) {
	case "STABLE":
		return RegimeStable, true
	case "UPTREND":
		return RegimeUptrend, true
	case "DOWNTREND":
		return RegimeDowntrend, true
	case "VOLATILE":
		return RegimeVolatile, true
	default:
		return RegimeStable, false
	}
}

// Regimes lists all regimes in cycle order.
var Regimes = []Regime{RegimeStable, RegimeUptrend, RegimeDowntrend, RegimeVolatile}

// Config holds the tunables of the noise process. Prices are in ticks.
type Config struct {
	// InitialFairPrice seeds the fair-price random walk.
	InitialFairPrice float64
	// Volatility scales the Gaussian price offset of generated orders.
	Volatility float64
	// VolatileVolScale further scales the offset under RegimeVolatile.
	VolatileVolScale float64
	// SpreadBias pushes bids below and asks above the fair price so the
	// book carries a natural spread.
	SpreadBias float64
	// MarketOrderProb is the chance a generated order is a market order;
	// VolatileMarketOrderProb replaces it under RegimeVolatile.
	MarketOrderProb         float64
	VolatileMarketOrderProb float64
	// TrendSideSkew shifts the bid/ask coin under trend regimes.
	TrendSideSkew float64
	// MinVolume..MaxVolume bound the uniform volume draw; the upper bound
	// widens to VolatileMaxVolume under RegimeVolatile.
	MinVolume         int
	MaxVolume         int
	VolatileMaxVolume int
	// WalkStep scales the fair-price random-walk step; Drift is added
	// (subtracted) under the uptrend (downtrend) regime, and the step is
	// multiplied by VolatileStepScale under RegimeVolatile.
	WalkStep          float64
	Drift             float64
	VolatileStepScale float64
	// MinFairPrice floors the walk to a strictly positive level.
	MinFairPrice float64
}

// DefaultConfig returns the tuning the simulation ships with.
func DefaultConfig() Config {
	return Config{
		InitialFairPrice:        100,
		Volatility:              2.0,
		VolatileVolScale:        2.5,
		SpreadBias:              1.5,
		MarketOrderProb:         0.08,
		VolatileMarketOrderProb: 0.16,
		TrendSideSkew:           0.15,
		MinVolume:               1,
		MaxVolume:               10,
		VolatileMaxVolume:       25,
		WalkStep:                0.5,
		Drift:                   0.35,
		VolatileStepScale:       3,
		MinFairPrice:            5,
	}
}

// Generator emits synthetic orders around a regime-driven fair price.
// Not safe for concurrent use; the driver owns it.
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	fair   float64
	vol    float64
	regime Regime

	spare    float64
	hasSpare bool
}

// New creates a Generator drawing randomness from rng.
func New(cfg Config, rng *rand.Rand) *Generator {
	return &Generator{
		cfg:  cfg,
		rng:  rng,
		fair: cfg.InitialFairPrice,
		vol:  cfg.Volatility,
	}
}

// gauss draws a standard normal deviate via the Box-Muller transform,
// caching the second deviate of each pair.
func (g *Generator) gauss() float64 {
	if g.hasSpare {
		g.hasSpare = false
		return g.spare
	}
	u := g.rng.Float64()
	for u == 0 {
		u = g.rng.Float64()
	}
	v := g.rng.Float64()
	r := math.Sqrt(-2 * math.Log(u))
	g.spare = r * math.Sin(2*math.Pi*v)
	g.hasSpare = true
	return r * math.Cos(2*math.Pi*v)
}

// GenerateOrder emits one order stamped with the given timestamp.
func (g *Generator) GenerateOrder(now int64) book.Order {
	side := g.drawSide()
	size := g.drawSize()

	marketProb := g.cfg.MarketOrderProb
	if g.regime == RegimeVolatile {
		marketProb = g.cfg.VolatileMarketOrderProb
	}
	if g.rng.Float64() < marketProb {
		o, _ := book.NewMarketOrder(Owner, side, size, now)
		return o
	}

	vol := g.vol
	if g.regime == RegimeVolatile {
		vol *= g.cfg.VolatileVolScale
	}
	price := g.fair + g.gauss()*vol
	if side == book.SideBid {
		price -= g.cfg.SpreadBias
	} else {
		price += g.cfg.SpreadBias
	}

	ticks := book.PriceTicks(math.Round(price))
	if ticks < book.MinPrice {
		ticks = book.MinPrice
	}

	// price and size are clamped above; the constructor cannot fail
	o, _ := book.NewLimitOrder(Owner, side, ticks, size, now)
	return o
}

func (g *Generator) drawSide() book.Side {
	bidProb := 0.5
	switch g.regime {
	case RegimeUptrend:
		bidProb += g.cfg.TrendSideSkew
	case RegimeDowntrend:
		bidProb -= g.cfg.TrendSideSkew
	}
	if g.rng.Float64() < bidProb {
		return book.SideBid
	}
	return book.SideAsk
}

func (g *Generator) drawSize() book.Size {
	max := g.cfg.MaxVolume
	if g.regime == RegimeVolatile {
		max = g.cfg.VolatileMaxVolume
	}
	if max < g.cfg.MinVolume {
		max = g.cfg.MinVolume
	}
	return book.Size(g.cfg.MinVolume + g.rng.Intn(max-g.cfg.MinVolume+1))
}

// UpdateFairPrice advances the fair-price random walk one step and returns
// the new level.
func (g *Generator) UpdateFairPrice() float64 {
	step := g.gauss() * g.cfg.WalkStep
	switch g.regime {
	case RegimeUptrend:
		step += g.cfg.Drift
	case RegimeDowntrend:
		step -= g.cfg.Drift
	case RegimeVolatile:
		step *= g.cfg.VolatileStepScale
	}
	g.fair += step
	if g.fair < g.cfg.MinFairPrice {
		g.fair = g.cfg.MinFairPrice
	}
	return g.fair
}

// FairPrice returns the current fair-price level.
func (g *Generator) FairPrice() float64 { return g.fair }

// SetVolatility replaces the volatility scalar.
func (g *Generator) SetVolatility(v float64) {
	if v < 0 {
		v = 0
	}
	g.vol = v
}

// Volatility returns the current volatility scalar.
func (g *Generator) Volatility() float64 { return g.vol }

// SetRegime switches the macro regime.
func (g *Generator) SetRegime(r Regime) { g.regime = r }

// Regime returns the current macro regime.
func (g *Generator) Regime() Regime { return g.regime }
