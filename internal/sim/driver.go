// Package sim contains the fixed-timestep driver that advances the market:
// noise injection, agent decisions, and book maintenance all run from here,
// in a fixed order, on a single goroutine.
package sim

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"lobsim/internal/agent"
	"lobsim/internal/book"
	"lobsim/internal/noise"
)

// State is the driver's run state. There are exactly two.
type State uint8

const (
	StateRunning State = iota
	StatePaused
)

func (s State) String() string {
	if s == StatePaused {
		return "PAUSED"
	}
	return "RUNNING"
}

// Config holds the driver tunables. All probabilities are per simulation
// step.
type Config struct {
	// Step is the fixed simulation timestep.
	Step time.Duration
	// MaxCatchUp caps how many steps one Tick may run after a stall;
	// excess accumulated time is dropped, never queued.
	MaxCatchUp int
	// Speed multiplies wall-clock time before accumulation.
	Speed float64

	// NoiseOrderProb is the chance a step injects a noise order.
	NoiseOrderProb float64
	// FairPriceProb is the chance a step advances the fair-price walk.
	FairPriceProb float64
	// AgentDecideProb is the chance an active agent decides this step.
	AgentDecideProb float64
	// InactiveCancelProb is the chance a disabled agent's resting orders
	// are swept this step, so deactivation converges quickly.
	InactiveCancelProb float64
	// CleanupProb is the chance a step truncates deep book liquidity to
	// CleanupDepth orders per side.
	CleanupProb  float64
	CleanupDepth int
}

// DefaultConfig returns the driver tuning the simulation ships with.
func DefaultConfig() Config {
	return Config{
		Step:               time.Second / 60,
		MaxCatchUp:         10,
		Speed:              1,
		NoiseOrderProb:     0.7,
		FairPriceProb:      0.1,
		AgentDecideProb:    0.15,
		InactiveCancelProb: 0.2,
		CleanupProb:        0.02,
		CleanupDepth:       50,
	}
}

// Driver owns the matching engine exclusively and advances the simulation on
// a fixed timestep, decoupled from however fast the consumer ticks it.
// Within each step the order is fixed: noise injection, fair-price update,
// agent decisions (in stable agent order), book cleanup.
type Driver struct {
	cfg    Config
	engine *book.Engine
	gen    *noise.Generator
	agents []agent.Agent
	active map[book.OwnerID]bool

	rng   *rand.Rand
	clock *StepClock
	log   *zap.Logger

	state State
	speed float64
	acc   time.Duration
	steps uint64
}

// New creates a Driver. The agent slice order fixes the decision order.
func New(cfg Config, engine *book.Engine, gen *noise.Generator, agents []agent.Agent, rng *rand.Rand, log *zap.Logger) *Driver {
	if cfg.Step <= 0 {
		cfg.Step = DefaultConfig().Step
	}
	if cfg.MaxCatchUp <= 0 {
		cfg.MaxCatchUp = DefaultConfig().MaxCatchUp
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	active := make(map[book.OwnerID]bool, len(agents))
	for _, a := range agents {
		active[a.ID()] = true
	}

	return &Driver{
		cfg:    cfg,
		engine: engine,
		gen:    gen,
		agents: agents,
		active: active,
		rng:    rng,
		clock:  NewStepClock(cfg.Step),
		log:    log,
		speed:  cfg.Speed,
	}
}

// Tick consumes elapsed wall-clock time and returns a fresh snapshot. While
// paused, no simulation time accumulates but a snapshot is still taken.
func (d *Driver) Tick(elapsed time.Duration) book.Snapshot {
	if d.state == StateRunning {
		d.acc += time.Duration(float64(elapsed) * d.speed)
		ran := 0
		for d.acc >= d.cfg.Step && ran < d.cfg.MaxCatchUp {
			d.acc -= d.cfg.Step
			d.step()
			ran++
		}
		if d.acc >= d.cfg.Step {
			// hit the catch-up cap: drop the backlog
			d.log.Debug("dropping accumulated simulation time",
				zap.Duration("dropped", d.acc))
			d.acc = 0
		}
	}
	return d.engine.Snapshot()
}

func (d *Driver) step() {
	d.clock.Advance()
	d.steps++

	if d.rng.Float64() < d.cfg.NoiseOrderProb {
		d.engine.AddOrder(d.gen.GenerateOrder(d.clock.Next()))
	}
	if d.rng.Float64() < d.cfg.FairPriceProb {
		d.gen.UpdateFairPrice()
	}

	for _, a := range d.agents {
		a.Reconcile(d.engine)
		if d.active[a.ID()] {
			if d.rng.Float64() < d.cfg.AgentDecideProb {
				a.Decide(d.engine, d.clock.Next())
			}
		} else if d.rng.Float64() < d.cfg.InactiveCancelProb {
			d.engine.CancelAllOrders(a.ID())
		}
	}

	if d.rng.Float64() < d.cfg.CleanupProb {
		d.engine.Cleanup(d.cfg.CleanupDepth)
	}
}

// State returns the current run state.
func (d *Driver) State() State { return d.state }

// Pause halts simulation time.
func (d *Driver) Pause() { d.state = StatePaused }

// Resume restarts simulation time. Wall-clock time spent paused is not
// accumulated.
func (d *Driver) Resume() { d.state = StateRunning }

// TogglePause flips between the two run states.
func (d *Driver) TogglePause() {
	if d.state == StateRunning {
		d.Pause()
	} else {
		d.Resume()
	}
}

// Speed returns the current speed multiplier.
func (d *Driver) Speed() float64 { return d.speed }

// SetSpeed replaces the speed multiplier; non-positive values are ignored.
func (d *Driver) SetSpeed(v float64) {
	if v <= 0 {
		return
	}
	d.speed = v
}

// Steps returns how many simulation steps have run.
func (d *Driver) Steps() uint64 { return d.steps }

// Agents returns the agents in decision order.
func (d *Driver) Agents() []agent.Agent { return d.agents }

// AgentActive reports whether the agent participates in decision cycles.
func (d *Driver) AgentActive(id book.OwnerID) bool { return d.active[id] }

// SetAgentActive enables or disables an agent. A disabled agent stops
// deciding; its resting orders are swept probabilistically until gone.
func (d *Driver) SetAgentActive(id book.OwnerID, v bool) {
	if _, ok := d.active[id]; !ok {
		return
	}
	d.active[id] = v
	d.log.Info("agent toggled", zap.String("agent", string(id)), zap.Bool("active", v))
}

// ResetPortfolios flattens every agent back to its starting portfolio.
func (d *Driver) ResetPortfolios() {
	for _, a := range d.agents {
		a.Reset()
	}
	d.log.Info("agent portfolios reset")
}

// Regime returns the noise generator's current regime.
func (d *Driver) Regime() noise.Regime { return d.gen.Regime() }

// SetRegime switches the noise regime.
func (d *Driver) SetRegime(r noise.Regime) {
	d.gen.SetRegime(r)
	d.log.Info("regime changed", zap.Stringer("regime", r))
}

// Volatility returns the noise volatility scalar.
func (d *Driver) Volatility() float64 { return d.gen.Volatility() }

// SetVolatility replaces the noise volatility scalar.
func (d *Driver) SetVolatility(v float64) { d.gen.SetVolatility(v) }

// FairPrice returns the noise generator's fair-price level.
func (d *Driver) FairPrice() float64 { return d.gen.FairPrice() }
