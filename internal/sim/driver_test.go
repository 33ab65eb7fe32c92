package sim

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lobsim/internal/agent"
	"lobsim/internal/book"
	"lobsim/internal/noise"
)

func newTestDriver(cfg Config, seed int64, agents ...agent.Agent) *Driver {
	rng := rand.New(rand.NewSource(seed))
	gen := noise.New(noise.DefaultConfig(), rng)
	return New(cfg, book.NewEngine(), gen, agents, rng, nil)
}

func defaultAgents() []agent.Agent {
	return []agent.Agent{
		agent.NewNaiveMaker(agent.DefaultNaiveMakerConfig()),
		agent.NewDeepMaker(agent.DefaultDeepMakerConfig()),
		agent.NewTrendFollower(agent.DefaultTrendFollowerConfig()),
	}
}

func TestTickAccumulatesFixedSteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Step = 10 * time.Millisecond
	d := newTestDriver(cfg, 1)

	d.Tick(25 * time.Millisecond)
	assert.Equal(t, uint64(2), d.Steps(), "25ms at a 10ms step runs 2 steps")

	d.Tick(5 * time.Millisecond)
	assert.Equal(t, uint64(3), d.Steps(), "the 5ms remainder carries over")
}

func TestSpeedMultiplierScalesSimTime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Step = 10 * time.Millisecond
	d := newTestDriver(cfg, 1)
	d.SetSpeed(3)

	d.Tick(10 * time.Millisecond)
	assert.Equal(t, uint64(3), d.Steps())
}

func TestCatchUpIsCappedAndBacklogDropped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Step = 10 * time.Millisecond
	cfg.MaxCatchUp = 10
	d := newTestDriver(cfg, 1)

	// a long stall must not replay unboundedly
	d.Tick(5 * time.Second)
	assert.Equal(t, uint64(10), d.Steps())

	// and the excess is dropped, not queued
	d.Tick(0)
	assert.Equal(t, uint64(10), d.Steps())
}

func TestPauseStopsSimTime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Step = 10 * time.Millisecond
	d := newTestDriver(cfg, 1)

	d.Pause()
	snap := d.Tick(time.Second)
	assert.Equal(t, uint64(0), d.Steps())
	assert.NotNil(t, snap.Trades, "paused ticks still take a snapshot")

	d.Resume()
	d.Tick(30 * time.Millisecond)
	assert.Equal(t, uint64(3), d.Steps())
}

func TestSnapshotTakenOncePerTickRegardlessOfSteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Step = 10 * time.Millisecond
	d := newTestDriver(cfg, 7)

	snap := d.Tick(100 * time.Millisecond)
	// the snapshot reflects all steps run this tick
	total := book.Size(0)
	for _, o := range snap.Bids {
		total += o.Size
	}
	for _, o := range snap.Asks {
		total += o.Size
	}
	assert.Positive(t, int64(total)+int64(len(snap.Trades)), "noise flow reached the book")
}

func TestDisabledAgentsConvergeToZeroRestingOrders(t *testing.T) {
	agents := defaultAgents()
	cfg := DefaultConfig()
	cfg.Step = 10 * time.Millisecond
	cfg.AgentDecideProb = 1 // quote every step so the book holds their orders
	d := newTestDriver(cfg, 3, agents...)

	var snap book.Snapshot
	for i := 0; i < 50; i++ {
		snap = d.Tick(10 * time.Millisecond)
	}
	require.True(t, hasOwnerOrders(snap, "naive-mm") || hasOwnerOrders(snap, "deep-mm"),
		"makers should be resting before deactivation")

	d.SetAgentActive("naive-mm", false)
	d.SetAgentActive("deep-mm", false)

	// cancellation is probabilistic per step; 200 steps bound convergence
	for i := 0; i < 200; i++ {
		snap = d.Tick(10 * time.Millisecond)
	}
	assert.False(t, hasOwnerOrders(snap, "naive-mm"), "naive maker orders must be swept")
	assert.False(t, hasOwnerOrders(snap, "deep-mm"), "deep maker orders must be swept")
}

func hasOwnerOrders(snap book.Snapshot, owner book.OwnerID) bool {
	for _, o := range snap.Bids {
		if o.Owner == owner {
			return true
		}
	}
	for _, o := range snap.Asks {
		if o.Owner == owner {
			return true
		}
	}
	return false
}

func TestDeterministicAcrossRunsWithSameSeed(t *testing.T) {
	run := func() book.Snapshot {
		d := newTestDriver(DefaultConfig(), 99, defaultAgents()...)
		var snap book.Snapshot
		for i := 0; i < 300; i++ {
			snap = d.Tick(DefaultConfig().Step)
		}
		return snap
	}

	a, b := run(), run()
	require.Equal(t, len(a.Trades), len(b.Trades))
	assert.Equal(t, a.LastPrice, b.LastPrice)
	require.Equal(t, len(a.Bids), len(b.Bids))
	require.Equal(t, len(a.Asks), len(b.Asks))
	for i := range a.Bids {
		assert.Equal(t, a.Bids[i].Price, b.Bids[i].Price)
		assert.Equal(t, a.Bids[i].Size, b.Bids[i].Size)
	}
}

func TestBookNeverCrossedDuringLongRun(t *testing.T) {
	d := newTestDriver(DefaultConfig(), 11, defaultAgents()...)

	for i := 0; i < 2000; i++ {
		snap := d.Tick(DefaultConfig().Step)
		if len(snap.Bids) > 0 && len(snap.Asks) > 0 {
			require.Less(t, snap.Bids[0].Price, snap.Asks[0].Price,
				"tick %d left the book crossed", i)
		}
	}
}

func TestCleanupBoundsBookDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CleanupProb = 1
	cfg.CleanupDepth = 5
	d := newTestDriver(cfg, 5, defaultAgents()...)

	for i := 0; i < 500; i++ {
		snap := d.Tick(cfg.Step)
		assert.LessOrEqual(t, len(snap.Bids), cfg.CleanupDepth+3,
			"depth may only exceed the bound by orders added since the sweep")
	}
}

func TestSetSpeedIgnoresNonPositive(t *testing.T) {
	d := newTestDriver(DefaultConfig(), 1)
	d.SetSpeed(0)
	assert.Equal(t, 1.0, d.Speed())
	d.SetSpeed(-2)
	assert.Equal(t, 1.0, d.Speed())
}
