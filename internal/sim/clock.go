package sim

import "time"

// Clock is the monotonic timestamp source the simulation stamps orders with.
// Timestamps only order events; they are not wall-clock time.
type Clock interface {
	// Now returns the current simulation time in nanoseconds.
	Now() int64
	// Next returns a strictly increasing timestamp. Two calls never
	// return the same value, which keeps the engine's earlier-timestamp
	// price rule deterministic.
	Next() int64
}

// StepClock advances simulation time by a fixed step and hands out strictly
// increasing sub-step timestamps for orders submitted within one step.
type StepClock struct {
	base   int64
	seq    int64
	stepNs int64
}

// NewStepClock creates a StepClock advancing by step per Advance call.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{stepNs: step.Nanoseconds()}
}

// Advance moves to the next simulation step.
func (c *StepClock) Advance() {
	c.base += c.stepNs
	c.seq = 0
}

// Now implements Clock.
func (c *StepClock) Now() int64 { return c.base }

// Next implements Clock.
func (c *StepClock) Next() int64 {
	c.seq++
	return c.base + c.seq
}
