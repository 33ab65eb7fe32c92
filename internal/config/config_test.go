package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lobsim/internal/noise"
)

func TestDefaultEnablesAllAgents(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Agents.NaiveMaker)
	assert.True(t, cfg.Agents.DeepMaker)
	assert.True(t, cfg.Agents.TrendFollower)
	assert.Equal(t, noise.RegimeStable, cfg.Regime)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("LOBSIM_SEED", "42")
	t.Setenv("LOBSIM_STEP_MS", "25")
	t.Setenv("LOBSIM_SPEED", "2.5")
	t.Setenv("LOBSIM_REGIME", "volatile")
	t.Setenv("LOBSIM_DEEP_MM", "false")

	cfg := LoadFromEnv("")
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 25*time.Millisecond, cfg.Driver.Step)
	assert.Equal(t, 2.5, cfg.Driver.Speed)
	assert.Equal(t, noise.RegimeVolatile, cfg.Regime)
	assert.False(t, cfg.Agents.DeepMaker)
	assert.True(t, cfg.Agents.NaiveMaker)
}

func TestMalformedEnvValuesAreIgnored(t *testing.T) {
	t.Setenv("LOBSIM_STEP_MS", "not-a-number")
	t.Setenv("LOBSIM_SPEED", "-1")
	t.Setenv("LOBSIM_REGIME", "SIDEWAYS")

	def := Default()
	cfg := LoadFromEnv("")
	assert.Equal(t, def.Driver.Step, cfg.Driver.Step)
	assert.Equal(t, def.Driver.Speed, cfg.Driver.Speed)
	assert.Equal(t, def.Regime, cfg.Regime)
}
