// Package config assembles runtime configuration for the simulation from
// defaults, an optional .env file, and environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"lobsim/internal/noise"
	"lobsim/internal/sim"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	// Seed feeds every random source in the simulation. Zero picks a
	// seed from the wall clock.
	Seed int64

	Driver sim.Config
	Noise  noise.Config

	// Regime is the regime the generator starts in.
	Regime noise.Regime

	// Agents toggles each built-in agent at startup.
	Agents AgentToggles

	// LogPath is where the file-backed logger writes. Empty means
	// stdout only.
	LogPath string
}

// AgentToggles enables or disables the built-in agents.
type AgentToggles struct {
	NaiveMaker    bool
	DeepMaker     bool
	TrendFollower bool
}

// Default returns the configuration the simulation ships with.
func Default() Config {
	return Config{
		Seed:   0,
		Driver: sim.DefaultConfig(),
		Noise:  noise.DefaultConfig(),
		Regime: noise.RegimeStable,
		Agents: AgentToggles{
			NaiveMaker:    true,
			DeepMaker:     true,
			TrendFollower: true,
		},
		LogPath: "",
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("LOBSIM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("LOBSIM_STEP_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.Driver.Step = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("LOBSIM_SPEED"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Driver.Speed = f
		}
	}
	if v := os.Getenv("LOBSIM_MAX_CATCHUP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Driver.MaxCatchUp = n
		}
	}
	if v := os.Getenv("LOBSIM_CLEANUP_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Driver.CleanupDepth = n
		}
	}
	if v := os.Getenv("LOBSIM_FAIR_PRICE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Noise.InitialFairPrice = f
		}
	}
	if v := os.Getenv("LOBSIM_VOLATILITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Noise.Volatility = f
		}
	}
	if v := os.Getenv("LOBSIM_REGIME"); v != "" {
		if r, ok := noise.ParseRegime(v); ok {
			cfg.Regime = r
		}
	}
	if v := os.Getenv("LOBSIM_NAIVE_MM"); v != "" {
		cfg.Agents.NaiveMaker = v == "true"
	}
	if v := os.Getenv("LOBSIM_DEEP_MM"); v != "" {
		cfg.Agents.DeepMaker = v == "true"
	}
	if v := os.Getenv("LOBSIM_TREND"); v != "" {
		cfg.Agents.TrendFollower = v == "true"
	}
	if v := os.Getenv("LOBSIM_LOG_PATH"); v != "" {
		cfg.LogPath = v
	}

	return cfg
}
