package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"lobsim/internal/agent"
	"lobsim/internal/book"
	"lobsim/internal/config"
	"lobsim/internal/logging"
	"lobsim/internal/noise"
	"lobsim/internal/sim"
	"lobsim/tui"
)

func main() {
	cfg := config.LoadFromEnv("")

	// The TUI owns stdout, so logs go to a file.
	logPath := cfg.LogPath
	if logPath == "" {
		logPath = "logs/lobsim.log"
	}
	logger, err := logging.NewFile(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	gen := noise.New(cfg.Noise, rng)
	gen.SetRegime(cfg.Regime)

	var agents []agent.Agent
	if cfg.Agents.NaiveMaker {
		agents = append(agents, agent.NewNaiveMaker(agent.DefaultNaiveMakerConfig()))
	}
	if cfg.Agents.DeepMaker {
		agents = append(agents, agent.NewDeepMaker(agent.DefaultDeepMakerConfig()))
	}
	if cfg.Agents.TrendFollower {
		agents = append(agents, agent.NewTrendFollower(agent.DefaultTrendFollowerConfig()))
	}

	driver := sim.New(cfg.Driver, book.NewEngine(), gen, agents, rng, logger)

	logger.Info("starting terminal ui",
		zap.Int64("seed", seed),
		zap.String("regime", cfg.Regime.String()),
		zap.Int("agents", len(agents)),
	)

	p := tea.NewProgram(tui.NewModel(driver), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("terminal ui exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
