// Headless simulation runner. Drives the engine on a wall-clock ticker and
// logs market stats, so behavior can be observed or soaked without the
// terminal UI.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lobsim/internal/agent"
	"lobsim/internal/book"
	"lobsim/internal/config"
	"lobsim/internal/logging"
	"lobsim/internal/noise"
	"lobsim/internal/sim"
)

func main() {
	cfg := config.LoadFromEnv("")

	logger, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("interrupt received, shutting down")
		cancel()
	}()

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

	engine := book.NewEngine()
	driver := sim.New(cfg.Driver, engine, gen, agents, rng, logger)

	logger.Info("simulation starting",
		zap.Int64("seed", seed),
		zap.String("regime", cfg.Regime.String()),
		zap.Duration("step", cfg.Driver.Step),
		zap.Float64("speed", cfg.Driver.Speed),
		zap.Int("agents", len(agents)),
	)

	ticker := time.NewTicker(cfg.Driver.Step)
	defer ticker.Stop()

	statsEvery := time.NewTicker(5 * time.Second)
	defer statsEvery.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			logger.Info("simulation stopped",
				zap.Uint64("steps", driver.Steps()),
				zap.Int("trades", engine.TradeCount()),
			)
			return

		case now := <-ticker.C:
			driver.Tick(now.Sub(last))
			last = now

		case <-statsEvery.C:
			logStats(logger, driver, engine)
		}
	}
}

func logStats(logger *zap.Logger, driver *sim.Driver, engine *book.Engine) {
	fields := []zap.Field{
		zap.Uint64("steps", driver.Steps()),
		zap.Float64("fair_price", driver.FairPrice()),
		zap.Int64("last_price", int64(engine.LastPrice())),
		zap.Int("trades", engine.TradeCount()),
		zap.Int64("bid_volume", int64(engine.RestingVolume(book.SideBid))),
		zap.Int64("ask_volume", int64(engine.RestingVolume(book.SideAsk))),
		zap.String("regime", driver.Regime().String()),
	}
	for _, a := range driver.Agents() {
		fields = append(fields,
			zap.String(string(a.ID())+"_pnl", a.UnrealizedPnL(engine.LastPrice()).StringFixed(2)))
	}
	logger.Info("market stats", fields...)
}
