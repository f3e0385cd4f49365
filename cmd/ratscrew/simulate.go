package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/ratscrew/internal/simulator"
)

// SimulateCmd plays computer-only rounds in parallel
type SimulateCmd struct {
	Rounds    int           `default:"1000" help:"Number of rounds to simulate"`
	Seats     int           `default:"2" help:"Computer players per round"`
	Seed      int64         `env:"RATSCREW_SEED" help:"RNG seed (0 for random)"`
	Timeout   time.Duration `default:"10s" help:"Per-round timeout"`
	TurnLimit int           `default:"100000" help:"Count a round as stalled after this many turns"`
	Workers   int           `help:"Rounds played concurrently (0 for GOMAXPROCS)"`
	Verbose   bool          `short:"V" help:"Verbose logging"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	rules, err := cfg.GameRules()
	if err != nil {
		return err
	}

	level := log.WarnLevel
	if c.Verbose {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})

	ctx, cancel := signalContext(logger)
	defer cancel()

	sim := simulator.New(simulator.Config{
		Rounds:    c.Rounds,
		Seats:     c.Seats,
		Seed:      c.Seed,
		Timeout:   c.Timeout,
		TurnLimit: c.TurnLimit,
		Workers:   c.Workers,
		Rules:     rules,
		Logger:    logger,
	})

	start := time.Now()
	logger.Info("Starting simulation", "rounds", c.Rounds, "seats", c.Seats, "seed", sim.Seed())

	report, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintReport(os.Stdout, report)
	logger.Info("Simulation complete", "duration", time.Since(start))
	return nil
}
