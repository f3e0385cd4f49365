package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/ratscrew/internal/config"
	"github.com/lox/ratscrew/internal/console"
	"github.com/lox/ratscrew/internal/game"
	"github.com/lox/ratscrew/internal/randutil"
	"github.com/lox/ratscrew/internal/session"
	"github.com/lox/ratscrew/internal/statistics"
	"github.com/lox/ratscrew/internal/tui"
)

// PlayCmd plays interactive rounds. Flags override the config file.
type PlayCmd struct {
	Humans      []string      `short:"n" name:"human" env:"RATSCREW_HUMANS" help:"Human player names in seat order (repeatable)"`
	UI          string        `env:"RATSCREW_UI" help:"Front end: console or tui"`
	Seed        int64         `env:"RATSCREW_SEED" help:"RNG seed for shuffles and computer decisions (0 for random)"`
	SlapTimeout time.Duration `env:"RATSCREW_SLAP_TIMEOUT" help:"Decline slap prompts left unanswered this long (0 waits)"`
	MaxTurns    int           `env:"RATSCREW_MAX_TURNS" help:"Abandon a round after this many turns (0 for no limit)"`
	Debug       bool          `help:"Enable debug logging"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	rules, err := cfg.GameRules()
	if err != nil {
		return err
	}
	slapTimeout, err := cfg.SlapTimeout()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	level := cfg.LogLevel()
	if c.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})

	src := randutil.NewSource(cfg.Session.Seed)
	logger.Info("Starting session", "ui", cfg.Session.UI, "seed", src.Seed(), "rules", rules.PenaltyTable())

	ctx, cancel := signalContext(logger)
	defer cancel()

	sessCfg := session.Config{
		Rules:        rules,
		Humans:       cfg.Session.Humans,
		ComputerName: cfg.Session.ComputerName,
		TurnLimit:    cfg.Rules.MaxTurns,
	}

	var summary *statistics.Summary
	if cfg.Session.UI == "tui" {
		summary, err = playTUI(ctx, sessCfg, slapTimeout, src, logger)
	} else {
		summary, err = playConsole(ctx, sessCfg, slapTimeout, src, logger, g.NoColor)
	}
	if summary != nil && summary.Rounds > 0 {
		console.PrintSummary(os.Stdout, summary)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// apply copies any flags that were set over the config file values
func (c *PlayCmd) apply(cfg *config.Config) {
	if len(c.Humans) > 0 {
		cfg.Session.Humans = c.Humans
	}
	if c.UI != "" {
		cfg.Session.UI = c.UI
	}
	if c.Seed != 0 {
		cfg.Session.Seed = c.Seed
	}
	if c.SlapTimeout > 0 {
		cfg.Session.SlapTimeout = c.SlapTimeout.String()
	}
	if c.MaxTurns > 0 {
		cfg.Rules.MaxTurns = c.MaxTurns
	}
}

func playConsole(ctx context.Context, cfg session.Config, slapTimeout time.Duration, src randutil.Source, logger *log.Logger, plain bool) (*statistics.Summary, error) {
	fmt.Println(banner())
	fmt.Println()

	prompter := console.NewPrompter(os.Stdin, os.Stdout,
		console.WithSlapTimeout(slapTimeout),
		console.WithPrompterLogger(logger),
	)

	if len(cfg.Humans) == 0 {
		humans, err := prompter.PromptPlayers(ctx, cfg.Rules.MaxSeats()-1)
		if err != nil {
			return nil, err
		}
		cfg.Humans = humans
	}

	bus := game.NewEventBus()
	bus.Subscribe(console.NewPrinter(os.Stdout, plain))

	sess, err := session.New(cfg, prompter, prompter,
		session.WithEventBus(bus),
		session.WithLogger(logger),
		session.WithSource(src),
	)
	if err != nil {
		return nil, err
	}

	return sess.Run(ctx)
}

func playTUI(ctx context.Context, cfg session.Config, slapTimeout time.Duration, src randutil.Source, logger *log.Logger) (*statistics.Summary, error) {
	if len(cfg.Humans) == 0 {
		cfg.Humans = []string{"Player 1"}
	}

	app := tui.NewApp(logger, tui.WithSlapTimeout(slapTimeout))

	bus := game.NewEventBus()
	bus.Subscribe(app.Subscriber())

	sess, err := session.New(cfg, app.Prompter(), app.Prompter(),
		session.WithEventBus(bus),
		session.WithLogger(logger),
		session.WithSource(src),
	)
	if err != nil {
		return nil, err
	}

	err = app.Run(ctx, func(ctx context.Context) error {
		app.Log(banner())
		app.Log(fmt.Sprintf("Penalties: %s", cfg.Rules.PenaltyTable()))
		_, err := sess.Run(ctx)
		return err
	})
	return sess.Summary(), err
}
