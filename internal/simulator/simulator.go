package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/ratscrew/internal/game"
	"github.com/lox/ratscrew/internal/randutil"
	"github.com/lox/ratscrew/internal/statistics"
)

// DefaultTurnLimit stops computer-only rounds that never converge
const DefaultTurnLimit = 100_000

// Config holds configuration for running simulations
type Config struct {
	Rounds    int
	Seats     int
	Seed      int64
	Timeout   time.Duration
	TurnLimit int
	Workers   int
	Rules     game.Rules
	Logger    *log.Logger
}

// Report is the outcome of a simulation run
type Report struct {
	Seed    int64
	Seats   int
	Stalled int
	Summary *statistics.Summary
}

// Simulator plays computer-only rounds in parallel
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Seats == 0 {
		config.Seats = config.Rules.MinSeats()
	}
	if config.TurnLimit == 0 {
		config.TurnLimit = DefaultTurnLimit
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Seed == 0 {
		config.Seed = randutil.NewSource(0).Seed()
	}
	return &Simulator{config: config}
}

// Seed returns the seed the run derives every round from
func (s *Simulator) Seed() int64 {
	return s.config.Seed
}

type outcome struct {
	result  *game.RoundResult
	stalled bool
}

// Run plays every round and aggregates the results in round order, so a
// given seed always produces the same report.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}
	if err := s.config.Rules.Validate(); err != nil {
		return nil, err
	}
	if s.config.Seats < s.config.Rules.MinSeats() {
		return nil, fmt.Errorf("%w: %d seats, need at least %d", game.ErrTooFewPlayers, s.config.Seats, s.config.Rules.MinSeats())
	}
	if s.config.Seats > s.config.Rules.MaxSeats() {
		return nil, fmt.Errorf("%w: %d seats, at most %d", game.ErrTooManyPlayers, s.config.Seats, s.config.Rules.MaxSeats())
	}

	outcomes := make([]outcome, s.config.Rounds)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range outcomes {
		g.Go(func() error {
			result, err := s.playRoundWithTimeout(ctx, i)
			switch {
			case errors.Is(err, game.ErrTurnLimit):
				s.config.Logger.Warn("Round stalled", "round", i+1, "seed", randutil.Derive(s.config.Seed, i))
				outcomes[i] = outcome{stalled: true}
				return nil
			case err != nil:
				return err
			}
			outcomes[i] = outcome{result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Seed:    s.config.Seed,
		Seats:   s.config.Seats,
		Summary: statistics.NewSummary(),
	}
	for _, o := range outcomes {
		if o.stalled {
			report.Stalled++
			continue
		}
		report.Summary.Add(statistics.RoundResult{
			Winner:  o.result.Winner.Name,
			Turns:   o.result.Turns,
			Players: o.result.Stats,
		})
	}

	if report.Summary.Rounds > 0 {
		if err := report.Summary.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed: %w", err)
		}
	}

	return report, nil
}

// playRoundWithTimeout runs a single round with timeout protection
func (s *Simulator) playRoundWithTimeout(ctx context.Context, round int) (*game.RoundResult, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	seed := randutil.Derive(s.config.Seed, round)
	result, err := s.playRound(ctx, seed)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("round %d timed out after %v (seed: %d)", round+1, s.config.Timeout, seed)
	}
	return result, err
}

// playRound deals a shuffled deck to computer players that all draw from
// the same per-round source
func (s *Simulator) playRound(ctx context.Context, seed int64) (*game.RoundResult, error) {
	src := randutil.NewSource(seed)

	players := make([]*game.Player, s.config.Seats)
	names := make([]string, s.config.Seats)
	for i := range players {
		names[i] = fmt.Sprintf("CPU %d", i+1)
		players[i] = game.NewPlayer(names[i], game.NewComputerAgent(src))
	}

	engine, err := game.NewEngine(s.config.Rules, players,
		game.WithLogger(s.config.Logger),
		game.WithStats(statistics.NewRoundStats(names...)),
		game.WithTurnLimit(s.config.TurnLimit),
	)
	if err != nil {
		return nil, err
	}

	d := s.config.Rules.NewDeck()
	d.Shuffle(src)
	engine.Deal(d)

	return engine.PlayRound(ctx)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// PrintReport writes a summary of simulation results
func PrintReport(w io.Writer, r *Report) {
	sum := r.Summary
	low, high := sum.ConfidenceInterval95()

	fmt.Fprintf(w, "\n%s\n", titleStyle.Render(fmt.Sprintf("=== SIMULATION RESULTS (%d seats) ===", r.Seats)))
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Seed:"), r.Seed)
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Rounds played:"), sum.Rounds)
	if r.Stalled > 0 {
		fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Rounds stalled:"), r.Stalled)
	}

	if sum.Rounds == 0 {
		fmt.Fprintln(w, "\nNo rounds finished; every round hit the turn limit.")
		return
	}

	fmt.Fprintf(w, "\n%s\n", titleStyle.Render("=== ROUND LENGTH ==="))
	fmt.Fprintf(w, "Mean: %.1f turns\n", sum.Mean())
	fmt.Fprintf(w, "Median: %.1f turns\n", sum.Median())
	fmt.Fprintf(w, "Std Dev: %.1f turns\n", sum.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.1f, %.1f] turns\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.0f, P25=%.0f, P75=%.0f, P95=%.0f\n",
		sum.Percentile(0.05), sum.Percentile(0.25), sum.Percentile(0.75), sum.Percentile(0.95))
	fmt.Fprintf(w, "Range: %d to %d turns\n", sum.MinTurns, sum.MaxTurns)

	fmt.Fprintf(w, "\n%s\n", titleStyle.Render("=== SEAT ANALYSIS ==="))
	for _, name := range sum.Players() {
		fmt.Fprintf(w, "%s: won %d (%.1f%%), %d slaps, %d piles\n",
			name, sum.Wins[name], sum.WinRate(name)*100, sum.Slaps[name], sum.Piles[name])
	}
}
