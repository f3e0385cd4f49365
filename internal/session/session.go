// Package session runs rounds back to back for a fixed table of humans and
// one computer player, keeping a running summary until the humans stop.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/ratscrew/internal/game"
	"github.com/lox/ratscrew/internal/randutil"
	"github.com/lox/ratscrew/internal/statistics"
)

var (
	// ErrNoHumans is returned when a session has nobody to prompt
	ErrNoHumans = errors.New("at least one human player is required")

	// ErrTooManyHumans is returned when the humans and the computer do not fit the table
	ErrTooManyHumans = errors.New("too many human players")
)

// Continuer asks whether to play another round
type Continuer interface {
	PromptAnother(ctx context.Context) (bool, error)
}

// Config describes the table a session plays at
type Config struct {
	Rules        game.Rules
	Humans       []string
	ComputerName string
	TurnLimit    int
}

// Option configures a Session
type Option func(*Session)

// WithEventBus publishes every round's events to bus
func WithEventBus(bus game.EventBus) Option {
	return func(s *Session) { s.bus = bus }
}

// WithLogger sets the session logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithSource sets the randomness for shuffles and computer slaps
func WithSource(src randutil.Source) Option {
	return func(s *Session) { s.src = src }
}

// WithInvariantChecks enables card conservation checks in every round
func WithInvariantChecks() Option {
	return func(s *Session) { s.checkInvariants = true }
}

// Session is the controller between rounds: it deals, resets statistics,
// runs the engine and asks whether to continue.
type Session struct {
	cfg       Config
	players   []*game.Player
	continuer Continuer
	bus       game.EventBus
	logger    *log.Logger
	src       randutil.Source
	stats     *statistics.RoundStats
	summary   *statistics.Summary

	checkInvariants bool
}

// New validates the table and seats the humans, in order, followed by the computer
func New(cfg Config, prompter game.Prompter, continuer Continuer, opts ...Option) (*Session, error) {
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Humans) == 0 {
		return nil, ErrNoHumans
	}
	if len(cfg.Humans)+1 > cfg.Rules.MaxSeats() {
		return nil, fmt.Errorf("%w: %d humans plus the computer exceed %d seats",
			ErrTooManyHumans, len(cfg.Humans), cfg.Rules.MaxSeats())
	}
	if cfg.TurnLimit < 0 {
		return nil, fmt.Errorf("turn limit must not be negative, got %d", cfg.TurnLimit)
	}

	s := &Session{
		cfg:       cfg,
		continuer: continuer,
		summary:   statistics.NewSummary(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.logger = s.logger.WithPrefix("session")
	if s.bus == nil {
		s.bus = game.NewEventBus()
	}
	if s.src == nil {
		s.src = randutil.NewSource(0)
	}

	names := make([]string, 0, len(cfg.Humans)+1)
	for _, name := range cfg.Humans {
		s.players = append(s.players, game.NewPlayer(name, game.NewHumanAgent(prompter, s.logger)))
		names = append(names, name)
	}
	s.players = append(s.players, game.NewPlayer(cfg.ComputerName, game.NewComputerAgent(s.src)))
	names = append(names, cfg.ComputerName)

	if err := game.ValidatePlayers(cfg.Rules, s.players); err != nil {
		return nil, err
	}
	s.stats = statistics.NewRoundStats(names...)

	return s, nil
}

// Players returns the seated players in seat order
func (s *Session) Players() []*game.Player {
	return append([]*game.Player(nil), s.players...)
}

// Summary returns the results of every round played so far
func (s *Session) Summary() *statistics.Summary {
	return s.summary
}

// PlayRound shuffles a fresh deck, deals it and plays one round to the end
func (s *Session) PlayRound(ctx context.Context) (*game.RoundResult, error) {
	s.stats.Reset()

	opts := []game.EngineOption{
		game.WithEventBus(s.bus),
		game.WithLogger(s.logger),
		game.WithStats(s.stats),
		game.WithTurnLimit(s.cfg.TurnLimit),
	}
	if s.checkInvariants {
		opts = append(opts, game.WithInvariantChecks())
	}

	engine, err := game.NewEngine(s.cfg.Rules, s.players, opts...)
	if err != nil {
		return nil, err
	}

	d := s.cfg.Rules.NewDeck()
	d.Shuffle(s.src)
	engine.Deal(d)

	result, err := engine.PlayRound(ctx)
	if err != nil {
		return nil, fmt.Errorf("round %s: %w", engine.RoundID(), err)
	}

	s.summary.Add(statistics.RoundResult{
		Winner:  result.Winner.Name,
		Turns:   result.Turns,
		Players: result.Stats,
	})
	s.logger.Info("Round finished", "round", result.RoundID, "winner", result.Winner.Name, "turns", result.Turns)

	return result, nil
}

// Run plays rounds until the continuer says stop. A failed continue prompt
// ends the session; cancellation is returned as an error.
func (s *Session) Run(ctx context.Context) (*statistics.Summary, error) {
	for {
		if _, err := s.PlayRound(ctx); err != nil {
			return s.summary, err
		}

		if s.continuer == nil {
			return s.summary, nil
		}
		again, err := s.continuer.PromptAnother(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return s.summary, ctxErr
			}
			s.logger.Debug("Continue prompt failed, ending session", "error", err)
			return s.summary, nil
		}
		if !again {
			return s.summary, nil
		}
	}
}
