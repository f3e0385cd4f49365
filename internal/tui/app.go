package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/ratscrew/internal/game"
)

var (
	// ErrQuit is returned by prompts when the player closes the TUI
	ErrQuit = errors.New("player quit")

	// ErrSlapTimeout is returned when a slap prompt goes unanswered
	ErrSlapTimeout = errors.New("slap prompt timed out")
)

// sender is the part of tea.Program the prompter and subscriber need
type sender interface {
	Send(msg tea.Msg)
}

// App runs the full-screen front end. The bubbletea program owns the screen
// on its own goroutine; the session runs on another and talks to the model
// only through messages.
type App struct {
	model    *Model
	program  *tea.Program
	opts     []tea.ProgramOption
	prompter *Prompter
	events   *Subscriber
	logger   *log.Logger
}

// AppOption configures an App
type AppOption func(*appConfig)

type appConfig struct {
	clock       quartz.Clock
	slapTimeout time.Duration
	programOpts []tea.ProgramOption
}

// WithClock sets the clock used for slap timeouts
func WithClock(clock quartz.Clock) AppOption {
	return func(c *appConfig) { c.clock = clock }
}

// WithSlapTimeout declines slap prompts left unanswered for d. Zero waits forever.
func WithSlapTimeout(d time.Duration) AppOption {
	return func(c *appConfig) { c.slapTimeout = d }
}

// WithProgramOptions passes options through to tea.NewProgram
func WithProgramOptions(opts ...tea.ProgramOption) AppOption {
	return func(c *appConfig) { c.programOpts = append(c.programOpts, opts...) }
}

// NewApp creates the model, prompter and event subscriber
func NewApp(logger *log.Logger, opts ...AppOption) *App {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := &appConfig{
		clock:       quartz.NewReal(),
		programOpts: []tea.ProgramOption{tea.WithAltScreen()},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	a := &App{
		model:  NewModel(logger),
		opts:   cfg.programOpts,
		logger: logger.WithPrefix("tui"),
	}
	a.prompter = NewPrompter(a, cfg.clock, cfg.slapTimeout, logger)
	a.events = NewSubscriber(a)
	return a
}

// Send forwards a message to the running program
func (a *App) Send(msg tea.Msg) {
	if a.program == nil {
		a.logger.Debug("Dropping message sent before start", "msg", fmt.Sprintf("%T", msg))
		return
	}
	a.program.Send(msg)
}

// Prompter returns the prompter backed by this app
func (a *App) Prompter() *Prompter { return a.prompter }

// Subscriber returns the event subscriber feeding the game log
func (a *App) Subscriber() *Subscriber { return a.events }

// Log appends a line to the game log
func (a *App) Log(line string) { a.Send(logMsg{line: line}) }

// Run starts the program and calls play with a context that is cancelled
// when the player quits. It returns once both have finished.
func (a *App) Run(ctx context.Context, play func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.model.onQuit = cancel
	a.program = tea.NewProgram(a.model, append(a.opts, tea.WithContext(ctx))...)

	var playErr error
	var g errgroup.Group
	g.Go(func() error {
		defer cancel()
		_, err := a.program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		playErr = play(ctx)
		a.program.Send(sessionDoneMsg{err: ignoreQuit(playErr)})
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return ignoreQuit(playErr)
}

func ignoreQuit(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// Prompter asks questions through the TUI input pane. It satisfies
// game.Prompter and session.Continuer.
type Prompter struct {
	send        sender
	clock       quartz.Clock
	slapTimeout time.Duration
	logger      *log.Logger
}

// NewPrompter creates a prompter that sends prompts through s
func NewPrompter(s sender, clock quartz.Clock, slapTimeout time.Duration, logger *log.Logger) *Prompter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Prompter{
		send:        s,
		clock:       clock,
		slapTimeout: slapTimeout,
		logger:      logger.WithPrefix("tui"),
	}
}

func (p *Prompter) ask(ctx context.Context, kind promptKind, player, text string, timeout time.Duration) (string, error) {
	reply := make(chan answer, 1)

	var expired chan struct{}
	if timeout > 0 {
		expired = make(chan struct{})
		timer := p.clock.AfterFunc(timeout, func() { close(expired) })
		defer timer.Stop()
	}

	p.send.Send(promptMsg{kind: kind, text: text, reply: reply, player: player})

	select {
	case a := <-reply:
		if a.quit {
			return "", ErrQuit
		}
		return a.text, nil
	case <-expired:
		p.send.Send(clearPromptMsg{reply: reply, note: fmt.Sprintf("%s was too slow!", player)})
		return "", ErrSlapTimeout
	case <-ctx.Done():
		p.send.Send(clearPromptMsg{reply: reply})
		return "", ctx.Err()
	}
}

// PromptContinue waits for the player to press Enter
func (p *Prompter) PromptContinue(ctx context.Context, player string) error {
	_, err := p.ask(ctx, promptContinue, player, fmt.Sprintf("%s, press Enter to play your next card", player), 0)
	return err
}

// PromptSlap asks the player whether to slap. Only "slap" claims the pile.
func (p *Prompter) PromptSlap(ctx context.Context, player string) (bool, error) {
	text, err := p.ask(ctx, promptSlap, player, fmt.Sprintf("%s, type 'slap' to take the pile!", player), p.slapTimeout)
	if err != nil {
		return false, err
	}
	return game.IsSlapAnswer(text), nil
}

// PromptAnother asks whether to deal another round. "n", "no" and "q" stop.
func (p *Prompter) PromptAnother(ctx context.Context) (bool, error) {
	text, err := p.ask(ctx, promptAnother, "", "Play another round? [Y/n]", 0)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "n", "no", "q", "quit":
		return false, nil
	default:
		return true, nil
	}
}

// Subscriber forwards round events into the TUI
type Subscriber struct {
	send      sender
	formatter *game.EventFormatter
}

// NewSubscriber creates a subscriber sending formatted events through s
func NewSubscriber(s sender) *Subscriber {
	return &Subscriber{
		send:      s,
		formatter: game.NewEventFormatter(game.FormattingOptions{CardStyle: styleCard}),
	}
}

// OnEvent implements game.EventSubscriber
func (s *Subscriber) OnEvent(event game.GameEvent) {
	line := s.formatter.Format(event)
	if _, ok := event.(game.RoundStartEvent); ok {
		line = HeaderStyle.Render(line)
	}
	s.send.Send(eventMsg{event: event, line: line})
}
