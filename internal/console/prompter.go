package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/ratscrew/internal/game"
)

// ErrSlapTimeout is returned when a slap prompt goes unanswered
var ErrSlapTimeout = errors.New("slap prompt timed out")

// Prompter asks human players questions over a line-based terminal. It
// satisfies game.Prompter and session.Continuer.
type Prompter struct {
	out         io.Writer
	clock       quartz.Clock
	slapTimeout time.Duration
	logger      *log.Logger

	lines chan string
	mu    sync.Mutex
	stale bool
}

// PrompterOption configures a Prompter
type PrompterOption func(*Prompter)

// WithClock sets the clock used for slap timeouts
func WithClock(clock quartz.Clock) PrompterOption {
	return func(p *Prompter) { p.clock = clock }
}

// WithSlapTimeout declines slap prompts left unanswered for d. Zero waits forever.
func WithSlapTimeout(d time.Duration) PrompterOption {
	return func(p *Prompter) { p.slapTimeout = d }
}

// WithPrompterLogger sets the prompter logger
func WithPrompterLogger(logger *log.Logger) PrompterOption {
	return func(p *Prompter) { p.logger = logger }
}

// NewPrompter starts reading lines from in and writes prompts to out
func NewPrompter(in io.Reader, out io.Writer, opts ...PrompterOption) *Prompter {
	p := &Prompter{
		out:   out,
		clock: quartz.NewReal(),
		lines: make(chan string, 16),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}
	p.logger = p.logger.WithPrefix("console")

	go p.readLines(in)
	return p
}

func (p *Prompter) readLines(in io.Reader) {
	defer close(p.lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		p.logger.Debug("Input closed", "error", err)
	}
}

// readLine waits for the next line. A nil timeout channel waits forever.
func (p *Prompter) readLine(ctx context.Context, timeout <-chan struct{}) (string, error) {
	select {
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-timeout:
		p.mu.Lock()
		p.stale = true
		p.mu.Unlock()
		return "", ErrSlapTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// drainStale discards answers typed after a prompt had already timed out
func (p *Prompter) drainStale() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.stale {
		return
	}
	p.stale = false
	for {
		select {
		case line, ok := <-p.lines:
			if !ok {
				return
			}
			p.logger.Debug("Discarding late answer", "input", line)
		default:
			return
		}
	}
}

func (p *Prompter) prompt(format string, args ...any) {
	p.drainStale()
	fmt.Fprintf(p.out, format, args...)
}

// PromptContinue waits for the player to press Enter before their card is turned
func (p *Prompter) PromptContinue(ctx context.Context, player string) error {
	p.prompt("%s, press Enter to play your next card...", player)
	_, err := p.readLine(ctx, nil)
	return err
}

// PromptSlap asks the player whether to slap. Only "slap" claims the pile.
func (p *Prompter) PromptSlap(ctx context.Context, player string) (bool, error) {
	var timeout chan struct{}
	if p.slapTimeout > 0 {
		timeout = make(chan struct{})
		timer := p.clock.AfterFunc(p.slapTimeout, func() { close(timeout) })
		defer timer.Stop()
	}

	p.prompt("%s, type 'slap' to take the pile, or press Enter to skip: ", player)
	line, err := p.readLine(ctx, timeout)
	if errors.Is(err, ErrSlapTimeout) {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, "Too slow!")
	}
	if err != nil {
		return false, err
	}
	return game.IsSlapAnswer(line), nil
}

// PromptAnother asks whether to deal another round. "n", "no" and "q" stop.
func (p *Prompter) PromptAnother(ctx context.Context) (bool, error) {
	p.prompt("Play another round? [Y/n] ")
	line, err := p.readLine(ctx, nil)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no", "q", "quit":
		return false, nil
	default:
		return true, nil
	}
}

// PromptPlayers asks how many humans are playing and their names. Invalid
// counts are asked again; blank names become "Player N".
func (p *Prompter) PromptPlayers(ctx context.Context, maxHumans int) ([]string, error) {
	var count int
	for {
		p.prompt("Enter the number of human players (1-%d): ", maxHumans)
		line, err := p.readLine(ctx, nil)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= maxHumans {
			count = n
			break
		}
		fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", maxHumans)
	}

	names := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		p.prompt("Enter name for Player %d: ", i)
		line, err := p.readLine(ctx, nil)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(line)
		if name == "" {
			name = fmt.Sprintf("Player %d", i)
		}
		names = append(names, name)
	}
	return names, nil
}
