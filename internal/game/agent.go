package game

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Agent represents any entity (human or computer) that makes decisions for a player
type Agent interface {
	// IsComputer reports whether this agent is automated. Humans are polled
	// for slaps before computers.
	IsComputer() bool

	// AwaitPlay blocks until the player is ready to turn over their next card
	AwaitPlay(ctx context.Context, player string)

	// DecideSlap returns true to claim a slappable pile
	DecideSlap(ctx context.Context, player string) bool
}

// Prompter is the interactive I/O a human agent delegates to
type Prompter interface {
	// PromptContinue blocks until the player acknowledges their turn
	PromptContinue(ctx context.Context, player string) error

	// PromptSlap asks the player whether to slap the pile
	PromptSlap(ctx context.Context, player string) (bool, error)
}

// HumanAgent represents a human player that interacts through a Prompter
type HumanAgent struct {
	prompter Prompter
	logger   *log.Logger
}

// NewHumanAgent creates a new human agent. A nil logger discards output.
func NewHumanAgent(prompter Prompter, logger *log.Logger) *HumanAgent {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &HumanAgent{
		prompter: prompter,
		logger:   logger.WithPrefix("human"),
	}
}

// IsComputer always returns false
func (h *HumanAgent) IsComputer() bool { return false }

// AwaitPlay prompts the human to continue. A failed prompt counts as acknowledged.
func (h *HumanAgent) AwaitPlay(ctx context.Context, player string) {
	if h.prompter == nil {
		return
	}
	if err := h.prompter.PromptContinue(ctx, player); err != nil {
		h.logger.Debug("Continue prompt failed, playing anyway", "player", player, "error", err)
	}
}

// DecideSlap prompts the human. Errors, timeouts and anything but a yes decline.
func (h *HumanAgent) DecideSlap(ctx context.Context, player string) bool {
	if h.prompter == nil {
		return false
	}
	slap, err := h.prompter.PromptSlap(ctx, player)
	if err != nil {
		h.logger.Debug("Slap prompt failed, declining", "player", player, "error", err)
		return false
	}
	return slap
}

// IsSlapAnswer reports whether a line of user input claims the pile
func IsSlapAnswer(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), "slap")
}

// BoolSource supplies the computer's coin flips. randutil.Source satisfies it.
type BoolSource interface {
	Bool() bool
}

// DecisionFunc adapts a function to BoolSource
type DecisionFunc func() bool

// Bool calls f
func (f DecisionFunc) Bool() bool { return f() }

// ComputerAgent decides slaps with an unbiased coin flip per call
type ComputerAgent struct {
	src BoolSource
}

// NewComputerAgent creates a computer agent drawing decisions from src
func NewComputerAgent(src BoolSource) *ComputerAgent {
	return &ComputerAgent{src: src}
}

// IsComputer always returns true
func (c *ComputerAgent) IsComputer() bool { return true }

// AwaitPlay returns immediately
func (c *ComputerAgent) AwaitPlay(context.Context, string) {}

// DecideSlap flips a coin
func (c *ComputerAgent) DecideSlap(context.Context, string) bool {
	return c.src.Bool()
}
