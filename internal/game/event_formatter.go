package game

import (
	"fmt"
	"strings"

	"github.com/lox/ratscrew/internal/deck"
	"github.com/lox/ratscrew/internal/statistics"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	LongCardNames bool   // "Q of Spades" instead of "Q♠"
	ShowSkips     bool   // Include seats passed over with no cards
	Perspective   string // Player name addressed as "You"

	// CardStyle decorates each rendered card, e.g. with terminal colours
	CardStyle func(card deck.Card, text string) string
}

// EventFormatter provides centralized formatting for all game events
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format renders any event as one or more lines of text. Events that should
// not be shown return an empty string.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case RoundStartEvent:
		return ef.FormatRoundStart(e)
	case CardPlayedEvent:
		return ef.FormatCardPlayed(e)
	case SeatSkippedEvent:
		if !ef.opts.ShowSkips {
			return ""
		}
		if ef.isPerspective(e.Player) {
			return "You have no cards and are skipped"
		}
		return fmt.Sprintf("%s has no cards and is skipped", e.Player)
	case PileClaimedEvent:
		return ef.FormatPileClaimed(e)
	case ChallengeStartEvent:
		return ef.FormatChallengeStart(e)
	case PenaltyCardEvent:
		return ""
	case ChallengeEndEvent:
		return ef.FormatChallengeEnd(e)
	case RoundEndEvent:
		return ef.FormatRoundEnd(e)
	default:
		return ""
	}
}

// FormatRoundStart formats a round start event
func (ef *EventFormatter) FormatRoundStart(event RoundStartEvent) string {
	parts := make([]string, 0, len(event.Seats))
	total := 0
	for _, seat := range event.Seats {
		parts = append(parts, fmt.Sprintf("%s %d", seat.Name, seat.Cards))
		total += seat.Cards
	}
	return fmt.Sprintf("Round %s • %d players • %d cards dealt (%s)",
		event.RoundID, len(event.Seats), total, strings.Join(parts, ", "))
}

// FormatCardPlayed formats a card played event
func (ef *EventFormatter) FormatCardPlayed(event CardPlayedEvent) string {
	verb := ef.verb(event.Player, "plays", "play")
	if event.Penalty {
		verb = ef.verb(event.Player, "pays", "pay")
	}
	return fmt.Sprintf("%s %s %s (pile: %d)", ef.name(event.Player), verb, ef.card(event.Card), event.PileSize)
}

// FormatPileClaimed formats a pile claimed event
func (ef *EventFormatter) FormatPileClaimed(event PileClaimedEvent) string {
	switch event.Reason {
	case ClaimSlap:
		return fmt.Sprintf("%s slapped the pile and %s %d cards!",
			ef.name(event.Winner), ef.verb(event.Winner, "takes", "take"), event.PileSize)
	case ClaimChallenge:
		return fmt.Sprintf("%s %s the challenge and %s %d cards",
			ef.name(event.Winner), ef.verb(event.Winner, "wins", "win"), ef.verb(event.Winner, "takes", "take"), event.PileSize)
	default:
		return fmt.Sprintf("%s %s the last %d cards",
			ef.name(event.Winner), ef.verb(event.Winner, "collects", "collect"), event.PileSize)
	}
}

// FormatChallengeStart formats a challenge start event
func (ef *EventFormatter) FormatChallengeStart(event ChallengeStartEvent) string {
	if event.Responder == "" {
		return fmt.Sprintf("%s played %s but nobody can answer", ef.name(event.Challenger), ef.card(event.Card))
	}
	return fmt.Sprintf("%s must play %d %s to answer %s",
		ef.name(event.Responder), event.Penalty, plural(event.Penalty, "card", "cards"), ef.card(event.Card))
}

// FormatChallengeEnd formats a challenge end event. Exhausted and slapped
// challenges are already described by the pile claim that follows them.
func (ef *EventFormatter) FormatChallengeEnd(event ChallengeEndEvent) string {
	if event.Outcome != ChallengeReversed || len(event.PenaltyCards) == 0 {
		return ""
	}
	last := event.PenaltyCards[len(event.PenaltyCards)-1]
	return fmt.Sprintf("%s %s the challenge around with %s",
		ef.name(event.Responder), ef.verb(event.Responder, "turns", "turn"), ef.card(last))
}

// FormatRoundEnd formats a round end event with the per-player statistics
func (ef *EventFormatter) FormatRoundEnd(event RoundEndEvent) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("=== Round %s Complete ===\n", event.RoundID))
	result.WriteString(fmt.Sprintf("Winner: %s after %d turns\n", event.Winner, event.Turns))
	for _, s := range event.Stats {
		result.WriteString(ef.FormatPlayerStats(s) + "\n")
	}

	return result.String()
}

// FormatPlayerStats formats one player's slap and pile-win statistics
func (ef *EventFormatter) FormatPlayerStats(s statistics.PlayerStats) string {
	return fmt.Sprintf("%s: %d slaps (%.1f%%), %d piles won (%.1f%%)",
		s.Name, s.Slaps, s.SlapPct, s.PileWins, s.PileWinPct)
}

// FormatCards formats a slice of cards separated by spaces
func (ef *EventFormatter) FormatCards(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		formatted = append(formatted, ef.card(card))
	}
	return strings.Join(formatted, " ")
}

func (ef *EventFormatter) card(c deck.Card) string {
	text := c.String()
	if ef.opts.LongCardNames {
		text = c.LongString()
	}
	if ef.opts.CardStyle != nil {
		return ef.opts.CardStyle(c, text)
	}
	return text
}

func (ef *EventFormatter) isPerspective(player string) bool {
	return ef.opts.Perspective != "" && player == ef.opts.Perspective
}

func (ef *EventFormatter) name(player string) string {
	if ef.isPerspective(player) {
		return "You"
	}
	return player
}

// verb picks the third person or second person form for player
func (ef *EventFormatter) verb(player, third, second string) string {
	if ef.isPerspective(player) {
		return second
	}
	return third
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
