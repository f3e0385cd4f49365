package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lox/ratscrew/internal/deck"
)

// Rules is the immutable rule set shared by deck construction and the engine.
// Construct it with DefaultRules or NewRules; the zero value is not usable.
type Rules struct {
	ranks     []deck.Rank
	suits     []deck.Suit
	penalties map[deck.Rank]int
	minSeats  int
	maxSeats  int
}

// RuleOption customises a rule set
type RuleOption func(*Rules)

// WithRanks replaces the ranks the deck is built from
func WithRanks(ranks ...deck.Rank) RuleOption {
	return func(r *Rules) { r.ranks = append([]deck.Rank(nil), ranks...) }
}

// WithSuits replaces the suits the deck is built from
func WithSuits(suits ...deck.Suit) RuleOption {
	return func(r *Rules) { r.suits = append([]deck.Suit(nil), suits...) }
}

// WithPenalties replaces the face-card penalty table
func WithPenalties(penalties map[deck.Rank]int) RuleOption {
	return func(r *Rules) {
		r.penalties = make(map[deck.Rank]int, len(penalties))
		for rank, n := range penalties {
			r.penalties[rank] = n
		}
	}
}

// WithSeatLimits sets the allowed number of seats at a table
func WithSeatLimits(min, max int) RuleOption {
	return func(r *Rules) {
		r.minSeats = min
		r.maxSeats = max
	}
}

// DefaultRules returns the standard game: 52 cards, J/Q/K/A penalties of
// 1/2/3/4 and 2-4 seats.
func DefaultRules() Rules {
	return Rules{
		ranks: append([]deck.Rank(nil), deck.AllRanks...),
		suits: append([]deck.Suit(nil), deck.AllSuits...),
		penalties: map[deck.Rank]int{
			deck.Jack:  1,
			deck.Queen: 2,
			deck.King:  3,
			deck.Ace:   4,
		},
		minSeats: 2,
		maxSeats: 4,
	}
}

// NewRules applies opts on top of DefaultRules and validates the result
func NewRules(opts ...RuleOption) (Rules, error) {
	r := DefaultRules()
	for _, opt := range opts {
		opt(&r)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// Validate reports whether the rule set can drive a round
func (r Rules) Validate() error {
	if len(r.ranks) == 0 {
		return fmt.Errorf("%w: no ranks", ErrInvalidRules)
	}
	if len(r.suits) == 0 {
		return fmt.Errorf("%w: no suits", ErrInvalidRules)
	}

	seenRanks := make(map[deck.Rank]bool, len(r.ranks))
	for _, rank := range r.ranks {
		if rank < deck.Two || rank > deck.Ace {
			return fmt.Errorf("%w: rank %d out of range", ErrInvalidRules, int(rank))
		}
		if seenRanks[rank] {
			return fmt.Errorf("%w: duplicate rank %s", ErrInvalidRules, rank)
		}
		seenRanks[rank] = true
	}

	seenSuits := make(map[deck.Suit]bool, len(r.suits))
	for _, suit := range r.suits {
		if suit < deck.Hearts || suit > deck.Spades {
			return fmt.Errorf("%w: suit %d out of range", ErrInvalidRules, int(suit))
		}
		if seenSuits[suit] {
			return fmt.Errorf("%w: duplicate suit %s", ErrInvalidRules, suit.Name())
		}
		seenSuits[suit] = true
	}

	for rank, n := range r.penalties {
		if !seenRanks[rank] {
			return fmt.Errorf("%w: penalty rank %s is not in the deck", ErrInvalidRules, rank)
		}
		if n < 1 {
			return fmt.Errorf("%w: penalty for %s must be positive, got %d", ErrInvalidRules, rank, n)
		}
	}

	if r.minSeats < 2 {
		return fmt.Errorf("%w: minimum seats must be at least 2, got %d", ErrInvalidRules, r.minSeats)
	}
	if r.maxSeats < r.minSeats {
		return fmt.Errorf("%w: maximum seats %d below minimum %d", ErrInvalidRules, r.maxSeats, r.minSeats)
	}

	return nil
}

// Ranks returns the ranks in deck-building order
func (r Rules) Ranks() []deck.Rank {
	return append([]deck.Rank(nil), r.ranks...)
}

// Suits returns the suits in deck-building order
func (r Rules) Suits() []deck.Suit {
	return append([]deck.Suit(nil), r.suits...)
}

// Penalty returns the number of cards a face rank forces the next seat to play
func (r Rules) Penalty(rank deck.Rank) (int, bool) {
	n, ok := r.penalties[rank]
	return n, ok
}

// IsFace reports whether rank starts a challenge
func (r Rules) IsFace(rank deck.Rank) bool {
	_, ok := r.penalties[rank]
	return ok
}

// FaceRanks returns the challenge ranks in ascending order
func (r Rules) FaceRanks() []deck.Rank {
	ranks := make([]deck.Rank, 0, len(r.penalties))
	for rank := range r.penalties {
		ranks = append(ranks, rank)
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })
	return ranks
}

// MinSeats returns the smallest table the rules allow
func (r Rules) MinSeats() int { return r.minSeats }

// MaxSeats returns the largest table the rules allow
func (r Rules) MaxSeats() int { return r.maxSeats }

// DeckSize returns the number of cards NewDeck produces
func (r Rules) DeckSize() int {
	return len(r.ranks) * len(r.suits)
}

// NewDeck builds an unshuffled deck for these rules
func (r Rules) NewDeck() *deck.Deck {
	return deck.New(r.ranks, r.suits)
}

// PenaltyTable lists the penalties in rank order, e.g. "J=1 Q=2 K=3 A=4"
func (r Rules) PenaltyTable() string {
	parts := make([]string, 0, len(r.penalties))
	for _, rank := range r.FaceRanks() {
		parts = append(parts, fmt.Sprintf("%s=%d", rank, r.penalties[rank]))
	}
	return strings.Join(parts, " ")
}
