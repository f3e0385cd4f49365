package game

import "github.com/lox/ratscrew/internal/deck"

// Hand is a player's face-down stack. Cards are played from the front and
// won cards go to the back.
type Hand struct {
	cards []deck.Card
}

// NewHand creates a hand holding cards, front first
func NewHand(cards ...deck.Card) *Hand {
	h := &Hand{cards: make([]deck.Card, len(cards))}
	copy(h.cards, cards)
	return h
}

// Len returns the number of cards held
func (h *Hand) Len() int {
	return len(h.cards)
}

// IsEmpty returns true when the hand holds no cards
func (h *Hand) IsEmpty() bool {
	return len(h.cards) == 0
}

// Draw removes and returns the front card
func (h *Hand) Draw() (deck.Card, bool) {
	if len(h.cards) == 0 {
		return deck.Card{}, false
	}
	card := h.cards[0]
	h.cards = h.cards[1:]
	return card, true
}

// Append adds cards to the back in the given order
func (h *Hand) Append(cards ...deck.Card) {
	h.cards = append(h.cards, cards...)
}

// Cards returns a copy of the hand, front first
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}
