package game

import "github.com/lox/ratscrew/internal/deck"

// CanSlap reports whether the pile, most recent card last, may be slapped.
// Doubles: the last two cards share a rank. Sandwich: the last card and the
// third-from-last share a rank, whatever the middle card is.
func CanSlap(pile []deck.Card) bool {
	n := len(pile)
	if n >= 2 && pile[n-1].Rank == pile[n-2].Rank {
		return true
	}
	if n >= 3 && pile[n-1].Rank == pile[n-3].Rank {
		return true
	}
	return false
}

// Pile is the shared face-up stack. It only grows until it is taken whole.
type Pile struct {
	cards []deck.Card
}

// Push places a card on top of the pile
func (p *Pile) Push(card deck.Card) {
	p.cards = append(p.cards, card)
}

// Len returns the number of cards on the pile
func (p *Pile) Len() int {
	return len(p.cards)
}

// Cards returns a copy of the pile, oldest first
func (p *Pile) Cards() []deck.Card {
	out := make([]deck.Card, len(p.cards))
	copy(out, p.cards)
	return out
}

// CanSlap evaluates the slap rules against the current pile
func (p *Pile) CanSlap() bool {
	return CanSlap(p.cards)
}

// Take empties the pile and returns its cards, oldest first
func (p *Pile) Take() []deck.Card {
	cards := p.cards
	p.cards = nil
	return cards
}
