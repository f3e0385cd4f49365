package game

import (
	"fmt"

	"github.com/lox/ratscrew/internal/deck"
)

// Player is a seat at the table: an identity, the agent making its
// decisions and the hand it holds for the current round.
type Player struct {
	Name  string
	Agent Agent
	hand  *Hand
}

// NewPlayer creates a player with an empty hand
func NewPlayer(name string, agent Agent) *Player {
	return &Player{
		Name:  name,
		Agent: agent,
		hand:  NewHand(),
	}
}

// IsComputer reports whether the player's decisions are automated
func (p *Player) IsComputer() bool {
	return p.Agent != nil && p.Agent.IsComputer()
}

// HandSize returns the number of cards the player holds
func (p *Player) HandSize() int {
	return p.hand.Len()
}

// Hand returns a copy of the player's cards, front first
func (p *Player) Hand() []deck.Card {
	return p.hand.Cards()
}

// PlayCard removes the front card of the hand. The engine skips empty seats
// before every play, so an empty hand here is an engine bug.
func (p *Player) PlayCard() deck.Card {
	card, ok := p.hand.Draw()
	if !ok {
		panic(fmt.Sprintf("player %s played from an empty hand", p.Name))
	}
	return card
}

func (p *Player) collect(cards []deck.Card) {
	p.hand.Append(cards...)
}

func (p *Player) resetHand(cards []deck.Card) {
	p.hand = NewHand(cards...)
}
