package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/ratscrew/internal/deck"
)

func TestCanSlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pile string
		want bool
	}{
		{"empty", "", false},
		{"single card", "7h", false},
		{"double", "7h 7c", true},
		{"different pair", "7h 8h", false},
		{"sandwich", "7h 2c 7d", true},
		{"sandwich of the same rank", "7h 7c 7d", true},
		{"double on top of longer pile", "2h 3c 9d 9s", true},
		{"sandwich on top of longer pile", "2h Kc 9d 3c 9s", true},
		{"match buried too deep", "9h 3c 4d 9s", false},
		{"face double", "Kh Ks", true},
		{"nothing", "2h 3c 4d 5s", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanSlap(cards(tt.pile)))
		})
	}
}

func TestCanSlapOnlyLooksAtTopThree(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(3, 5))
	all := deck.NewStandard().Cards()

	for i := 0; i < 500; i++ {
		n := 3 + rng.IntN(10)
		pile := make([]deck.Card, n)
		for j := range pile {
			pile[j] = all[rng.IntN(len(all))]
		}
		assert.Equal(t, CanSlap(pile[n-3:]), CanSlap(pile), "pile %v", pile)
	}
}

func TestPileTake(t *testing.T) {
	t.Parallel()
	var p Pile
	for _, c := range cards("2h 5c 5d") {
		p.Push(c)
	}

	assert.Equal(t, 3, p.Len())
	assert.True(t, p.CanSlap())

	taken := p.Take()
	assert.Equal(t, cards("2h 5c 5d"), taken)
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.CanSlap())
}

func TestHandOrder(t *testing.T) {
	t.Parallel()
	h := NewHand(cards("2h 3h")...)

	card, ok := h.Draw()
	assert.True(t, ok)
	assert.Equal(t, deck.NewCard(deck.Two, deck.Hearts), card)

	h.Append(cards("9c Kd")...)
	assert.Equal(t, cards("3h 9c Kd"), h.Cards())

	for !h.IsEmpty() {
		h.Draw()
	}
	_, ok = h.Draw()
	assert.False(t, ok)
}

func TestPlayCardFromEmptyHandPanics(t *testing.T) {
	t.Parallel()
	p := NewPlayer("Alice", neverSlap())
	assert.Panics(t, func() { p.PlayCard() })
}
