package deck

// Shuffler permutes a sequence of length n through swap. *rand.Rand from
// math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Deck is an ordered set of cards consumed by shuffling and then dealing
type Deck struct {
	cards []Card
}

// New builds a deck holding every rank x suit pair exactly once, rank-major:
// all suits of the first rank, then all suits of the next rank, and so on.
func New(ranks []Rank, suits []Suit) *Deck {
	d := &Deck{cards: make([]Card, 0, len(ranks)*len(suits))}
	for _, rank := range ranks {
		for _, suit := range suits {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	return d
}

// NewStandard creates the standard 52-card deck
func NewStandard() *Deck {
	return New(AllRanks, AllSuits)
}

// FromCards creates a deck with the cards in exactly the given order
func FromCards(cards []Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle(s Shuffler) {
	s.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the cards in deck order
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Deal distributes every card round-robin: card i goes to player i mod n.
// The deck is empty afterwards. Returns nil when n < 1.
func (d *Deck) Deal(n int) [][]Card {
	if n < 1 {
		return nil
	}

	hands := make([][]Card, n)
	for i := range hands {
		hands[i] = make([]Card, 0, len(d.cards)/n+1)
	}
	for i, card := range d.cards {
		hands[i%n] = append(hands[i%n], card)
	}

	d.cards = d.cards[:0]
	return hands
}
