package game

import "github.com/lox/ratscrew/internal/deck"

// ChallengeState is the sub-state of a face-card challenge
type ChallengeState int

const (
	// ChallengeActive means the responder still owes penalty cards
	ChallengeActive ChallengeState = iota
	// ChallengeReversed means the responder answered with a face card and
	// now challenges the next seat with that card's own penalty
	ChallengeReversed
	// ChallengeExhausted means the responder ran out of penalty or cards
	// without a face card; the challenger takes the pile
	ChallengeExhausted
	// ChallengeSlapped means a slap on a penalty card claimed the pile first
	ChallengeSlapped
	// ChallengeAbandoned means the round ended while the challenge was pending
	ChallengeAbandoned
)

// String returns the string representation of the state
func (s ChallengeState) String() string {
	switch s {
	case ChallengeActive:
		return "active"
	case ChallengeReversed:
		return "reversed"
	case ChallengeExhausted:
		return "exhausted"
	case ChallengeSlapped:
		return "slapped"
	case ChallengeAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// challenge tracks one face card's penalty sequence. Penalties never stack:
// a reversal starts a new challenge with the new card's own count.
type challenge struct {
	challenger int
	responder  int // -1 until penalty play starts, or when the next seat is empty
	card       deck.Card
	penalty    int
	remaining  int
	played     []deck.Card
	state      ChallengeState
}

func newChallenge(challenger int, card deck.Card, penalty int) *challenge {
	return &challenge{
		challenger: challenger,
		responder:  -1,
		card:       card,
		penalty:    penalty,
		remaining:  penalty,
		state:      ChallengeActive,
	}
}

// record notes a penalty card played by the responder
func (c *challenge) record(card deck.Card) {
	c.played = append(c.played, card)
	c.remaining--
}

// ChallengeStatus is a read-only view of the pending challenge
type ChallengeStatus struct {
	Challenger int
	Responder  int
	Card       deck.Card
	Penalty    int
	Remaining  int
	Played     []deck.Card
	State      ChallengeState
}

func (c *challenge) status() ChallengeStatus {
	played := make([]deck.Card, len(c.played))
	copy(played, c.played)
	return ChallengeStatus{
		Challenger: c.challenger,
		Responder:  c.responder,
		Card:       c.card,
		Penalty:    c.penalty,
		Remaining:  c.remaining,
		Played:     played,
		State:      c.state,
	}
}
