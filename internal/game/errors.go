package game

import "errors"

var (
	// ErrInvalidRules is returned when a rule set cannot drive a round
	ErrInvalidRules = errors.New("invalid rules")

	// ErrTooFewPlayers is returned when the table is below the rules' minimum
	ErrTooFewPlayers = errors.New("too few players")

	// ErrTooManyPlayers is returned when the table is above the rules' maximum
	ErrTooManyPlayers = errors.New("too many players")

	// ErrEmptyPlayerName is returned for a player without a name
	ErrEmptyPlayerName = errors.New("player name must not be empty")

	// ErrDuplicatePlayerName is returned when two seats share a name
	ErrDuplicatePlayerName = errors.New("duplicate player name")

	// ErrMissingAgent is returned for a player without a decision maker
	ErrMissingAgent = errors.New("player has no agent")

	// ErrNotDealt is returned when a round is played before cards are dealt
	ErrNotDealt = errors.New("no cards dealt")

	// ErrTurnLimit is returned when a round exceeds its configured turn limit
	ErrTurnLimit = errors.New("turn limit reached")
)
