package game

import (
	"time"

	"github.com/lox/ratscrew/internal/deck"
	"github.com/lox/ratscrew/internal/statistics"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart     EventType = "round_start"
	EventTypeRoundEnd       EventType = "round_end"
	EventTypeCardPlayed     EventType = "card_played"
	EventTypeSeatSkipped    EventType = "seat_skipped"
	EventTypePileClaimed    EventType = "pile_claimed"
	EventTypeChallengeStart EventType = "challenge_start"
	EventTypePenaltyCard    EventType = "penalty_card"
	EventTypeChallengeEnd   EventType = "challenge_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// ClaimReason says how a pile changed hands
type ClaimReason string

const (
	ClaimSlap      ClaimReason = "slap"
	ClaimChallenge ClaimReason = "challenge"
	// ClaimSweep hands leftover pile cards to the round winner. It is not
	// counted in statistics.
	ClaimSweep ClaimReason = "sweep"
)

// SeatCount is a player's hand size at a point in time
type SeatCount struct {
	Name  string
	Cards int
}

// RoundStartEvent is published once the cards are dealt
type RoundStartEvent struct {
	RoundID   string
	Seats     []SeatCount
	StartSeat int
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundStartEvent creates a new round start event
func NewRoundStartEvent(roundID string, seats []SeatCount, startSeat int) RoundStartEvent {
	return RoundStartEvent{
		RoundID:   roundID,
		Seats:     seats,
		StartSeat: startSeat,
		timestamp: time.Now(),
	}
}

// CardPlayedEvent is published for every card turned onto the pile,
// penalty cards included
type CardPlayedEvent struct {
	Player    string
	Seat      int
	Card      deck.Card
	Penalty   bool
	PileSize  int
	timestamp time.Time
}

func (e CardPlayedEvent) EventType() EventType { return EventTypeCardPlayed }
func (e CardPlayedEvent) Timestamp() time.Time { return e.timestamp }

// NewCardPlayedEvent creates a new card played event
func NewCardPlayedEvent(player string, seat int, card deck.Card, penalty bool, pileSize int) CardPlayedEvent {
	return CardPlayedEvent{
		Player:    player,
		Seat:      seat,
		Card:      card,
		Penalty:   penalty,
		PileSize:  pileSize,
		timestamp: time.Now(),
	}
}

// SeatSkippedEvent is published when the cursor passes a seat with no cards
type SeatSkippedEvent struct {
	Player    string
	Seat      int
	timestamp time.Time
}

func (e SeatSkippedEvent) EventType() EventType { return EventTypeSeatSkipped }
func (e SeatSkippedEvent) Timestamp() time.Time { return e.timestamp }

// NewSeatSkippedEvent creates a new seat skipped event
func NewSeatSkippedEvent(player string, seat int) SeatSkippedEvent {
	return SeatSkippedEvent{Player: player, Seat: seat, timestamp: time.Now()}
}

// PileClaimedEvent is published when a pile moves into a hand
type PileClaimedEvent struct {
	Winner    string
	Seat      int
	PileSize  int
	Reason    ClaimReason
	timestamp time.Time
}

func (e PileClaimedEvent) EventType() EventType { return EventTypePileClaimed }
func (e PileClaimedEvent) Timestamp() time.Time { return e.timestamp }

// NewPileClaimedEvent creates a new pile claimed event
func NewPileClaimedEvent(winner string, seat, pileSize int, reason ClaimReason) PileClaimedEvent {
	return PileClaimedEvent{
		Winner:    winner,
		Seat:      seat,
		PileSize:  pileSize,
		Reason:    reason,
		timestamp: time.Now(),
	}
}

// ChallengeStartEvent is published when a responder begins penalty plays
type ChallengeStartEvent struct {
	Challenger string
	Responder  string
	Card       deck.Card
	Penalty    int
	timestamp  time.Time
}

func (e ChallengeStartEvent) EventType() EventType { return EventTypeChallengeStart }
func (e ChallengeStartEvent) Timestamp() time.Time { return e.timestamp }

// NewChallengeStartEvent creates a new challenge start event
func NewChallengeStartEvent(challenger, responder string, card deck.Card, penalty int) ChallengeStartEvent {
	return ChallengeStartEvent{
		Challenger: challenger,
		Responder:  responder,
		Card:       card,
		Penalty:    penalty,
		timestamp:  time.Now(),
	}
}

// PenaltyCardEvent is published for each card a responder plays
type PenaltyCardEvent struct {
	Challenger string
	Responder  string
	Card       deck.Card
	Remaining  int
	timestamp  time.Time
}

func (e PenaltyCardEvent) EventType() EventType { return EventTypePenaltyCard }
func (e PenaltyCardEvent) Timestamp() time.Time { return e.timestamp }

// NewPenaltyCardEvent creates a new penalty card event
func NewPenaltyCardEvent(challenger, responder string, card deck.Card, remaining int) PenaltyCardEvent {
	return PenaltyCardEvent{
		Challenger: challenger,
		Responder:  responder,
		Card:       card,
		Remaining:  remaining,
		timestamp:  time.Now(),
	}
}

// ChallengeEndEvent is published when a challenge leaves the active state
type ChallengeEndEvent struct {
	Challenger   string
	Responder    string
	PenaltyCards []deck.Card
	Outcome      ChallengeState
	timestamp    time.Time
}

func (e ChallengeEndEvent) EventType() EventType { return EventTypeChallengeEnd }
func (e ChallengeEndEvent) Timestamp() time.Time { return e.timestamp }

// NewChallengeEndEvent creates a new challenge end event
func NewChallengeEndEvent(challenger, responder string, penaltyCards []deck.Card, outcome ChallengeState) ChallengeEndEvent {
	cards := make([]deck.Card, len(penaltyCards))
	copy(cards, penaltyCards)
	return ChallengeEndEvent{
		Challenger:   challenger,
		Responder:    responder,
		PenaltyCards: cards,
		Outcome:      outcome,
		timestamp:    time.Now(),
	}
}

// RoundEndEvent is published when a round has a winner
type RoundEndEvent struct {
	RoundID   string
	Winner    string
	Seat      int
	Turns     int
	HandSizes []SeatCount
	Stats     []statistics.PlayerStats
	timestamp time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundEndEvent creates a new round end event
func NewRoundEndEvent(roundID, winner string, seat, turns int, handSizes []SeatCount, stats []statistics.PlayerStats) RoundEndEvent {
	return RoundEndEvent{
		RoundID:   roundID,
		Winner:    winner,
		Seat:      seat,
		Turns:     turns,
		HandSizes: handSizes,
		Stats:     stats,
		timestamp: time.Now(),
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Delivery is
// synchronous, on the publisher's goroutine, in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
