package game

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/ratscrew/internal/deck"
	"github.com/lox/ratscrew/internal/gameid"
	"github.com/lox/ratscrew/internal/statistics"
)

// Engine runs a single round: it owns the turn cursor, the pile, every
// player's hand and the round statistics, and mutates them only through
// plays, slaps and challenge payouts.
type Engine struct {
	rules   Rules
	players []*Player
	pile    Pile
	turn    int
	pending *challenge

	stats    *statistics.RoundStats
	eventBus EventBus
	logger   *log.Logger
	roundID  string

	turns           int
	turnLimit       int
	checkInvariants bool
	totalCards      int
	dealt           bool
	done            bool
	winner          int
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithEventBus publishes round events to bus
func WithEventBus(bus EventBus) EngineOption {
	return func(e *Engine) { e.eventBus = bus }
}

// WithLogger sets the engine logger
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithStats records slaps and pile wins into stats instead of a private tracker
func WithStats(stats *statistics.RoundStats) EngineOption {
	return func(e *Engine) { e.stats = stats }
}

// WithRoundID sets the round identifier reported in events
func WithRoundID(id string) EngineOption {
	return func(e *Engine) { e.roundID = id }
}

// WithTurnLimit stops the round with ErrTurnLimit after n turns. Zero means no limit.
func WithTurnLimit(n int) EngineOption {
	return func(e *Engine) { e.turnLimit = n }
}

// WithInvariantChecks panics as soon as a card goes missing or is duplicated
func WithInvariantChecks() EngineOption {
	return func(e *Engine) { e.checkInvariants = true }
}

// WithStartSeat sets the seat that plays first
func WithStartSeat(seat int) EngineOption {
	return func(e *Engine) { e.turn = seat }
}

// NewEngine validates the table and creates an engine. No round state
// exists until cards are dealt.
func NewEngine(rules Rules, players []*Player, opts ...EngineOption) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if err := ValidatePlayers(rules, players); err != nil {
		return nil, err
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}

	e := &Engine{
		rules:   rules,
		players: players,
		winner:  -1,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.logger = e.logger.WithPrefix("engine")
	if e.eventBus == nil {
		e.eventBus = NewEventBus()
	}
	if e.stats == nil {
		e.stats = statistics.NewRoundStats(names...)
	}
	if e.roundID == "" {
		e.roundID = gameid.Generate()
	}
	if e.turn < 0 || e.turn >= len(players) {
		return nil, fmt.Errorf("start seat %d out of range for %d players", e.turn, len(players))
	}

	return e, nil
}

// ValidatePlayers checks seat count, names and agents against the rules
func ValidatePlayers(rules Rules, players []*Player) error {
	if len(players) < rules.MinSeats() {
		return fmt.Errorf("%w: need at least %d, got %d", ErrTooFewPlayers, rules.MinSeats(), len(players))
	}
	if len(players) > rules.MaxSeats() {
		return fmt.Errorf("%w: at most %d allowed, got %d", ErrTooManyPlayers, rules.MaxSeats(), len(players))
	}

	seen := make(map[string]bool, len(players))
	for i, p := range players {
		if p == nil || p.Name == "" {
			return fmt.Errorf("seat %d: %w", i, ErrEmptyPlayerName)
		}
		if seen[p.Name] {
			return fmt.Errorf("seat %d: %w: %q", i, ErrDuplicatePlayerName, p.Name)
		}
		if p.Agent == nil {
			return fmt.Errorf("seat %d (%s): %w", i, p.Name, ErrMissingAgent)
		}
		seen[p.Name] = true
	}
	return nil
}

// Deal gives every player their share of d, round-robin from seat 0
func (e *Engine) Deal(d *deck.Deck) {
	e.SetHands(d.Deal(len(e.players))...)
}

// SetHands replaces every hand with the given cards, front first, and clears
// the pile. Seats without an entry get an empty hand.
func (e *Engine) SetHands(hands ...[]deck.Card) {
	e.totalCards = 0
	for i, p := range e.players {
		var cards []deck.Card
		if i < len(hands) {
			cards = hands[i]
		}
		p.resetHand(cards)
		e.totalCards += len(cards)
	}
	e.pile = Pile{}
	e.pending = nil
	e.turns = 0
	e.done = false
	e.winner = -1
	e.dealt = true

	e.logger.Debug("Hands dealt", "round", e.roundID, "cards", e.totalCards)
	e.eventBus.Publish(NewRoundStartEvent(e.roundID, e.handSizes(), e.turn))
}

// RoundResult contains the results of a completed round
type RoundResult struct {
	RoundID   string
	Winner    *Player
	Seat      int
	Turns     int
	HandSizes []SeatCount
	Stats     []statistics.PlayerStats
}

// PlayRound runs Step until the round has a winner. Cancellation is only
// observed between steps.
func (e *Engine) PlayRound(ctx context.Context) (*RoundResult, error) {
	if !e.dealt {
		return nil, ErrNotDealt
	}

	e.logger.Debug("Starting round", "round", e.roundID, "players", len(e.players))
	for {
		done, err := e.Step(ctx)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	return e.Result(), nil
}

// Step advances the round by one turn: a skip, a play with its slap check and
// any challenge it starts, or the resolution of a pending reversed challenge.
// It returns true once the round is over.
func (e *Engine) Step(ctx context.Context) (bool, error) {
	if !e.dealt {
		return false, ErrNotDealt
	}
	if e.done {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if e.isOver() {
		e.finish()
		return true, nil
	}

	if e.turnLimit > 0 && e.turns >= e.turnLimit {
		return false, fmt.Errorf("round %s: %w after %d turns", e.roundID, ErrTurnLimit, e.turns)
	}

	if e.pending != nil {
		e.turns++
		e.resolveChallenge(ctx)
	} else {
		e.playTurn(ctx)
	}
	e.assertInvariants()

	if e.isOver() {
		e.finish()
		return true, nil
	}
	return false, nil
}

// playTurn handles AWAITING_PLAY for the seat under the cursor
func (e *Engine) playTurn(ctx context.Context) {
	seat := e.turn
	player := e.players[seat]

	if player.HandSize() == 0 {
		e.logger.Debug("Skipping empty seat", "player", player.Name)
		e.eventBus.Publish(NewSeatSkippedEvent(player.Name, seat))
		e.turn = e.nextSeat(seat)
		return
	}

	e.turns++
	player.Agent.AwaitPlay(ctx, player.Name)
	card := e.play(seat, false)

	if e.offerSlap(ctx) {
		return
	}

	if penalty, ok := e.rules.Penalty(card.Rank); ok {
		e.pending = newChallenge(seat, card, penalty)
		e.resolveChallenge(ctx)
		return
	}

	e.turn = e.nextSeat(seat)
}

// play moves the front card of seat's hand onto the pile
func (e *Engine) play(seat int, penalty bool) deck.Card {
	player := e.players[seat]
	card := player.PlayCard()
	e.pile.Push(card)

	e.logger.Debug("Card played", "player", player.Name, "card", card, "penalty", penalty, "pile", e.pile.Len())
	e.eventBus.Publish(NewCardPlayedEvent(player.Name, seat, card, penalty, e.pile.Len()))
	return card
}

// offerSlap runs CHECK_SLAP. Humans are asked in seat order, then computers;
// the first yes takes the pile and nobody after it is asked.
func (e *Engine) offerSlap(ctx context.Context) bool {
	if !e.pile.CanSlap() {
		return false
	}

	seat := e.pollSlap(ctx)
	if seat < 0 {
		e.logger.Debug("Slappable pile declined", "pile", e.pile.Len())
		return false
	}

	e.claim(seat, ClaimSlap)
	e.turn = seat
	if e.pending != nil {
		c := e.pending
		c.state = ChallengeSlapped
		e.endChallenge(c)
	}
	return true
}

func (e *Engine) pollSlap(ctx context.Context) int {
	for _, computer := range []bool{false, true} {
		for i, p := range e.players {
			if p.IsComputer() != computer {
				continue
			}
			if p.Agent.DecideSlap(ctx, p.Name) {
				return i
			}
		}
	}
	return -1
}

// resolveChallenge makes the responder play penalty cards until a slap, a
// face card or the end of the penalty (or their hand).
func (e *Engine) resolveChallenge(ctx context.Context) {
	c := e.pending
	c.responder = e.nextSeat(c.challenger)
	if e.players[c.responder].HandSize() == 0 {
		c.responder = -1
	}

	challenger := e.players[c.challenger]
	responderName := ""
	if c.responder >= 0 {
		responderName = e.players[c.responder].Name
	}
	e.logger.Debug("Challenge", "challenger", challenger.Name, "responder", responderName, "card", c.card, "penalty", c.penalty)
	e.eventBus.Publish(NewChallengeStartEvent(challenger.Name, responderName, c.card, c.penalty))

	for c.responder >= 0 && c.remaining > 0 && e.players[c.responder].HandSize() > 0 {
		card := e.play(c.responder, true)
		c.record(card)
		e.eventBus.Publish(NewPenaltyCardEvent(challenger.Name, responderName, card, c.remaining))

		if e.offerSlap(ctx) {
			return
		}

		if penalty, ok := e.rules.Penalty(card.Rank); ok {
			c.state = ChallengeReversed
			e.endChallenge(c)
			e.turn = c.responder
			e.pending = newChallenge(c.responder, card, penalty)
			return
		}
	}

	c.state = ChallengeExhausted
	e.claim(c.challenger, ClaimChallenge)
	e.endChallenge(c)
	e.turn = e.nextSeat(c.challenger)
}

func (e *Engine) endChallenge(c *challenge) {
	responder := ""
	if c.responder >= 0 {
		responder = e.players[c.responder].Name
	}
	e.logger.Debug("Challenge over", "challenger", e.players[c.challenger].Name, "outcome", c.state)
	e.eventBus.Publish(NewChallengeEndEvent(e.players[c.challenger].Name, responder, c.played, c.state))
	e.pending = nil
}

// claim moves the whole pile, in order, to the back of seat's hand
func (e *Engine) claim(seat int, reason ClaimReason) {
	player := e.players[seat]
	cards := e.pile.Take()
	player.collect(cards)

	switch reason {
	case ClaimSlap:
		e.stats.RecordSlap(player.Name)
	case ClaimChallenge:
		e.stats.RecordChallengeWin(player.Name)
	}

	e.logger.Debug("Pile claimed", "player", player.Name, "cards", len(cards), "reason", reason)
	e.eventBus.Publish(NewPileClaimedEvent(player.Name, seat, len(cards), reason))
}

// isOver reports ROUND_END: at most one seat with cards
func (e *Engine) isOver() bool {
	withCards := 0
	for _, p := range e.players {
		if p.HandSize() > 0 {
			withCards++
		}
	}
	return withCards <= 1
}

func (e *Engine) finish() {
	winner := 0
	for i, p := range e.players {
		if p.HandSize() > e.players[winner].HandSize() {
			winner = i
		}
	}
	if c := e.pending; c != nil {
		c.state = ChallengeAbandoned
		e.endChallenge(c)
	}
	if e.pile.Len() > 0 {
		e.claim(winner, ClaimSweep)
	}
	e.done = true
	e.winner = winner
	e.assertInvariants()

	result := e.Result()
	e.logger.Info("Round complete", "round", e.roundID, "winner", result.Winner.Name, "turns", e.turns)
	e.eventBus.Publish(NewRoundEndEvent(e.roundID, result.Winner.Name, winner, e.turns, result.HandSizes, result.Stats))
}

func (e *Engine) nextSeat(seat int) int {
	return (seat + 1) % len(e.players)
}

func (e *Engine) handSizes() []SeatCount {
	sizes := make([]SeatCount, len(e.players))
	for i, p := range e.players {
		sizes[i] = SeatCount{Name: p.Name, Cards: p.HandSize()}
	}
	return sizes
}

func (e *Engine) assertInvariants() {
	if !e.checkInvariants {
		return
	}
	total := e.pile.Len()
	for _, p := range e.players {
		total += p.HandSize()
	}
	if total != e.totalCards {
		panic(fmt.Sprintf("card conservation violated in round %s: hands+pile=%d, dealt=%d", e.roundID, total, e.totalCards))
	}
}

// Result returns the round outcome, or nil while the round is running
func (e *Engine) Result() *RoundResult {
	if !e.done {
		return nil
	}
	return &RoundResult{
		RoundID:   e.roundID,
		Winner:    e.players[e.winner],
		Seat:      e.winner,
		Turns:     e.turns,
		HandSizes: e.handSizes(),
		Stats:     e.stats.Snapshot(),
	}
}

// RoundID returns the round identifier
func (e *Engine) RoundID() string { return e.roundID }

// Turn returns the seat under the cursor
func (e *Engine) Turn() int { return e.turn }

// Turns returns the number of turns taken so far
func (e *Engine) Turns() int { return e.turns }

// Players returns the seated players in seat order
func (e *Engine) Players() []*Player {
	return append([]*Player(nil), e.players...)
}

// Pile returns a copy of the pile, oldest first
func (e *Engine) Pile() []deck.Card { return e.pile.Cards() }

// Stats returns the round statistics tracker
func (e *Engine) Stats() *statistics.RoundStats { return e.stats }

// PendingChallenge returns the challenge waiting to be resolved next step
func (e *Engine) PendingChallenge() (ChallengeStatus, bool) {
	if e.pending == nil {
		return ChallengeStatus{}, false
	}
	return e.pending.status(), true
}

// IsOver reports whether the round has finished
func (e *Engine) IsOver() bool { return e.done }
