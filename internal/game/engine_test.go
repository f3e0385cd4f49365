package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/ratscrew/internal/deck"
	"github.com/lox/ratscrew/internal/randutil"
	"github.com/lox/ratscrew/internal/statistics"
)

func TestNewEngineValidatesTable(t *testing.T) {
	t.Parallel()

	player := func(name string) *Player { return NewPlayer(name, neverSlap()) }

	tests := []struct {
		name    string
		players []*Player
		opts    []EngineOption
		wantErr error
	}{
		{"one player", []*Player{player("A")}, nil, ErrTooFewPlayers},
		{"five players", []*Player{player("A"), player("B"), player("C"), player("D"), player("E")}, nil, ErrTooManyPlayers},
		{"empty name", []*Player{player("A"), player("")}, nil, ErrEmptyPlayerName},
		{"duplicate name", []*Player{player("A"), player("A")}, nil, ErrDuplicatePlayerName},
		{"missing agent", []*Player{player("A"), NewPlayer("B", nil)}, nil, ErrMissingAgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(DefaultRules(), tt.players, tt.opts...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("start seat out of range", func(t *testing.T) {
		_, err := NewEngine(DefaultRules(), []*Player{player("A"), player("B")}, WithStartSeat(2))
		require.Error(t, err)
	})

	t.Run("invalid rules", func(t *testing.T) {
		_, err := NewEngine(Rules{}, []*Player{player("A"), player("B")})
		require.ErrorIs(t, err, ErrInvalidRules)
	})
}

func TestPlayRoundBeforeDeal(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(t)

	_, err := engine.PlayRound(context.Background())
	require.ErrorIs(t, err, ErrNotDealt)

	_, err = engine.Step(context.Background())
	require.ErrorIs(t, err, ErrNotDealt)
}

func TestPlainCardPassesTurn(t *testing.T) {
	t.Parallel()
	engine, events := newTestEngine(t, withHands("2h 9c", "5d 8s"))

	assert.False(t, step(t, engine))
	assert.Equal(t, 1, engine.Turn())
	assert.Equal(t, cards("2h"), engine.Pile())
	assert.Equal(t, []int{1, 2}, handSizes(engine))
	assert.Equal(t, 1, engine.Turns())

	played := events.last(EventTypeCardPlayed).(CardPlayedEvent)
	assert.Equal(t, "Alice", played.Player)
	assert.False(t, played.Penalty)
	assert.Equal(t, 1, played.PileSize)
}

func TestKingReversedByQueen(t *testing.T) {
	t.Parallel()
	engine, events := newTestEngine(t, withHands("Kh 5c", "2c 3d Qs 9h"))

	assert.False(t, step(t, engine))

	// Bob paid two cards then answered with a queen: the king's challenge
	// is over and a fresh queen challenge waits for the next step
	assert.Equal(t, 1, engine.Turn())
	assert.Equal(t, cards("Kh 2c 3d Qs"), engine.Pile())
	assert.Equal(t, cards("5c"), engine.players[0].Hand())
	assert.Equal(t, cards("9h"), engine.players[1].Hand())

	pending, ok := engine.PendingChallenge()
	require.True(t, ok)
	assert.Equal(t, 1, pending.Challenger)
	assert.Equal(t, -1, pending.Responder)
	assert.Equal(t, deck.NewCard(deck.Queen, deck.Spades), pending.Card)
	assert.Equal(t, 2, pending.Penalty)
	assert.Equal(t, 2, pending.Remaining)

	end := events.last(EventTypeChallengeEnd).(ChallengeEndEvent)
	assert.Equal(t, ChallengeReversed, end.Outcome)
	assert.Equal(t, "Alice", end.Challenger)
	assert.Equal(t, "Bob", end.Responder)
	assert.Equal(t, cards("2c 3d Qs"), end.PenaltyCards)
	assert.Empty(t, events.ofType(EventTypePileClaimed))

	// Alice owes two but holds one, so Bob's queen takes the pile and the round
	assert.True(t, step(t, engine))
	result := engine.Result()
	require.NotNil(t, result)
	assert.Equal(t, "Bob", result.Winner.Name)
	assert.Equal(t, cards("9h Kh 2c 3d Qs 5c"), engine.players[1].Hand())
	assert.Equal(t, 1, engine.Stats().PileWins("Bob"))
	assert.Equal(t, 0, engine.Stats().Slaps("Bob"))

	end = events.last(EventTypeChallengeEnd).(ChallengeEndEvent)
	assert.Equal(t, ChallengeExhausted, end.Outcome)
	assert.Equal(t, cards("5c"), end.PenaltyCards)
}

func TestUnansweredJackWinsPile(t *testing.T) {
	t.Parallel()
	engine, events := newTestEngine(t, withHands("Jh 4c", "7d 8s"))

	assert.False(t, step(t, engine))

	assert.Empty(t, engine.Pile())
	assert.Equal(t, cards("4c Jh 7d"), engine.players[0].Hand())
	assert.Equal(t, cards("8s"), engine.players[1].Hand())
	assert.Equal(t, 1, engine.Turn())
	assert.Equal(t, 1, engine.Stats().PileWins("Alice"))
	assert.Equal(t, 0, engine.Stats().Slaps("Alice"))

	_, pending := engine.PendingChallenge()
	assert.False(t, pending)

	claim := events.last(EventTypePileClaimed).(PileClaimedEvent)
	assert.Equal(t, "Alice", claim.Winner)
	assert.Equal(t, ClaimChallenge, claim.Reason)
	assert.Equal(t, 2, claim.PileSize)

	start := events.last(EventTypeChallengeStart).(ChallengeStartEvent)
	assert.Equal(t, "Bob", start.Responder)
	assert.Equal(t, 1, start.Penalty)
	assert.Len(t, events.ofType(EventTypePenaltyCard), 1)
}

func TestSlapOnPenaltyCardEndsChallenge(t *testing.T) {
	t.Parallel()
	engine, events := newTestEngine(t,
		withHands("Kc 9h", "4d 4s 6c"),
		withAgents(alwaysSlap(), neverSlap()),
		withEngineOptions(WithStartSeat(1)),
	)

	// Bob leads 4d, Alice's king makes Bob pay 4s: a sandwich
	assert.False(t, step(t, engine))
	assert.False(t, step(t, engine))

	assert.Empty(t, engine.Pile())
	assert.Equal(t, cards("9h 4d Kc 4s"), engine.players[0].Hand())
	assert.Equal(t, cards("6c"), engine.players[1].Hand())
	assert.Equal(t, 0, engine.Turn())

	_, pending := engine.PendingChallenge()
	assert.False(t, pending)

	assert.Equal(t, 1, engine.Stats().Slaps("Alice"))
	assert.Equal(t, 1, engine.Stats().PileWins("Alice"))
	assert.Equal(t, 0, engine.Stats().PileWins("Bob"))

	claims := events.ofType(EventTypePileClaimed)
	require.Len(t, claims, 1)
	assert.Equal(t, ClaimSlap, claims[0].(PileClaimedEvent).Reason)

	end := events.last(EventTypeChallengeEnd).(ChallengeEndEvent)
	assert.Equal(t, ChallengeSlapped, end.Outcome)
}

func TestSlapOnFaceCardSkipsChallenge(t *testing.T) {
	t.Parallel()
	engine, events := newTestEngine(t,
		withHands("Qh 2c", "Qs 5d"),
		withAgents(neverSlap(), alwaysSlap()),
		withEngineOptions(WithStartSeat(1)),
	)

	// Bob's queen is answered by Alice's queen: a reversal that is also a double
	assert.False(t, step(t, engine))

	assert.Equal(t, cards("5d Qs Qh"), engine.players[1].Hand())
	assert.Equal(t, 1, engine.Turn())
	_, pending := engine.PendingChallenge()
	assert.False(t, pending)
	assert.Equal(t, ChallengeSlapped, events.last(EventTypeChallengeEnd).(ChallengeEndEvent).Outcome)
}

func TestSlapPollOrder(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, slapper string) ([]string, *Engine) {
		var polls []string
		agents := []Agent{
			&scriptedAgent{computer: true, name: "c0", polls: &polls, slap: slapper == "c0"},
			&scriptedAgent{computer: false, name: "h1", polls: &polls, slap: slapper == "h1"},
			&scriptedAgent{computer: true, name: "c2", polls: &polls, slap: slapper == "c2"},
			&scriptedAgent{computer: false, name: "h3", polls: &polls, slap: slapper == "h3"},
		}
		engine, _ := newTestEngine(t,
			withPlayers("A", "B", "C", "D"),
			withAgents(agents...),
			withHands("5h 2c", "5d 3c", "8c", "9c"),
		)
		step(t, engine)
		step(t, engine)
		return polls, engine
	}

	t.Run("everyone declines", func(t *testing.T) {
		polls, engine := run(t, "")
		assert.Equal(t, []string{"h1", "h3", "c0", "c2"}, polls)
		assert.Equal(t, cards("5h 5d"), engine.Pile())
		assert.Equal(t, 2, engine.Turn())
	})

	t.Run("second human slaps", func(t *testing.T) {
		polls, engine := run(t, "h3")
		assert.Equal(t, []string{"h1", "h3"}, polls)
		assert.Equal(t, cards("9c 5h 5d"), engine.players[3].Hand())
		assert.Equal(t, 3, engine.Turn())
	})

	t.Run("first computer slaps", func(t *testing.T) {
		polls, engine := run(t, "c0")
		assert.Equal(t, []string{"h1", "h3", "c0"}, polls)
		assert.Equal(t, cards("2c 5h 5d"), engine.players[0].Hand())
		assert.Equal(t, 0, engine.Turn())
	})
}

func TestHumanAwaitsEachPlay(t *testing.T) {
	t.Parallel()
	human := &scriptedAgent{}
	engine, _ := newTestEngine(t, withHands("2h 3h", "4c 5c"), withAgents(human))

	step(t, engine)
	step(t, engine)
	step(t, engine)

	assert.Equal(t, 2, human.plays)
}

func TestEmptySeatIsSkipped(t *testing.T) {
	t.Parallel()
	engine, events := newTestEngine(t,
		withPlayers("A", "B", "C"),
		withHands("2h 3h", "", "4c 5c"),
	)

	step(t, engine)
	assert.Equal(t, 1, engine.Turn())

	step(t, engine)
	assert.Equal(t, 2, engine.Turn())
	assert.Equal(t, 1, engine.Turns())

	skipped := events.ofType(EventTypeSeatSkipped)
	require.Len(t, skipped, 1)
	assert.Equal(t, "B", skipped[0].(SeatSkippedEvent).Player)
}

func TestReversalWithLastCardEndsRound(t *testing.T) {
	t.Parallel()
	engine, events := newTestEngine(t, withHands("Kh", "Qs 7c"))

	assert.True(t, step(t, engine))
	assert.Equal(t, cards("7c Kh Qs"), engine.players[1].Hand())
	_, pending := engine.PendingChallenge()
	assert.False(t, pending)

	end := events.last(EventTypeChallengeEnd).(ChallengeEndEvent)
	assert.Equal(t, "Bob", end.Challenger)
	assert.Equal(t, ChallengeAbandoned, end.Outcome)

	round := events.last(EventTypeRoundEnd).(RoundEndEvent)
	assert.Equal(t, "Bob", round.Winner)
	assert.Equal(t, 1, round.Seat)
}

func TestReversalByLastCardLosesRound(t *testing.T) {
	t.Parallel()
	engine, events := newTestEngine(t, withHands("Js 5h 6h", "Qd"))

	assert.True(t, step(t, engine))

	result := engine.Result()
	require.NotNil(t, result)
	assert.Equal(t, "Alice", result.Winner.Name)
	assert.Equal(t, 1, result.Turns)
	assert.Equal(t, cards("5h 6h Js Qd"), engine.players[0].Hand())
	assert.Empty(t, engine.players[1].Hand())

	// Alice never pays the reversed challenge
	for _, e := range events.ofType(EventTypeCardPlayed) {
		assert.False(t, e.(CardPlayedEvent).Penalty && e.(CardPlayedEvent).Player == "Alice")
	}
	assert.Equal(t, ChallengeAbandoned, events.last(EventTypeChallengeEnd).(ChallengeEndEvent).Outcome)
}

func TestChallengeAgainstEmptySeatIsExhausted(t *testing.T) {
	t.Parallel()
	engine, events := newTestEngine(t,
		withPlayers("A", "B", "C"),
		withHands("Jh 2c", "", "3d 4d"),
	)

	assert.False(t, step(t, engine))

	assert.Equal(t, cards("2c Jh"), engine.players[0].Hand())
	assert.Equal(t, cards("3d 4d"), engine.players[2].Hand())
	assert.Equal(t, 1, engine.Turn())
	assert.Equal(t, 1, engine.Stats().PileWins("A"))

	start := events.last(EventTypeChallengeStart).(ChallengeStartEvent)
	assert.Empty(t, start.Responder)
	assert.Equal(t, ChallengeExhausted, events.last(EventTypeChallengeEnd).(ChallengeEndEvent).Outcome)
}

func TestWinnerCollectsLeftoverPile(t *testing.T) {
	t.Parallel()
	engine, events := newTestEngine(t, withHands("2h", "5c 6c"))

	assert.True(t, step(t, engine))

	result := engine.Result()
	require.NotNil(t, result)
	assert.Equal(t, "Bob", result.Winner.Name)
	assert.Equal(t, cards("5c 6c 2h"), engine.players[1].Hand())
	assert.Empty(t, engine.Pile())

	claim := events.last(EventTypePileClaimed).(PileClaimedEvent)
	assert.Equal(t, ClaimSweep, claim.Reason)
	assert.Equal(t, 0, engine.Stats().PileWins("Bob"))
}

func TestStepAfterRoundEnd(t *testing.T) {
	t.Parallel()
	engine, events := newTestEngine(t, withHands("2h", "5c 6c"))

	assert.True(t, step(t, engine))
	assert.True(t, step(t, engine))
	assert.Len(t, events.ofType(EventTypeRoundEnd), 1)
}

func TestStepHonoursCancellation(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(t, withHands("2h 3h", "4c 5c"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Step(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, engine.Turns())

	_, err = engine.PlayRound(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTurnLimit(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(t,
		withHands("2h 3h 4h 5h", "6c 7c 8c 9c"),
		withEngineOptions(WithTurnLimit(3)),
	)

	_, err := engine.PlayRound(context.Background())
	require.ErrorIs(t, err, ErrTurnLimit)
	assert.Equal(t, 3, engine.Turns())
}

func TestInvariantChecksPanicOnLostCard(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(t, withHands("2h 3h", "4c 5c"))

	engine.players[0].collect(cards("Ah"))

	assert.Panics(t, func() {
		_, _ = engine.Step(context.Background())
	})
}

func TestSharedStatsTracker(t *testing.T) {
	t.Parallel()
	stats := statistics.NewRoundStats("Alice", "Bob")
	engine, _ := newTestEngine(t, withHands("Jh 4c", "7d 8s"), withEngineOptions(WithStats(stats)))

	step(t, engine)

	assert.Same(t, stats, engine.Stats())
	assert.Equal(t, 1, stats.PileWins("Alice"))
}

func TestComputerRoundsConserveCards(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 20; seed++ {
		src := randutil.NewSource(seed)
		players := []*Player{
			NewPlayer("North", NewComputerAgent(src)),
			NewPlayer("East", NewComputerAgent(src)),
			NewPlayer("South", NewComputerAgent(src)),
			NewPlayer("West", NewComputerAgent(src)),
		}

		rules := DefaultRules()
		engine, err := NewEngine(rules, players,
			WithInvariantChecks(),
			WithTurnLimit(200000),
			WithRoundID("test"),
		)
		require.NoError(t, err)

		d := rules.NewDeck()
		d.Shuffle(src)
		engine.Deal(d)

		result, err := engine.PlayRound(context.Background())
		require.NoError(t, err, "seed %d", seed)

		assert.Equal(t, 52, result.Winner.HandSize(), "seed %d", seed)
		assert.Empty(t, engine.Pile())
		assert.Equal(t, "test", result.RoundID)

		total := 0
		for _, hs := range result.HandSizes {
			total += hs.Cards
		}
		assert.Equal(t, 52, total)

		slaps, piles := 0, 0
		for _, s := range result.Stats {
			assert.LessOrEqual(t, s.Slaps, s.PileWins)
			slaps += s.Slaps
			piles += s.PileWins
		}
		assert.Equal(t, engine.Stats().TotalSlaps(), slaps)
		assert.Equal(t, engine.Stats().TotalPileWins(), piles)
	}
}

func TestHandsOnlyChangeThroughPlaysAndClaims(t *testing.T) {
	t.Parallel()
	src := randutil.NewSource(7)
	engine, events := newTestEngine(t,
		withAgents(NewComputerAgent(src), NewComputerAgent(src)),
	)
	d := DefaultRules().NewDeck()
	d.Shuffle(src)
	engine.Deal(d)

	_, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	played := len(events.ofType(EventTypeCardPlayed))
	claimed := 0
	for _, e := range events.ofType(EventTypePileClaimed) {
		claimed += e.(PileClaimedEvent).PileSize
	}
	assert.Equal(t, played, claimed)

	end := events.last(EventTypeRoundEnd).(RoundEndEvent)
	assert.Equal(t, engine.Turns(), end.Turns)
}

func TestSeededHeadsUpRoundWithoutSlaps(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 5; seed++ {
		engine, _ := newTestEngine(t,
			withAgents(neverSlap(), neverSlap()),
			withEngineOptions(WithTurnLimit(200000)),
		)

		d := DefaultRules().NewDeck()
		d.Shuffle(randutil.NewSource(seed))
		engine.Deal(d)
		assert.Equal(t, []int{26, 26}, handSizes(engine))

		result, err := engine.PlayRound(context.Background())
		require.NoError(t, err, "seed %d", seed)

		assert.True(t, engine.IsOver())
		assert.Equal(t, 52, result.Winner.HandSize(), "seed %d", seed)
		assert.Empty(t, engine.Pile())
		assert.Zero(t, engine.Stats().TotalSlaps())
	}
}
