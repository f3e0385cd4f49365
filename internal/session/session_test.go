package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/ratscrew/internal/game"
	"github.com/lox/ratscrew/internal/randutil"
)

type quietPrompter struct {
	continues int
	slaps     int
}

func (p *quietPrompter) PromptContinue(context.Context, string) error {
	p.continues++
	return nil
}

func (p *quietPrompter) PromptSlap(context.Context, string) (bool, error) {
	p.slaps++
	return false, nil
}

type scriptedContinuer struct {
	answers []bool
	err     error
	asked   int
}

func (c *scriptedContinuer) PromptAnother(context.Context) (bool, error) {
	c.asked++
	if c.err != nil {
		return false, c.err
	}
	if len(c.answers) == 0 {
		return false, nil
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

func testConfig(humans ...string) Config {
	return Config{
		Rules:        game.DefaultRules(),
		Humans:       humans,
		ComputerName: "CPU Player",
		TurnLimit:    100000,
	}
}

func TestNewValidatesTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		humans  []string
		wantErr error
	}{
		{"no humans", nil, ErrNoHumans},
		{"four humans", []string{"A", "B", "C", "D"}, ErrTooManyHumans},
		{"empty name", []string{"A", ""}, game.ErrEmptyPlayerName},
		{"duplicate human", []string{"A", "A"}, game.ErrDuplicatePlayerName},
		{"human named like the computer", []string{"CPU Player"}, game.ErrDuplicatePlayerName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(testConfig(tt.humans...), &quietPrompter{}, nil)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSeatsHumansBeforeComputer(t *testing.T) {
	t.Parallel()

	s, err := New(testConfig("Alice", "Bob", "Carol"), &quietPrompter{}, nil)
	require.NoError(t, err)

	players := s.Players()
	require.Len(t, players, 4)
	for i, name := range []string{"Alice", "Bob", "Carol", "CPU Player"} {
		assert.Equal(t, name, players[i].Name)
		assert.Equal(t, i == 3, players[i].IsComputer())
	}
}

func TestRunUntilDeclined(t *testing.T) {
	t.Parallel()

	prompter := &quietPrompter{}
	continuer := &scriptedContinuer{answers: []bool{true, true, false}}

	var starts, ends int
	bus := game.NewEventBus()
	bus.Subscribe(game.EventSubscriberFunc(func(e game.GameEvent) {
		switch e.EventType() {
		case game.EventTypeRoundStart:
			starts++
		case game.EventTypeRoundEnd:
			ends++
		}
	}))

	s, err := New(testConfig("Alice"), prompter, continuer,
		WithSource(randutil.NewSource(11)),
		WithEventBus(bus),
		WithInvariantChecks(),
	)
	require.NoError(t, err)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Rounds)
	assert.Equal(t, 3, continuer.asked)
	assert.Equal(t, 3, starts)
	assert.Equal(t, 3, ends)
	require.NoError(t, summary.Validate())
	assert.Equal(t, []string{"Alice", "CPU Player"}, summary.Players())
	assert.Positive(t, prompter.continues)
}

func TestPlayRoundResetsStats(t *testing.T) {
	t.Parallel()

	s, err := New(testConfig("Alice"), &quietPrompter{}, nil, WithSource(randutil.NewSource(3)))
	require.NoError(t, err)

	first, err := s.PlayRound(context.Background())
	require.NoError(t, err)
	second, err := s.PlayRound(context.Background())
	require.NoError(t, err)

	// Alice never slaps, so only the computer can have slaps, and each
	// snapshot only covers its own round
	for _, result := range []*game.RoundResult{first, second} {
		assert.Equal(t, 0, result.Stats[0].Slaps)
	}

	summary := s.Summary()
	assert.Equal(t, first.Stats[1].Slaps+second.Stats[1].Slaps, summary.Slaps["CPU Player"])
	assert.Equal(t, first.Stats[1].PileWins+second.Stats[1].PileWins, summary.Piles["CPU Player"])
	assert.Equal(t, 52, second.Winner.HandSize())
}

func TestRunStopsOnContinueError(t *testing.T) {
	t.Parallel()

	continuer := &scriptedContinuer{err: errors.New("input closed")}
	s, err := New(testConfig("Alice"), &quietPrompter{}, continuer, WithSource(randutil.NewSource(5)))
	require.NoError(t, err)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Rounds)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	s, err := New(testConfig("Alice"), &quietPrompter{}, &scriptedContinuer{}, WithSource(randutil.NewSource(5)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Rounds)
}
