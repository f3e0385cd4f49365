package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/ratscrew/internal/deck"
)

// testEngineOption configures test engine creation
type testEngineOption func(*testEngineBuilder)

type testEngineBuilder struct {
	rules   Rules
	names   []string
	agents  []Agent
	hands   []string
	options []EngineOption
}

func withPlayers(names ...string) testEngineOption {
	return func(b *testEngineBuilder) { b.names = names }
}

// withAgents assigns agents by seat; seats without one never slap
func withAgents(agents ...Agent) testEngineOption {
	return func(b *testEngineBuilder) { b.agents = agents }
}

// withHands deals exact hands, front card first
func withHands(hands ...string) testEngineOption {
	return func(b *testEngineBuilder) { b.hands = hands }
}

func withEngineOptions(opts ...EngineOption) testEngineOption {
	return func(b *testEngineBuilder) { b.options = append(b.options, opts...) }
}

// newTestEngine creates a two player engine with invariant checks and records
// every published event
func newTestEngine(t *testing.T, opts ...testEngineOption) (*Engine, *eventRecorder) {
	t.Helper()

	builder := &testEngineBuilder{
		rules: DefaultRules(),
		names: []string{"Alice", "Bob"},
	}
	for _, opt := range opts {
		opt(builder)
	}

	players := make([]*Player, len(builder.names))
	for i, name := range builder.names {
		var agent Agent = neverSlap()
		if i < len(builder.agents) && builder.agents[i] != nil {
			agent = builder.agents[i]
		}
		players[i] = NewPlayer(name, agent)
	}

	recorder := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(recorder)

	engineOpts := append([]EngineOption{WithEventBus(bus), WithInvariantChecks()}, builder.options...)
	engine, err := NewEngine(builder.rules, players, engineOpts...)
	require.NoError(t, err)

	if builder.hands != nil {
		hands := make([][]deck.Card, len(builder.hands))
		for i, h := range builder.hands {
			hands[i] = deck.MustParseCards(h)
		}
		engine.SetHands(hands...)
	}

	return engine, recorder
}

func neverSlap() Agent {
	return NewComputerAgent(DecisionFunc(func() bool { return false }))
}

func alwaysSlap() Agent {
	return NewComputerAgent(DecisionFunc(func() bool { return true }))
}

func cards(s string) []deck.Card {
	return deck.MustParseCards(s)
}

func step(t *testing.T, e *Engine) bool {
	t.Helper()
	done, err := e.Step(context.Background())
	require.NoError(t, err)
	return done
}

// eventRecorder captures events for testing
type eventRecorder struct {
	mu     sync.Mutex
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) ofType(et EventType) []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []GameEvent
	for _, e := range r.events {
		if e.EventType() == et {
			out = append(out, e)
		}
	}
	return out
}

func (r *eventRecorder) last(et EventType) GameEvent {
	events := r.ofType(et)
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}

// scriptedAgent answers slap polls from a fixed value and logs every poll
type scriptedAgent struct {
	computer bool
	slap     bool
	name     string
	polls    *[]string
	plays    int
}

func (a *scriptedAgent) IsComputer() bool { return a.computer }

func (a *scriptedAgent) AwaitPlay(context.Context, string) { a.plays++ }

func (a *scriptedAgent) DecideSlap(context.Context, string) bool {
	if a.polls != nil {
		*a.polls = append(*a.polls, a.name)
	}
	return a.slap
}

func handSizes(e *Engine) []int {
	sizes := make([]int, 0, len(e.players))
	for _, p := range e.players {
		sizes = append(sizes, p.HandSize())
	}
	return sizes
}
