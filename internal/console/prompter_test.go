package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for a reader and a writer goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPromptSlapAnswers(t *testing.T) {
	t.Parallel()
	out := &syncBuffer{}
	p := NewPrompter(strings.NewReader("slap\n  SLAP \n\nno\n"), out)
	ctx := context.Background()

	for _, want := range []bool{true, true, false, false} {
		got, err := p.PromptSlap(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := p.PromptSlap(ctx, "Alice")
	require.ErrorIs(t, err, io.EOF)

	assert.Contains(t, out.String(), "Alice, type 'slap' to take the pile, or press Enter to skip: ")
}

func TestPromptContinue(t *testing.T) {
	t.Parallel()
	out := &syncBuffer{}
	p := NewPrompter(strings.NewReader("\n"), out)

	require.NoError(t, p.PromptContinue(context.Background(), "Bob"))
	assert.Equal(t, "Bob, press Enter to play your next card...", out.String())

	require.ErrorIs(t, p.PromptContinue(context.Background(), "Bob"), io.EOF)
}

func TestPromptAnother(t *testing.T) {
	t.Parallel()
	p := NewPrompter(strings.NewReader("\ny\nn\nyes\nQ\nNo\n"), io.Discard)

	for _, want := range []bool{true, true, false, true, false, false} {
		got, err := p.PromptAnother(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPromptPlayers(t *testing.T) {
	t.Parallel()
	out := &syncBuffer{}
	p := NewPrompter(strings.NewReader("5\nlots\n2\n Alice \n\n"), out)

	names, err := p.PromptPlayers(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Player 2"}, names)

	assert.Equal(t, 2, strings.Count(out.String(), "Please enter a number between 1 and 3."))
	assert.Contains(t, out.String(), "Enter name for Player 2: ")
}

func TestPromptCancelled(t *testing.T) {
	t.Parallel()
	pr, pw := io.Pipe()
	defer pw.Close()
	p := NewPrompter(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.PromptSlap(ctx, "Alice")
	require.ErrorIs(t, err, context.Canceled)
}

func TestPromptSlapTimeout(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mockClock := quartz.NewMock(t)
	pr, pw := io.Pipe()
	defer pw.Close()
	out := &syncBuffer{}
	p := NewPrompter(pr, out, WithClock(mockClock), WithSlapTimeout(3*time.Second))

	type answer struct {
		slap bool
		err  error
	}
	result := make(chan answer, 1)
	go func() {
		slap, err := p.PromptSlap(ctx, "Alice")
		result <- answer{slap, err}
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "type 'slap'")
	}, time.Second, time.Millisecond)

	mockClock.Advance(3 * time.Second).MustWait(ctx)

	got := <-result
	require.ErrorIs(t, got.err, ErrSlapTimeout)
	assert.False(t, got.slap)
	assert.Contains(t, out.String(), "Too slow!")

	// A "slap" typed after the timeout must not answer the next prompt
	_, err := pw.Write([]byte("slap\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(p.lines) == 1 }, time.Second, time.Millisecond)

	go func() {
		slap, err := p.PromptSlap(ctx, "Alice")
		result <- answer{slap, err}
	}()
	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "type 'slap'") == 2
	}, time.Second, time.Millisecond)

	_, err = pw.Write([]byte("\n"))
	require.NoError(t, err)

	got = <-result
	require.NoError(t, got.err)
	assert.False(t, got.slap)
}
