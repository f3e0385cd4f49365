package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/ratscrew/internal/deck"
	"github.com/lox/ratscrew/internal/game"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultComputerName, cfg.Session.ComputerName)
	assert.Equal(t, DefaultUI, cfg.Session.UI)
	assert.Equal(t, DefaultLogFile, cfg.Log.File)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())

	rules, err := cfg.GameRules()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultRules().DeckSize(), rules.DeckSize())
	assert.Equal(t, "J=1 Q=2 K=3 A=4", rules.PenaltyTable())

	timeout, err := cfg.SlapTimeout()
	require.NoError(t, err)
	assert.Zero(t, timeout)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ratscrew.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
rules {
  penalties = { J = 1, Q = 2, K = 3 }
  max_turns = 5000
}

session {
  humans        = ["Alice", "Bob"]
  computer_name = "Robot"
  slap_timeout  = "5s"
  seed          = 42
  ui            = "tui"
}

log {
  level = "debug"
}
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"Alice", "Bob"}, cfg.Session.Humans)
	assert.Equal(t, "Robot", cfg.Session.ComputerName)
	assert.Equal(t, int64(42), cfg.Session.Seed)
	assert.Equal(t, "tui", cfg.Session.UI)
	assert.Equal(t, 5000, cfg.Rules.MaxTurns)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.Equal(t, DefaultLogFile, cfg.Log.File)

	timeout, err := cfg.SlapTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)

	rules, err := cfg.GameRules()
	require.NoError(t, err)
	assert.False(t, rules.IsFace(deck.Ace))
	assert.Equal(t, "J=1 Q=2 K=3", rules.PenaltyTable())
}

func TestShortDeck(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
rules {
  ranks     = ["9", "10", "J", "Q", "K", "A"]
  suits     = ["hearts", "spades"]
  max_seats = 3
}
`), "short.hcl")
	require.NoError(t, err)

	rules, err := cfg.GameRules()
	require.NoError(t, err)
	assert.Equal(t, 12, rules.DeckSize())
	assert.Equal(t, 3, rules.MaxSeats())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"unknown rank", `rules { ranks = ["2", "X"] }`, nil},
		{"unknown suit", `rules { suits = ["stars"] }`, nil},
		{"penalty outside deck", `rules {
  ranks     = ["2", "3"]
  penalties = { K = 3 }
}`, game.ErrInvalidRules},
		{"zero penalty", `rules { penalties = { J = 0 } }`, game.ErrInvalidRules},
		{"one seat", `rules { min_seats = 1 }`, game.ErrInvalidRules},
		{"negative turns", `rules { max_turns = -1 }`, nil},
		{"bad timeout", `session { slap_timeout = "soon" }`, nil},
		{"negative timeout", `session { slap_timeout = "-1s" }`, nil},
		{"bad ui", `session { ui = "gui" }`, nil},
		{"bad log level", `log { level = "loud" }`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.src), "test.hcl")
			require.NoError(t, err)

			err = cfg.Validate()
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`rules {`), "broken.hcl")
	require.Error(t, err)

	_, err = Parse([]byte(`table "main" {}`), "unknown.hcl")
	require.Error(t, err)
}
