package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/ratscrew/internal/deck"
	"github.com/lox/ratscrew/internal/game"
)

const (
	DefaultComputerName = "CPU Player"
	DefaultLogLevel     = "info"
	DefaultLogFile      = "ratscrew.log"
	DefaultUI           = "console"
)

// Config represents the complete ratscrew configuration
type Config struct {
	Rules   *RulesConfig   `hcl:"rules,block"`
	Session *SessionConfig `hcl:"session,block"`
	Log     *LogConfig     `hcl:"log,block"`
}

// RulesConfig describes the deck and the face-card penalties
type RulesConfig struct {
	Ranks     []string       `hcl:"ranks,optional"`
	Suits     []string       `hcl:"suits,optional"`
	Penalties map[string]int `hcl:"penalties,optional"`
	MinSeats  int            `hcl:"min_seats,optional"`
	MaxSeats  int            `hcl:"max_seats,optional"`
	MaxTurns  int            `hcl:"max_turns,optional"`
}

// SessionConfig describes who plays and how
type SessionConfig struct {
	Humans       []string `hcl:"humans,optional"`
	ComputerName string   `hcl:"computer_name,optional"`
	SlapTimeout  string   `hcl:"slap_timeout,optional"`
	Seed         int64    `hcl:"seed,optional"`
	UI           string   `hcl:"ui,optional"`
}

// LogConfig controls the log file written during interactive play
type LogConfig struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// Default returns the standard game configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

// Parse decodes configuration from HCL source
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file)
}

func decode(file *hcl.File) (*Config, error) {
	var config Config
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := game.DefaultRules()

	if c.Rules == nil {
		c.Rules = &RulesConfig{}
	}
	if len(c.Rules.Ranks) == 0 {
		for _, r := range defaults.Ranks() {
			c.Rules.Ranks = append(c.Rules.Ranks, r.String())
		}
	}
	if len(c.Rules.Suits) == 0 {
		for _, s := range defaults.Suits() {
			c.Rules.Suits = append(c.Rules.Suits, strings.ToLower(s.Name()))
		}
	}
	if c.Rules.Penalties == nil {
		c.Rules.Penalties = make(map[string]int)
		for _, r := range defaults.FaceRanks() {
			n, _ := defaults.Penalty(r)
			c.Rules.Penalties[r.String()] = n
		}
	}
	if c.Rules.MinSeats == 0 {
		c.Rules.MinSeats = defaults.MinSeats()
	}
	if c.Rules.MaxSeats == 0 {
		c.Rules.MaxSeats = defaults.MaxSeats()
	}

	if c.Session == nil {
		c.Session = &SessionConfig{}
	}
	if c.Session.ComputerName == "" {
		c.Session.ComputerName = DefaultComputerName
	}
	if c.Session.SlapTimeout == "" {
		c.Session.SlapTimeout = "0s"
	}
	if c.Session.UI == "" {
		c.Session.UI = DefaultUI
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.File == "" {
		c.Log.File = DefaultLogFile
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := c.GameRules(); err != nil {
		return err
	}
	if c.Rules.MaxTurns < 0 {
		return fmt.Errorf("rules: max_turns must not be negative, got %d", c.Rules.MaxTurns)
	}
	if _, err := c.SlapTimeout(); err != nil {
		return err
	}
	if c.Session.UI != "console" && c.Session.UI != "tui" {
		return fmt.Errorf("session: invalid ui %q (want console or tui)", c.Session.UI)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// GameRules converts the rules block into a validated rule set
func (c *Config) GameRules() (game.Rules, error) {
	ranks := make([]deck.Rank, 0, len(c.Rules.Ranks))
	for _, s := range c.Rules.Ranks {
		r, err := deck.ParseRank(s)
		if err != nil {
			return game.Rules{}, fmt.Errorf("rules: %w", err)
		}
		ranks = append(ranks, r)
	}

	suits := make([]deck.Suit, 0, len(c.Rules.Suits))
	for _, s := range c.Rules.Suits {
		suit, err := deck.ParseSuit(s)
		if err != nil {
			return game.Rules{}, fmt.Errorf("rules: %w", err)
		}
		suits = append(suits, suit)
	}

	penalties := make(map[deck.Rank]int, len(c.Rules.Penalties))
	for s, n := range c.Rules.Penalties {
		r, err := deck.ParseRank(s)
		if err != nil {
			return game.Rules{}, fmt.Errorf("rules: penalties: %w", err)
		}
		penalties[r] = n
	}

	rules, err := game.NewRules(
		game.WithRanks(ranks...),
		game.WithSuits(suits...),
		game.WithPenalties(penalties),
		game.WithSeatLimits(c.Rules.MinSeats, c.Rules.MaxSeats),
	)
	if err != nil {
		return game.Rules{}, fmt.Errorf("rules: %w", err)
	}
	return rules, nil
}

// SlapTimeout returns how long a human has to answer a slap prompt. Zero waits forever.
func (c *Config) SlapTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Session.SlapTimeout)
	if err != nil {
		return 0, fmt.Errorf("session: invalid slap_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("session: slap_timeout must not be negative, got %s", d)
	}
	return d, nil
}

// LogLevel returns the parsed log level, falling back to info
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
