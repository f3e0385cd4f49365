package main

import (
	"fmt"
	"strings"
)

// RulesCmd prints the rule set the config file produces
type RulesCmd struct{}

func (c *RulesCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rules, err := cfg.GameRules()
	if err != nil {
		return err
	}

	ranks := make([]string, 0, len(rules.Ranks()))
	for _, r := range rules.Ranks() {
		ranks = append(ranks, r.String())
	}
	suits := make([]string, 0, len(rules.Suits()))
	for _, s := range rules.Suits() {
		suits = append(suits, s.String())
	}

	fmt.Println(banner())
	fmt.Println()
	fmt.Printf("Deck:       %d cards\n", rules.DeckSize())
	fmt.Printf("Ranks:      %s\n", strings.Join(ranks, " "))
	fmt.Printf("Suits:      %s\n", strings.Join(suits, " "))
	fmt.Printf("Penalties:  %s\n", rules.PenaltyTable())
	fmt.Printf("Seats:      %d to %d\n", rules.MinSeats(), rules.MaxSeats())
	if cfg.Rules.MaxTurns > 0 {
		fmt.Printf("Turn limit: %d\n", cfg.Rules.MaxTurns)
	}
	return nil
}
