package statistics

import (
	"fmt"
	"math"
	"sort"
)

// PlayerStats is one player's row in a RoundStats snapshot
type PlayerStats struct {
	Name       string
	Slaps      int
	PileWins   int
	SlapPct    float64
	PileWinPct float64
}

type counts struct {
	slaps    int
	pileWins int
}

// RoundStats tracks slaps and claimed piles per player for a single round.
// Counts only ever grow until Reset.
type RoundStats struct {
	order  []string
	counts map[string]*counts
}

// NewRoundStats creates empty stats for the given players, in seat order
func NewRoundStats(names ...string) *RoundStats {
	s := &RoundStats{counts: make(map[string]*counts)}
	for _, name := range names {
		s.entry(name)
	}
	return s
}

func (s *RoundStats) entry(name string) *counts {
	c, ok := s.counts[name]
	if !ok {
		c = &counts{}
		s.counts[name] = c
		s.order = append(s.order, name)
	}
	return c
}

// RecordSlap credits name with a slap and the pile it claimed
func (s *RoundStats) RecordSlap(name string) {
	c := s.entry(name)
	c.slaps++
	c.pileWins++
}

// RecordChallengeWin credits name with a pile won through an unanswered challenge
func (s *RoundStats) RecordChallengeWin(name string) {
	s.entry(name).pileWins++
}

// Slaps returns the number of successful slaps by name
func (s *RoundStats) Slaps(name string) int {
	if c, ok := s.counts[name]; ok {
		return c.slaps
	}
	return 0
}

// PileWins returns the number of piles claimed by name, by slap or challenge
func (s *RoundStats) PileWins(name string) int {
	if c, ok := s.counts[name]; ok {
		return c.pileWins
	}
	return 0
}

// TotalSlaps returns the slap count across all players
func (s *RoundStats) TotalSlaps() int {
	total := 0
	for _, c := range s.counts {
		total += c.slaps
	}
	return total
}

// TotalPileWins returns the pile-win count across all players
func (s *RoundStats) TotalPileWins() int {
	total := 0
	for _, c := range s.counts {
		total += c.pileWins
	}
	return total
}

// SlapPercent returns name's share of all slaps, 0 when nobody slapped
func (s *RoundStats) SlapPercent(name string) float64 {
	return percent(s.Slaps(name), s.TotalSlaps())
}

// PileWinPercent returns name's share of all claimed piles, 0 when none were claimed
func (s *RoundStats) PileWinPercent(name string) float64 {
	return percent(s.PileWins(name), s.TotalPileWins())
}

// Reset zeroes every counter, keeping the known players
func (s *RoundStats) Reset() {
	for _, c := range s.counts {
		*c = counts{}
	}
}

// Snapshot returns per-player rows in the order players were first seen
func (s *RoundStats) Snapshot() []PlayerStats {
	rows := make([]PlayerStats, 0, len(s.order))
	for _, name := range s.order {
		c := s.counts[name]
		rows = append(rows, PlayerStats{
			Name:       name,
			Slaps:      c.slaps,
			PileWins:   c.pileWins,
			SlapPct:    s.SlapPercent(name),
			PileWinPct: s.PileWinPercent(name),
		})
	}
	return rows
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// RoundResult is the outcome of one finished round
type RoundResult struct {
	Winner  string
	Turns   int
	Players []PlayerStats
}

// Summary aggregates results across many rounds
type Summary struct {
	Rounds  int
	SumT    float64
	SumT2   float64   // Sum of squares for variance calculation
	Values  []float64 // Turn counts for median/percentile calculation
	Wins    map[string]int
	Slaps   map[string]int
	Piles   map[string]int
	players []string

	MaxTurns int
	MinTurns int
}

// NewSummary creates an empty summary
func NewSummary() *Summary {
	return &Summary{
		Wins:  make(map[string]int),
		Slaps: make(map[string]int),
		Piles: make(map[string]int),
	}
}

// Add incorporates a finished round
func (s *Summary) Add(result RoundResult) {
	turns := float64(result.Turns)
	s.Rounds++
	s.SumT += turns
	s.SumT2 += turns * turns
	s.Values = append(s.Values, turns)

	if result.Turns > s.MaxTurns {
		s.MaxTurns = result.Turns
	}
	if s.Rounds == 1 || result.Turns < s.MinTurns {
		s.MinTurns = result.Turns
	}

	s.track(result.Winner)
	s.Wins[result.Winner]++
	for _, p := range result.Players {
		s.track(p.Name)
		s.Slaps[p.Name] += p.Slaps
		s.Piles[p.Name] += p.PileWins
	}
}

func (s *Summary) track(name string) {
	if _, ok := s.Wins[name]; !ok {
		s.Wins[name] = 0
		s.players = append(s.players, name)
	}
}

// Players returns every player seen, in first-seen order
func (s *Summary) Players() []string {
	out := make([]string, len(s.players))
	copy(out, s.players)
	return out
}

// WinRate returns the fraction of rounds won by name
func (s *Summary) WinRate(name string) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins[name]) / float64(s.Rounds)
}

// Mean returns the mean number of turns per round
func (s *Summary) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumT / float64(s.Rounds)
}

// Variance returns the sample variance of turns per round
func (s *Summary) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumT2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of turns per round
func (s *Summary) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Summary) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Summary) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median round length in turns
func (s *Summary) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the round length at the given percentile (0.0 to 1.0)
func (s *Summary) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the summary ledger is consistent
func (s *Summary) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	totalWins := 0
	for _, w := range s.Wins {
		totalWins += w
	}
	if totalWins != s.Rounds {
		return fmt.Errorf("total wins (%d) does not match rounds (%d)", totalWins, s.Rounds)
	}

	for name, slaps := range s.Slaps {
		if slaps > s.Piles[name] {
			return fmt.Errorf("player %s: slaps (%d) exceed pile wins (%d)", name, slaps, s.Piles[name])
		}
	}

	return nil
}
