package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Source is the randomness the game consumes: coin flips for computer
// decisions and shuffles for the deck. Tests substitute scripted sources.
type Source interface {
	Bool() bool
	Shuffle(n int, swap func(i, j int))
}

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewSource returns a Source backed by New(seed). A zero seed picks one from
// the wall clock.
func NewSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{Rand: New(seed), seed: seed}
}

// RandSource adapts *rand.Rand to Source
type RandSource struct {
	*rand.Rand
	seed int64
}

// Bool returns true or false with equal probability
func (s *RandSource) Bool() bool {
	return s.Uint64()&1 == 1
}

// Seed returns the seed the source was created with
func (s *RandSource) Seed() int64 {
	return s.seed
}

// Derive returns the seed for the i-th independent sub-run of a seeded run.
func Derive(seed int64, i int) int64 {
	return int64(mix(uint64(seed) + uint64(i)*goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
