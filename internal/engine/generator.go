package engine

import (
	"math/rand/v2"
	"sync"
)

// Generator draws the next signal to append to a sequence.
//
// A draw is pure: the engine appends the result, the generator never sees the
// sequence.
type Generator interface {
	Next() Signal
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func() Signal

// Next calls f.
func (f GeneratorFunc) Next() Signal {
	return f()
}

// RandomGenerator draws uniformly from Signals, independent of history.
//
// Thread-safety: RandomGenerator is not safe for concurrent use. The engine
// only calls it from its single writer.
type RandomGenerator struct {
	rng *rand.Rand
}

// NewRandomGenerator returns a generator seeded from the runtime's entropy.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewSeededGenerator returns a generator whose draws are reproducible for a
// given seed.
func NewSeededGenerator(seed uint64) *RandomGenerator {
	return &RandomGenerator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Next returns one of Signals with equal probability.
func (g *RandomGenerator) Next() Signal {
	if g.rng == nil {
		return Signals[rand.IntN(len(Signals))]
	}
	return Signals[g.rng.IntN(len(Signals))]
}

// FixedGenerator returns predetermined signals in order.
//
// This makes playback timelines reproducible in tests and scenarios.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu      sync.Mutex
	signals []Signal
	idx     int
}

// NewFixedGenerator creates a generator that returns signals in order.
//
// Example:
//
//	gen := NewFixedGenerator(Red, Blue)
//	gen.Next() // Red
//	gen.Next() // Blue
//	gen.Next() // panic: all signals exhausted
func NewFixedGenerator(signals ...Signal) *FixedGenerator {
	return &FixedGenerator{signals: signals}
}

// Next returns the next predetermined signal.
//
// Panics if all signals have been consumed, so a test that draws more than
// it scripted fails loudly.
func (g *FixedGenerator) Next() Signal {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.signals) {
		panic("FixedGenerator: all signals exhausted")
	}
	s := g.signals[g.idx]
	g.idx++
	return s
}

// Remaining returns how many signals are left.
func (g *FixedGenerator) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.signals) - g.idx
}
