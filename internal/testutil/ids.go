package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator generates predictable session IDs: "<prefix>-1",
// "<prefix>-2", and so on.
//
// This keeps journals and traces byte-identical across runs.
//
// Thread-safety: FixedIDGenerator is safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewFixedIDGenerator creates a generator. If prefix is empty, "session" is used.
func NewFixedIDGenerator(prefix string) *FixedIDGenerator {
	if prefix == "" {
		prefix = "session"
	}
	return &FixedIDGenerator{prefix: prefix}
}

// Generate returns the next ID. Implements engine.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
