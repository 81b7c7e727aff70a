package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/arcade/internal/engine"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestEvent creates an event with minimal required fields.
func createTestEvent(seq int64, sessionID string, kind engine.EventKind) engine.Event {
	return engine.Event{
		Seq:       seq,
		Kind:      kind,
		SessionID: sessionID,
		Phase:     engine.Showing,
	}
}
