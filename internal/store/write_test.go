package store

import (
	"context"
	"testing"

	"github.com/roach88/arcade/internal/engine"
)

func TestWriteEvent_RegistersSession(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteEvent(ctx, createTestEvent(1, "s-1", engine.EventStarted)); err != nil {
		t.Fatalf("WriteEvent() failed: %v", err)
	}
	if err := s.WriteEvent(ctx, createTestEvent(2, "s-1", engine.EventAppended)); err != nil {
		t.Fatalf("WriteEvent() failed: %v", err)
	}

	var seq int64
	if err := s.db.QueryRow("SELECT seq FROM sessions WHERE id = ?", "s-1").Scan(&seq); err != nil {
		t.Fatalf("session not registered: %v", err)
	}
	if seq != 1 {
		t.Errorf("session seq = %d, want 1 (first event)", seq)
	}
}

func TestWriteEvent_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	ev := createTestEvent(7, "s-1", engine.EventStarted)
	for i := 0; i < 3; i++ {
		if err := s.WriteEvent(ctx, ev); err != nil {
			t.Fatalf("WriteEvent() attempt %d failed: %v", i, err)
		}
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("events = %d, want 1", count)
	}
}

func TestWriteEvent_NoSession(t *testing.T) {
	s := createTestStore(t)

	ev := engine.Event{Seq: 1, Kind: engine.EventIgnored, Phase: engine.Idle, Signal: engine.Red}
	if err := s.WriteEvent(context.Background(), ev); err != nil {
		t.Fatalf("WriteEvent() failed: %v", err)
	}

	var sessions int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&sessions); err != nil {
		t.Fatalf("count: %v", err)
	}
	if sessions != 0 {
		t.Errorf("sessions = %d, want 0", sessions)
	}

	var isNull bool
	if err := s.db.QueryRow("SELECT session_id IS NULL FROM events WHERE seq = 1").Scan(&isNull); err != nil {
		t.Fatalf("query: %v", err)
	}
	if !isNull {
		t.Error("session_id should be NULL for a sessionless event")
	}
}

func TestWriteEvent_UnknownKind(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteEvent(context.Background(), engine.Event{Seq: 1})
	if err == nil {
		t.Fatal("expected error for zero event kind")
	}
	if !engine.IsParseError(err) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestWriteEvent_ClosedStore(t *testing.T) {
	s, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	s.Close()

	if err := s.WriteEvent(context.Background(), createTestEvent(1, "s-1", engine.EventStarted)); err == nil {
		t.Error("expected error writing to a closed store")
	}
}
