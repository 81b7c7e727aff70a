package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/arcade/internal/engine"
)

// WriteEvent appends ev to the journal.
//
// The first event carrying a session ID registers the session. Writing an
// event whose seq is already journaled is a no-op, so replays are idempotent.
// Events with no session (a Submit before the first Start) are kept with a
// NULL session_id.
func (s *Store) WriteEvent(ctx context.Context, ev engine.Event) error {
	if _, err := engine.ParseEventKind(ev.Kind.String()); err != nil {
		return fmt.Errorf("write event %d: %w", ev.Seq, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write event: begin: %w", err)
	}
	defer tx.Rollback()

	var session sql.NullString
	if ev.SessionID != "" {
		session = sql.NullString{String: ev.SessionID, Valid: true}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (id, seq) VALUES (?, ?)
			ON CONFLICT(id) DO NOTHING
		`, ev.SessionID, ev.Seq); err != nil {
			return fmt.Errorf("write event %d: session: %w", ev.Seq, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events
		(seq, session_id, kind, phase, from_phase, signal, expected, idx, score, high_score, sequence_len)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`,
		ev.Seq,
		session,
		ev.Kind.String(),
		ev.Phase.String(),
		ev.From.String(),
		ev.Signal.String(),
		ev.Expected.String(),
		ev.Index,
		ev.Score,
		ev.HighScore,
		ev.SequenceLen,
	)
	if err != nil {
		return fmt.Errorf("write event %d: %w", ev.Seq, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write event %d: commit: %w", ev.Seq, err)
	}
	return nil
}
