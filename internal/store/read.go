package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/arcade/internal/engine"
)

// Session is a journaled playthrough.
type Session struct {
	ID  string `json:"id"`
	Seq int64  `json:"seq"` // seq of the session's first event
}

// Summary aggregates one session's events.
type Summary struct {
	SessionID   string `json:"session_id"`
	Events      int    `json:"events"`
	Score       int    `json:"score"`
	HighScore   int    `json:"high_score"`
	SequenceLen int    `json:"sequence_len"`
	Pulses      int    `json:"pulses"`
	Matched     int    `json:"matched"`
	Mismatches  int    `json:"mismatches"`
	Ignored     int    `json:"ignored"`
}

// GameOver reports whether the session ended on a wrong signal.
func (s Summary) GameOver() bool {
	return s.Mismatches > 0
}

// ListSessions returns every journaled session in the order they started.
//
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq FROM sessions
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Seq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LatestSession returns the most recently started session.
// Returns ErrSessionNotFound if nothing has been journaled.
func (s *Store) LatestSession(ctx context.Context) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq FROM sessions
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`).Scan(&sess.ID, &sess.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("query latest session: %w", err)
	}
	return sess, nil
}

// ReadEvents returns a session's events in seq order.
//
// Returns an empty slice (not nil) if the session has no events.
func (s *Store) ReadEvents(ctx context.Context, sessionID string) ([]engine.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, session_id, kind, phase, from_phase, signal, expected, idx, score, high_score, sequence_len
		FROM events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []engine.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Summarize aggregates a session's events.
// Returns ErrSessionNotFound for an unknown session ID.
func (s *Store) Summarize(ctx context.Context, sessionID string) (Summary, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, fmt.Errorf("summarize %q: %w", sessionID, ErrSessionNotFound)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("summarize %q: %w", sessionID, err)
	}

	sum := Summary{SessionID: sessionID}
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(MAX(score), 0),
			COALESCE(MAX(high_score), 0),
			COALESCE(MAX(sequence_len), 0),
			COALESCE(SUM(CASE WHEN kind = 'pulse_on' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'matched' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'mismatch' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'ignored' THEN 1 ELSE 0 END), 0)
		FROM events
		WHERE session_id = ?
	`, sessionID).Scan(
		&sum.Events,
		&sum.Score,
		&sum.HighScore,
		&sum.SequenceLen,
		&sum.Pulses,
		&sum.Matched,
		&sum.Mismatches,
		&sum.Ignored,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize %q: %w", sessionID, err)
	}
	return sum, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (engine.Event, error) {
	var (
		ev                                 engine.Event
		session                            sql.NullString
		kind, phase, from, signal, expects string
	)
	if err := row.Scan(
		&ev.Seq, &session, &kind, &phase, &from, &signal, &expects,
		&ev.Index, &ev.Score, &ev.HighScore, &ev.SequenceLen,
	); err != nil {
		return engine.Event{}, fmt.Errorf("scan event: %w", err)
	}
	ev.SessionID = session.String

	var err error
	if ev.Kind, err = engine.ParseEventKind(kind); err != nil {
		return engine.Event{}, fmt.Errorf("event %d: %w", ev.Seq, err)
	}
	if ev.Phase, err = engine.ParsePhase(phase); err != nil {
		return engine.Event{}, fmt.Errorf("event %d: %w", ev.Seq, err)
	}
	if ev.From, err = engine.ParsePhase(from); err != nil {
		return engine.Event{}, fmt.Errorf("event %d: %w", ev.Seq, err)
	}
	if ev.Signal, err = engine.ParseSignal(signal); err != nil {
		return engine.Event{}, fmt.Errorf("event %d: %w", ev.Seq, err)
	}
	if ev.Expected, err = engine.ParseSignal(expects); err != nil {
		return engine.Event{}, fmt.Errorf("event %d: %w", ev.Seq, err)
	}
	return ev, nil
}
