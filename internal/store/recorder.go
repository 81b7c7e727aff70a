package store

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/arcade/internal/engine"
)

// Recorder journals engine events as an engine.Observer.
//
// A failed write is logged and counted; the engine keeps running. Observe
// runs on the engine's writer goroutine, so writes are serialized.
type Recorder struct {
	store    *Store
	logger   *slog.Logger
	failures atomic.Int64
}

// NewRecorder returns a Recorder writing to s. A nil logger discards.
func NewRecorder(s *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recorder{store: s, logger: logger}
}

// Observe implements engine.Observer.
func (r *Recorder) Observe(ev engine.Event) {
	if err := r.store.WriteEvent(context.Background(), ev); err != nil {
		r.failures.Add(1)
		r.logger.Warn("journal write failed", "seq", ev.Seq, "kind", ev.Kind, "error", err)
	}
}

// Failures returns how many events could not be journaled.
func (r *Recorder) Failures() int64 {
	return r.failures.Load()
}
