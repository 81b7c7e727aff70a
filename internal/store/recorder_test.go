package store

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arcade/internal/engine"
	"github.com/roach88/arcade/internal/testutil"
)

func TestRecorder_JournalsGame(t *testing.T) {
	s, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	rec := NewRecorder(s, nil)
	sched := testutil.NewManualScheduler()
	eng := engine.New(sched,
		engine.WithGenerator(engine.NewFixedGenerator(engine.Red, engine.Blue)),
		engine.WithIDGenerator(testutil.NewFixedIDGenerator("game")),
		engine.WithObserver(rec),
	)

	eng.Start()
	sched.Advance(1400 * time.Millisecond)
	eng.Submit(engine.Red)
	sched.Advance(2400 * time.Millisecond)
	eng.Submit(engine.Yellow)

	require.Zero(t, rec.Failures())

	ctx := context.Background()
	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "game-1", sessions[0].ID)

	sum, err := s.Summarize(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Score)
	assert.Equal(t, 1, sum.HighScore)
	assert.Equal(t, 2, sum.SequenceLen)
	assert.Equal(t, 3, sum.Pulses)
	assert.Equal(t, 1, sum.Matched)
	assert.True(t, sum.GameOver())

	events, err := s.ReadEvents(ctx, "game-1")
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, engine.EventStarted, events[0].Kind)
	assert.Equal(t, engine.GameOver, events[len(events)-1].Phase)
}

func TestRecorder_LogsAndContinuesOnFailure(t *testing.T) {
	s, err := Open(MemoryPath)
	require.NoError(t, err)
	s.Close()

	var buf bytes.Buffer
	rec := NewRecorder(s, slog.New(slog.NewTextHandler(&buf, nil)))

	sched := testutil.NewManualScheduler()
	eng := engine.New(sched,
		engine.WithGenerator(engine.NewFixedGenerator(engine.Green)),
		engine.WithObserver(rec),
	)

	eng.Start()
	assert.Equal(t, engine.Showing, eng.Phase(), "engine keeps running when the journal fails")
	assert.Positive(t, rec.Failures())
	assert.Contains(t, buf.String(), "journal write failed")
}
