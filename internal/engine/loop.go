package engine

import (
	"context"
	"sync/atomic"
	"time"
)

// Loop runs an Engine on real time with a single writer goroutine.
//
// Commands and timer callbacks are enqueued as tasks and executed one at a
// time by Run. After every task the loop publishes a fresh Snapshot.
//
// Thread-safety model:
//   - Start, Submit, Reset, Snapshot, Updates: safe from any goroutine
//   - Run: must be called from exactly one goroutine
type Loop struct {
	engine  *Engine
	queue   *taskQueue
	current atomic.Pointer[Snapshot]
	updates chan Snapshot
}

// NewLoop creates a loop around a new Engine. The engine's Scheduler is the
// loop itself; opts configure everything else.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		queue:   newTaskQueue(),
		updates: make(chan Snapshot, 1),
	}
	l.engine = New(loopScheduler{queue: l.queue}, opts...)
	l.publish()
	return l
}

// loopScheduler fires time.AfterFunc timers by enqueueing the callback, so
// the callback runs on the writer goroutine like any other task.
type loopScheduler struct {
	queue *taskQueue
}

func (s loopScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() {
		s.queue.Enqueue(f)
	})
}

// Start enqueues Engine.Start.
func (l *Loop) Start() error {
	return l.enqueue(l.engine.Start)
}

// Submit enqueues Engine.Submit. Whether the signal counts is decided when
// the task runs, against the phase at that moment.
func (l *Loop) Submit(s Signal) error {
	return l.enqueue(func() { l.engine.Submit(s) })
}

// Reset enqueues Engine.Reset.
func (l *Loop) Reset() error {
	return l.enqueue(l.engine.Reset)
}

// Snapshot returns the state published after the last completed task.
func (l *Loop) Snapshot() Snapshot {
	return *l.current.Load()
}

// Updates delivers snapshots as they are published. Only the latest
// unread snapshot is kept; a slow reader skips intermediate states.
func (l *Loop) Updates() <-chan Snapshot {
	return l.updates
}

// Run executes tasks until ctx is cancelled or Stop is called.
//
// CRITICAL: Must be called from exactly ONE goroutine.
func (l *Loop) Run(ctx context.Context) error {
	l.engine.logger.Info("engine loop starting")

	for {
		task, ok := l.queue.TryDequeue()
		if ok {
			task()
			l.publish()
			continue
		}

		select {
		case <-ctx.Done():
			l.engine.logger.Info("engine loop stopping: context cancelled")
			l.queue.Close()
			return ctx.Err()

		case <-l.queue.Wait():
			// The signal channel is closed by Stop; drain what is left first.
			if l.queue.Len() == 0 && l.closed() {
				l.engine.logger.Info("engine loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the loop. Run returns once queued tasks are drained.
func (l *Loop) Stop() {
	l.queue.Close()
}

func (l *Loop) closed() bool {
	l.queue.mu.Lock()
	defer l.queue.mu.Unlock()
	return l.queue.closed
}

func (l *Loop) enqueue(task func()) error {
	if !l.queue.Enqueue(task) {
		return ErrLoopClosed
	}
	return nil
}

// publish stores the engine's snapshot and offers it on Updates, replacing
// any snapshot the reader has not taken yet.
func (l *Loop) publish() {
	snap := l.engine.Snapshot()
	l.current.Store(&snap)

	for {
		select {
		case l.updates <- snap:
			return
		default:
			select {
			case <-l.updates:
			default:
			}
		}
	}
}
