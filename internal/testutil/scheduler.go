package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/roach88/arcade/internal/engine"
)

// ManualScheduler is a fast-forwardable engine.Scheduler for tests.
//
// Time only moves when Advance or Settle is called. Due callbacks run on the
// caller's goroutine in (deadline, registration) order, and a callback that
// schedules another timer inside the advanced window sees it fire in the
// same call. This matches the engine's single-writer contract.
//
// Thread-safety: methods are safe for concurrent use, but callbacks run
// without the lock held so they may schedule or stop timers.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  uint64
	pending []*manualTimer
}

type manualTimer struct {
	s  *ManualScheduler
	id uint64
	at time.Duration
	f  func()
}

// NewManualScheduler creates a scheduler at time 0 with no timers.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc registers f to run once Now reaches Now()+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) engine.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t := &manualTimer{s: s, id: s.nextID, at: s.now + d, f: f}
	s.pending = append(s.pending, t)
	return t
}

// Stop removes the timer. Returns false if it already fired or was stopped.
func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	for i, p := range t.s.pending {
		if p == t {
			t.s.pending = append(t.s.pending[:i], t.s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Now returns the elapsed virtual time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of timers that have neither fired nor stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// NextDeadline returns the deadline of the earliest pending timer.
func (s *ManualScheduler) NextDeadline() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.earliestLocked()
	if t == nil {
		return 0, false
	}
	return t.at, true
}

// Advance moves time forward by d, running every timer that falls due.
// Returns the number of callbacks run.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	return s.runUntil(target)
}

// Settle runs timers until none are pending, jumping time to each deadline.
// It stops after limit callbacks to guard against timers that reschedule
// forever. Returns the number of callbacks run.
func (s *ManualScheduler) Settle(limit int) int {
	fired := 0
	for fired < limit {
		at, ok := s.NextDeadline()
		if !ok {
			break
		}
		fired += s.runUntil(at)
	}
	return fired
}

func (s *ManualScheduler) runUntil(target time.Duration) int {
	fired := 0
	for {
		s.mu.Lock()
		t := s.earliestLocked()
		if t == nil || t.at > target {
			if target > s.now {
				s.now = target
			}
			s.mu.Unlock()
			return fired
		}
		s.removeLocked(t)
		if t.at > s.now {
			s.now = t.at
		}
		s.mu.Unlock()

		t.f()
		fired++
	}
}

func (s *ManualScheduler) earliestLocked() *manualTimer {
	if len(s.pending) == 0 {
		return nil
	}
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].at != s.pending[j].at {
			return s.pending[i].at < s.pending[j].at
		}
		return s.pending[i].id < s.pending[j].id
	})
	return s.pending[0]
}

func (s *ManualScheduler) removeLocked(t *manualTimer) {
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
