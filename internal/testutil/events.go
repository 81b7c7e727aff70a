package testutil

import (
	"sync"

	"github.com/roach88/arcade/internal/engine"
)

// EventLog is an engine.Observer that keeps every event in order.
type EventLog struct {
	mu     sync.Mutex
	events []engine.Event
}

// Observe implements engine.Observer.
func (l *EventLog) Observe(ev engine.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

// Events returns a copy of everything observed so far.
func (l *EventLog) Events() []engine.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]engine.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of events observed.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Count returns how many events of kind were observed.
func (l *EventLog) Count(kind engine.EventKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// OfKind returns the events of kind, in order.
func (l *EventLog) OfKind(kind engine.EventKind) []engine.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []engine.Event
	for _, ev := range l.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// EmitLog is an engine.Emitter that records every emitted signal.
type EmitLog struct {
	mu      sync.Mutex
	signals []engine.Signal
}

// Emit implements engine.Emitter.
func (l *EmitLog) Emit(s engine.Signal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.signals = append(l.signals, s)
}

// Signals returns a copy of the emitted signals.
func (l *EmitLog) Signals() []engine.Signal {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]engine.Signal, len(l.signals))
	copy(out, l.signals)
	return out
}
