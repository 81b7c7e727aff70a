package engine

import "time"

// Timer is the cancellation handle returned by Scheduler.AfterFunc.
//
// Stop prevents the callback from running if it has not started. It returns
// false if the callback already ran or the timer was already stopped.
// *time.Timer satisfies Timer.
type Timer interface {
	Stop() bool
}

// Scheduler is the engine's only access to time.
//
// Callbacks must run on the engine's single writer: either synchronously from
// a test driver (see testutil.ManualScheduler) or funnelled through Loop.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Emitter receives feedback for every lit signal: once per playback
// on-pulse and once per press accepted for verification. Emit must not block
// and must not call back into the engine.
type Emitter interface {
	Emit(s Signal)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(s Signal)

// Emit calls f.
func (f EmitterFunc) Emit(s Signal) {
	f(s)
}

type nopEmitter struct{}

func (nopEmitter) Emit(Signal) {}
