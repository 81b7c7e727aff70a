// Package engine implements the sequence-memory game engine.
//
// The engine generates a growing sequence of signals, plays it back on a
// fixed timeline, and verifies the player's repetition one signal at a time.
//
// ARCHITECTURE:
//
// Single-Writer State Machine:
// Engine is synchronous and not safe for concurrent use. Every command
// (Start, Submit, Reset) and every scheduled playback step runs to completion
// before the next one starts. The only suspension points are between playback
// pulses, and those are owned by the injected Scheduler.
//
// Phases:
//
//	Idle ──Start──▶ Showing ──playback done──▶ AwaitingInput
//	                  ▲                           │    │
//	                  └── LevelComplete ◀─ full ──┘    └─ mismatch ─▶ GameOver
//
// Start and Reset are accepted in every phase. Submit outside AwaitingInput is
// ignored and never queued.
//
// Time:
// The engine never reads a clock. Scheduler.AfterFunc is its only access to
// time, so tests drive it with a manual scheduler and real programs drive it
// through Loop, which funnels timer callbacks back onto one goroutine.
//
// CRITICAL PATTERNS:
//
// Playback Epoch:
// Each playback is stamped with an epoch. Start and Reset stop the outstanding
// reveal timer and advance the epoch in the same call, so a step belonging to
// a cancelled playback has no observable effect even if it was already queued.
//
// One Outstanding Reveal:
// The next pulse is scheduled only from the previous pulse's callback. There
// is never more than one reveal timer in flight.
//
// Logical Clock:
// Every Event is stamped with a monotonic seq from Clock. Observers order by
// seq, never by wall time.
package engine
