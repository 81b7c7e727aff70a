// Package harness runs scripted games against the engine on virtual time.
//
// A scenario fixes the generator's draws, drives the engine with a list of
// steps, and checks the outcome with inline expectations, trace assertions,
// and a golden timeline.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: level_up
//	description: "What this scenario validates"
//	generator: [red, blue, green]
//	steps:
//	  - start
//	  - advance: 1400ms
//	  - submit: red
//	  - expect: {phase: Showing, score: 1, sequence_len: 2}
//	  - settle
//	assertions:
//	  - type: trace_count
//	    event: pulse_on
//	    count: 3
//	  - type: summary
//	    expect: {score: 1, matched: 1}
//
// # Step Types
//
//   - start, reset: call Engine.Start or Engine.Reset
//   - submit: offer one signal ("none" is allowed and is always ignored)
//   - advance: move virtual time forward by a Go duration
//   - settle: run timers until none are pending
//   - expect: compare fields of the engine snapshot
//
// # Assertion Types
//
//   - trace_contains: an event of the given kind (and signal, if set) occurred
//   - trace_order: event kinds occur in this relative order
//   - trace_count: an event kind occurred exactly N times
//   - summary: journal totals for the last session
//
// # Deterministic Testing
//
// Every run uses a fresh testutil.ManualScheduler, fixed session IDs
// ("scenario-1", "scenario-2", ...), and an in-memory journal, so the
// timeline is byte-identical across runs and can be compared to a golden
// file under testdata/golden.
package harness
