package engine

import "strings"

// EventKind distinguishes engine events.
type EventKind uint8

const (
	// EventStarted marks a new playthrough. SessionID is the new session.
	EventStarted EventKind = iota + 1
	// EventAppended reports a signal appended to the sequence at Index.
	EventAppended
	// EventPhaseChanged reports a transition From -> Phase.
	EventPhaseChanged
	// EventPulseOn reports Signal at Index lit during playback.
	EventPulseOn
	// EventPulseOff reports Signal at Index unlit during playback.
	EventPulseOff
	// EventMatched reports a submitted Signal that matched position Index.
	EventMatched
	// EventMismatch reports a submitted Signal that did not match Expected at Index.
	EventMismatch
	// EventHighScore reports a new high score.
	EventHighScore
	// EventReset reports a Reset. SessionID is the discarded session, if any.
	EventReset
	// EventIgnored reports a Submit issued outside AwaitingInput.
	EventIgnored
)

var eventKindNames = [...]string{
	EventStarted:      "started",
	EventAppended:     "appended",
	EventPhaseChanged: "phase_changed",
	EventPulseOn:      "pulse_on",
	EventPulseOff:     "pulse_off",
	EventMatched:      "matched",
	EventMismatch:     "mismatch",
	EventHighScore:    "high_score",
	EventReset:        "reset",
	EventIgnored:      "ignored",
}

func (k EventKind) String() string {
	if k > 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseEventKind parses the name produced by EventKind.String.
func ParseEventKind(name string) (EventKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range eventKindNames {
		if i > 0 && n == s {
			return EventKind(i), nil
		}
	}
	return 0, &ParseError{Kind: "event kind", Value: name}
}

// Event is one observable step of the engine.
//
// Phase, Score, HighScore and SequenceLen describe the engine after the step.
type Event struct {
	Seq         int64     `json:"seq"`
	Kind        EventKind `json:"kind"`
	SessionID   string    `json:"session_id,omitempty"`
	Phase       Phase     `json:"phase"`
	From        Phase     `json:"from,omitempty"`
	Signal      Signal    `json:"signal,omitempty"`
	Expected    Signal    `json:"expected,omitempty"`
	Index       int       `json:"index"`
	Score       int       `json:"score"`
	HighScore   int       `json:"high_score"`
	SequenceLen int       `json:"sequence_len"`
}

// Observer receives every event synchronously on the engine's writer.
// Observers must not call back into the engine.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event)

// Observe calls f.
func (f ObserverFunc) Observe(ev Event) {
	f(ev)
}
