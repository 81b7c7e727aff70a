package harness

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/arcade/internal/engine"
	"github.com/roach88/arcade/internal/store"
)

// TimelineEntry is one line of a run's timeline: either a step the harness
// performed or an event the engine recorded.
type TimelineEntry struct {
	At    time.Duration `json:"at"`
	Step  string        `json:"step,omitempty"`
	Event *engine.Event `json:"event,omitempty"`
}

// String renders the entry as "@<ms> <text>". Steps are prefixed with "> ".
func (e TimelineEntry) String() string {
	ms := e.At.Milliseconds()
	if e.Event == nil {
		return fmt.Sprintf("@%d > %s", ms, e.Step)
	}
	return fmt.Sprintf("@%d %s", ms, describeEvent(*e.Event))
}

func describeEvent(ev engine.Event) string {
	switch ev.Kind {
	case engine.EventStarted:
		return fmt.Sprintf("started session=%s", ev.SessionID)
	case engine.EventAppended:
		return fmt.Sprintf("appended %s index=%d len=%d", ev.Signal, ev.Index, ev.SequenceLen)
	case engine.EventPhaseChanged:
		return fmt.Sprintf("phase %s -> %s", ev.From, ev.Phase)
	case engine.EventPulseOn, engine.EventPulseOff, engine.EventMatched:
		return fmt.Sprintf("%s %s index=%d", ev.Kind, ev.Signal, ev.Index)
	case engine.EventMismatch:
		return fmt.Sprintf("mismatch %s expected=%s index=%d", ev.Signal, ev.Expected, ev.Index)
	case engine.EventHighScore:
		return fmt.Sprintf("high_score %d", ev.HighScore)
	case engine.EventIgnored:
		return fmt.Sprintf("ignored %s phase=%s", ev.Signal, ev.Phase)
	default:
		return ev.Kind.String()
	}
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every engine event in order.
	Trace []engine.Event `json:"trace"`

	// Timeline interleaves steps and events with their virtual times.
	Timeline []TimelineEntry `json:"timeline"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the engine snapshot after the last step.
	Final engine.Snapshot `json:"final"`

	// Summary is the journal summary of the last session, if any was started.
	Summary *store.Summary `json:"summary,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []engine.Event{},
		Timeline: []TimelineEntry{},
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addStep(at time.Duration, step string) {
	r.Timeline = append(r.Timeline, TimelineEntry{At: at, Step: step})
}

func (r *Result) addEvent(at time.Duration, ev engine.Event) {
	r.Trace = append(r.Trace, ev)
	r.Timeline = append(r.Timeline, TimelineEntry{At: at, Event: &ev})
}

// FormatTimeline renders the timeline one entry per line.
func (r *Result) FormatTimeline() string {
	var b strings.Builder
	for _, e := range r.Timeline {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
