package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/arcade/internal/engine"
	"github.com/roach88/arcade/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string         // Assertion type for categorization
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	Trace    []engine.Event // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", ev.Seq, describeEvent(ev))
		}
	}

	return buf.String()
}

func evaluateAssertion(r *Result, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(r.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(r.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(r.Trace, a)
	case AssertSummary:
		return assertSummary(r.Summary, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertTraceContains checks for an event of the given kind, and with the
// given signal if one is set.
func assertTraceContains(trace []engine.Event, a Assertion) error {
	kind, _ := engine.ParseEventKind(a.Event)
	var want engine.Signal
	if a.Signal != "" {
		want, _ = engine.ParseSignal(a.Signal)
	}

	for _, ev := range trace {
		if ev.Kind == kind && (a.Signal == "" || ev.Signal == want) {
			return nil
		}
	}

	expected := a.Event
	if a.Signal != "" {
		expected += " " + want.String()
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the kinds occur as a subsequence of the
// trace. Intervening events are allowed.
func assertTraceOrder(trace []engine.Event, a Assertion) error {
	next := 0
	for _, ev := range trace {
		if next == len(a.Events) {
			break
		}
		if kind, _ := engine.ParseEventKind(a.Events[next]); ev.Kind == kind {
			next++
		}
	}
	if next == len(a.Events) {
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: strings.Join(a.Events, " -> "),
		Actual:   fmt.Sprintf("matched up to %s, %s not found after it", strings.Join(a.Events[:next], " -> "), a.Events[next]),
		Trace:    trace,
	}
}

func assertTraceCount(trace []engine.Event, a Assertion) error {
	kind, _ := engine.ParseEventKind(a.Event)
	n := 0
	for _, ev := range trace {
		if ev.Kind == kind {
			n++
		}
	}
	if n == a.Count {
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%s x%d", a.Event, a.Count),
		Actual:   fmt.Sprintf("%s x%d", a.Event, n),
		Trace:    trace,
	}
}

var summaryFields = map[string]func(store.Summary) int{
	"events":       func(s store.Summary) int { return s.Events },
	"score":        func(s store.Summary) int { return s.Score },
	"high_score":   func(s store.Summary) int { return s.HighScore },
	"sequence_len": func(s store.Summary) int { return s.SequenceLen },
	"pulses":       func(s store.Summary) int { return s.Pulses },
	"matched":      func(s store.Summary) int { return s.Matched },
	"mismatches":   func(s store.Summary) int { return s.Mismatches },
	"ignored":      func(s store.Summary) int { return s.Ignored },
}

// assertSummary compares journal totals for the last session.
func assertSummary(sum *store.Summary, a Assertion) error {
	if sum == nil {
		return &AssertionError{
			Type:     AssertSummary,
			Expected: "a journaled session",
			Actual:   "no session was started",
		}
	}

	keys := make([]string, 0, len(a.Expect))
	for k := range a.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var want, got []string
	for _, k := range keys {
		actual := summaryFields[k](*sum)
		if actual != a.Expect[k] {
			want = append(want, fmt.Sprintf("%s=%d", k, a.Expect[k]))
			got = append(got, fmt.Sprintf("%s=%d", k, actual))
		}
	}
	if len(want) == 0 {
		return nil
	}

	return &AssertionError{
		Type:     AssertSummary,
		Expected: strings.Join(want, " "),
		Actual:   strings.Join(got, " "),
	}
}
