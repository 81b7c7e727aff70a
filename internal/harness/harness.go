package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/arcade/internal/engine"
	"github.com/roach88/arcade/internal/store"
	"github.com/roach88/arcade/internal/testutil"
)

// settleLimit bounds the callbacks one settle step may run.
const settleLimit = 10000

// Harness executes one scenario.
type Harness struct {
	scenario *Scenario
	sched    *testutil.ManualScheduler
	engine   *engine.Engine
	store    *store.Store
	recorder *store.Recorder
	gen      *scriptedGenerator
	logger   *slog.Logger
	result   *Result
}

// Option configures a run.
type Option func(*Harness)

// WithLogger sets the logger handed to the engine and journal.
// Default: discards.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Each run gets a fresh virtual clock, engine and in-memory journal.
// Failed expectations and assertions are reported in Result.Errors; the
// returned error is reserved for infrastructure failures.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		scenario: scenario,
		sched:    testutil.NewManualScheduler(),
		store:    st,
		gen:      newScriptedGenerator(scenario.Generator),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		result:   NewResult(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.recorder = store.NewRecorder(st, h.logger)
	h.engine = engine.New(h.sched,
		engine.WithGenerator(h.gen),
		engine.WithIDGenerator(testutil.NewFixedIDGenerator("scenario")),
		engine.WithObserver(h.recorder),
		engine.WithObserver(engine.ObserverFunc(func(ev engine.Event) {
			h.result.addEvent(h.sched.Now(), ev)
		})),
		engine.WithLogger(h.logger),
	)

	for i, step := range scenario.Steps {
		h.executeStep(i, step)
	}

	if n := h.gen.overrun; n > 0 {
		h.result.AddError(fmt.Sprintf("generator: scenario drew %d more signal(s) than the %d scripted",
			n, len(scenario.Generator)))
	}
	if n := h.recorder.Failures(); n > 0 {
		return nil, fmt.Errorf("journal: %d event(s) could not be written", n)
	}

	h.result.Final = h.engine.Snapshot()
	if err := h.summarize(context.Background()); err != nil {
		return nil, err
	}

	for i, a := range scenario.Assertions {
		if err := evaluateAssertion(h.result, a); err != nil {
			h.result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return h.result, nil
}

func (h *Harness) executeStep(i int, step Step) {
	switch step.Kind {
	case StepStart:
		h.result.addStep(h.sched.Now(), step.String())
		h.engine.Start()
	case StepReset:
		h.result.addStep(h.sched.Now(), step.String())
		h.engine.Reset()
	case StepSubmit:
		h.result.addStep(h.sched.Now(), step.String())
		sig, _ := engine.ParseSignal(step.Signal) // validated
		h.engine.Submit(sig)
	case StepAdvance:
		h.sched.Advance(step.Advance)
	case StepSettle:
		if n := h.sched.Settle(settleLimit); n >= settleLimit {
			h.result.AddError(fmt.Sprintf("steps[%d]: settle: timers still pending after %d callbacks", i, n))
		}
	case StepExpect:
		for _, msg := range checkExpect(step.Expect, h.engine.Snapshot()) {
			h.result.AddError(fmt.Sprintf("%s: %s", stepLabel(i, step), msg))
		}
	}
}

func stepLabel(i int, step Step) string {
	if step.Line > 0 {
		return fmt.Sprintf("steps[%d] (line %d)", i, step.Line)
	}
	return fmt.Sprintf("steps[%d]", i)
}

// checkExpect returns one message per field that does not match snap.
func checkExpect(exp *Expect, snap engine.Snapshot) []string {
	var msgs []string
	mismatch := func(field string, want, got any) {
		msgs = append(msgs, fmt.Sprintf("expect %s: want %v, got %v", field, want, got))
	}

	if exp.Phase != nil {
		if p, _ := engine.ParsePhase(*exp.Phase); p != snap.Phase {
			mismatch("phase", p, snap.Phase)
		}
	}
	if exp.Score != nil && *exp.Score != snap.Score {
		mismatch("score", *exp.Score, snap.Score)
	}
	if exp.HighScore != nil && *exp.HighScore != snap.HighScore {
		mismatch("high_score", *exp.HighScore, snap.HighScore)
	}
	if exp.SequenceLen != nil && *exp.SequenceLen != snap.SequenceLen {
		mismatch("sequence_len", *exp.SequenceLen, snap.SequenceLen)
	}
	if exp.Progress != nil && *exp.Progress != snap.Progress {
		mismatch("progress", *exp.Progress, snap.Progress)
	}
	if exp.Lit != nil {
		if s, _ := engine.ParseSignal(*exp.Lit); s != snap.Lit {
			mismatch("lit", s, snap.Lit)
		}
	}
	if exp.Status != nil && *exp.Status != snap.Status {
		mismatch("status", fmt.Sprintf("%q", *exp.Status), fmt.Sprintf("%q", snap.Status))
	}
	return msgs
}

// summarize attaches the journal summary of the last session started.
func (h *Harness) summarize(ctx context.Context) error {
	latest, err := h.store.LatestSession(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}

	sum, err := h.store.Summarize(ctx, latest.ID)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	h.result.Summary = &sum
	return nil
}

// scriptedGenerator plays back the scenario's generator list. Running past
// the end wraps around and counts an overrun, so the run finishes and the
// scenario fails with a clear message.
type scriptedGenerator struct {
	signals []engine.Signal
	next    int
	overrun int
}

func newScriptedGenerator(names []string) *scriptedGenerator {
	g := &scriptedGenerator{}
	for _, name := range names {
		s, _ := engine.ParseSignal(name) // validated
		g.signals = append(g.signals, s)
	}
	return g
}

func (g *scriptedGenerator) Next() engine.Signal {
	if g.next >= len(g.signals) {
		g.overrun++
	}
	s := g.signals[g.next%len(g.signals)]
	g.next++
	return s
}
