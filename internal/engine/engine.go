package engine

import (
	"fmt"
	"io"
	"log/slog"
)

// Status lines shown alongside the board.
const (
	StatusIdle     = "Press Start to begin!"
	StatusWatch    = "Watch the sequence..."
	StatusYourTurn = "Your turn! Repeat the sequence."
	StatusGameOver = "Game Over! Wrong sequence."
)

// levelStatus is shown between a completed level and the next playback's
// first pulse.
func levelStatus(level int) string {
	return fmt.Sprintf("Great! Level %d", level)
}

// Engine is the sequence game state machine.
//
// Thread-safety model:
//   - Start, Submit, Reset, Snapshot: must be called from one goroutine, the
//     same one that runs Scheduler callbacks (see Loop)
//   - Observers and the Emitter are invoked synchronously on that goroutine
//
// INVARIANTS:
//   - game is nil until the first Start and after Reset
//   - game.progress <= len(game.sequence) and only moves in AwaitingInput
//   - at most one reveal timer is outstanding
//   - highScore never decreases
type Engine struct {
	sched  Scheduler
	gen    Generator
	ids    IDGenerator
	emit   Emitter
	obs    []Observer
	logger *slog.Logger
	clock  *Clock

	game      *session
	phase     Phase
	highScore int
	lit       Signal
	pulsing   bool // lit belongs to a playback pulse
	status    string

	reveal    Timer
	epoch     uint64
	echo      Timer
	echoEpoch uint64
}

// session is the per-playthrough record. Start replaces it wholesale.
type session struct {
	id       string
	sequence []Signal
	progress int
	score    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithGenerator sets the signal generator.
// Default: NewRandomGenerator().
func WithGenerator(g Generator) Option {
	return func(e *Engine) {
		e.gen = g
	}
}

// WithIDGenerator sets the session ID generator.
// Default: UUIDv7Generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(e *Engine) {
		e.ids = ids
	}
}

// WithEmitter sets the feedback emitter.
// Default: discards.
func WithEmitter(em Emitter) Option {
	return func(e *Engine) {
		e.emit = em
	}
}

// WithObserver adds an event observer. May be given more than once;
// observers run in the order they were added.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.obs = append(e.obs, o)
	}
}

// WithLogger sets the logger.
// Default: discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine in the Idle phase driven by sched.
func New(sched Scheduler, opts ...Option) *Engine {
	e := &Engine{
		sched:  sched,
		gen:    NewRandomGenerator(),
		ids:    UUIDv7Generator{},
		emit:   nopEmitter{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  NewClock(),
		phase:  Idle,
		status: StatusIdle,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start begins a new game from any phase.
//
// Any playback in progress is cancelled, the previous session record is
// discarded, and the first signal is drawn. High score is kept.
func (e *Engine) Start() {
	e.cancelTimers()

	e.game = &session{id: e.ids.Generate()}
	e.lit = None
	e.record(Event{Kind: EventStarted})
	e.logger.Debug("game started", "session", e.game.id, "high_score", e.highScore)

	e.appendSignal()
	e.beginPlayback(StatusWatch)
}

// Submit offers one player signal.
//
// Outside AwaitingInput, or for a signal that is not playable, the call is
// ignored: nothing about the game changes and nothing is queued.
func (e *Engine) Submit(s Signal) {
	if e.phase != AwaitingInput || !s.Valid() {
		e.logger.Debug("ignoring submit", "phase", e.phase, "signal", s)
		e.record(Event{Kind: EventIgnored, Signal: s})
		return
	}

	e.flash(s)

	g := e.game
	want := g.sequence[g.progress]
	if s != want {
		e.record(Event{Kind: EventMismatch, Signal: s, Expected: want, Index: g.progress})
		if g.score > e.highScore {
			e.highScore = g.score
			e.record(Event{Kind: EventHighScore})
		}
		e.status = StatusGameOver
		e.setPhase(GameOver)
		e.logger.Info("game over", "session", g.id, "score", g.score, "high_score", e.highScore)
		return
	}

	g.progress++
	e.record(Event{Kind: EventMatched, Signal: s, Index: g.progress - 1})
	if g.progress < len(g.sequence) {
		return
	}

	g.score++
	g.progress = 0
	e.setPhase(LevelComplete)
	e.appendSignal()
	e.beginPlayback(levelStatus(g.score + 1))
}

// Reset returns to Idle from any phase.
//
// Any playback in progress is cancelled and the session record is dropped.
// Only the high score survives.
func (e *Engine) Reset() {
	e.cancelTimers()

	e.record(Event{Kind: EventReset})
	e.game = nil
	e.lit = None
	e.status = StatusIdle
	e.setPhase(Idle)
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// HighScore returns the best score reached since the engine was created.
func (e *Engine) HighScore() int {
	return e.highScore
}

// Sequence returns a copy of the current sequence.
func (e *Engine) Sequence() []Signal {
	if e.game == nil {
		return nil
	}
	out := make([]Signal, len(e.game.sequence))
	copy(out, e.game.sequence)
	return out
}

// Snapshot returns the observable state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:     e.phase,
		HighScore: e.highScore,
		Lit:       e.lit,
		Status:    e.status,
	}
	if g := e.game; g != nil {
		snap.SessionID = g.id
		snap.SequenceLen = len(g.sequence)
		snap.Progress = g.progress
		snap.Score = g.score
	}
	return snap
}

// appendSignal draws the next signal onto the sequence.
func (e *Engine) appendSignal() {
	s := e.gen.Next()
	if !s.Valid() {
		panic(fmt.Sprintf("engine: generator returned unplayable signal %v", s))
	}
	e.game.sequence = append(e.game.sequence, s)
	e.record(Event{Kind: EventAppended, Signal: s, Index: len(e.game.sequence) - 1})
}

// setPhase moves to p and records the transition. A no-op if already in p.
func (e *Engine) setPhase(p Phase) {
	if e.phase == p {
		return
	}
	from := e.phase
	e.phase = p
	e.record(Event{Kind: EventPhaseChanged, From: from})
	e.logger.Debug("phase changed", "from", from, "to", p)
}

// record stamps ev with the current state and hands it to every observer.
func (e *Engine) record(ev Event) {
	ev.Seq = e.clock.Next()
	ev.Phase = e.phase
	ev.HighScore = e.highScore
	if g := e.game; g != nil {
		ev.SessionID = g.id
		ev.Score = g.score
		ev.SequenceLen = len(g.sequence)
	}
	for _, o := range e.obs {
		o.Observe(ev)
	}
}
