package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/roach88/arcade/internal/engine"
	"github.com/roach88/arcade/internal/store"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Seed uint64 // overrides ARCADE_SEED when non-zero

	// IDs overrides the session ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs engine.IDGenerator
}

const playHelp = `Keys: r g b y submit a signal, s start, x reset, q quit. Press Enter to send.`

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the game in the terminal",
		Long: `Play the sequence game on real time.

Type keys and press Enter; several keys on one line are sent in order.
  r g b y   submit red, green, blue or yellow
  s         start a new game
  x         reset to idle
  q         quit and print the session summary

The session journal is kept in memory and discarded on exit.

Example:
  arcade play
  ARCADE_SEED=7 arcade play --log-format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for reproducible sequences (0 uses ARCADE_SEED or random)")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	logger := opts.logger()
	w := &syncWriter{w: cmd.OutOrStdout()}

	cfg := opts.Config
	if opts.Seed != 0 {
		cfg.Seed = opts.Seed
	}

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open session journal", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing journal", "error", closeErr)
		}
	}()
	rec := store.NewRecorder(st, logger)

	jsonOut := opts.Format == "json"
	loopOpts := []engine.Option{
		engine.WithGenerator(cfg.Generator()),
		engine.WithObserver(rec),
		engine.WithLogger(logger),
	}
	if !jsonOut {
		// JSON output carries snapshots only.
		loopOpts = append(loopOpts, engine.WithEmitter(toneEmitter{w: w}))
	}
	if opts.IDs != nil {
		loopOpts = append(loopOpts, engine.WithIDGenerator(opts.IDs))
	}
	loop := engine.NewLoop(loopOpts...)

	// Setup signal handling for graceful shutdown
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	runErr := make(chan error, 1)
	go func() { runErr <- loop.Run(ctx) }()

	r := &renderer{w: w, json: jsonOut}
	renderDone := make(chan struct{})
	go func() {
		defer close(renderDone)
		r.follow(ctx, loop.Updates())
	}()

	if !jsonOut {
		fmt.Fprintln(w, playHelp)
	}
	readKeys(ctx, cmd.InOrStdin(), loop, w)

	loop.Stop()
	err = <-runErr
	cancel()
	<-renderDone
	r.render(loop.Snapshot())

	if err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "engine error", err)
	}

	return printSessionSummary(ctx, opts.RootOptions, st, cmd.OutOrStdout(), rec.Failures())
}

// readKeys feeds input to the loop until q, EOF, or ctx is done.
func readKeys(ctx context.Context, in io.Reader, loop *engine.Loop, w io.Writer) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := handleLine(line, loop, w); quit {
				return
			}
		}
	}
}

// handleLine applies each key on the line in order. Returns true on q.
func handleLine(line string, loop *engine.Loop, w io.Writer) bool {
	for _, key := range strings.ToLower(line) {
		var err error
		switch {
		case unicode.IsSpace(key):
			continue
		case key == 'q':
			return true
		case key == 's':
			err = loop.Start()
		case key == 'x':
			err = loop.Reset()
		default:
			sig, perr := engine.ParseSignal(string(key))
			if perr != nil || !sig.Valid() {
				fmt.Fprintf(w, "unknown key %q. %s\n", key, playHelp)
				continue
			}
			err = loop.Submit(sig)
		}
		if err != nil {
			return true
		}
	}
	return false
}

// printSessionSummary reports the last session from the journal.
func printSessionSummary(ctx context.Context, opts *RootOptions, st *store.Store, w io.Writer, failures int64) error {
	out := &OutputFormatter{Format: opts.Format, Writer: w, Verbose: opts.Verbose}
	ctx = context.WithoutCancel(ctx)

	latest, err := st.LatestSession(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		if opts.Format != "json" {
			fmt.Fprintln(w, "No game played.")
			return nil
		}
		return out.Success(nil)
	}
	if err != nil {
		_ = out.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to read session journal", err)
	}

	sum, err := st.Summarize(ctx, latest.ID)
	if err != nil {
		_ = out.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to summarize session", err)
	}
	if failures > 0 {
		opts.logger().Warn("journal is incomplete", "failed_writes", failures)
	}
	return out.Success(sessionSummary(sum))
}

// sessionSummary prints a store.Summary for people.
type sessionSummary store.Summary

func (s sessionSummary) String() string {
	outcome := "in progress"
	if store.Summary(s).GameOver() {
		outcome = "game over"
	}
	return fmt.Sprintf("Session %s (%s): score %d, high score %d, longest sequence %d, %d correct, %d ignored",
		s.SessionID, outcome, s.Score, s.HighScore, s.SequenceLen, s.Matched, s.Ignored)
}

// MarshalJSON keeps the store field names.
func (s sessionSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(store.Summary(s))
}

// renderer prints snapshots as they change.
type renderer struct {
	w    io.Writer
	json bool

	mu   sync.Mutex
	last *engine.Snapshot
}

func (r *renderer) follow(ctx context.Context, updates <-chan engine.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-updates:
			r.render(snap)
		}
	}
}

// render prints snap unless it equals the last snapshot printed.
func (r *renderer) render(snap engine.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last != nil && *r.last == snap {
		return
	}
	r.last = &snap

	if r.json {
		_ = json.NewEncoder(r.w).Encode(snap)
		return
	}
	fmt.Fprintln(r.w, formatSnapshot(snap))
}

func formatSnapshot(s engine.Snapshot) string {
	lit := "-"
	if s.Lit.Valid() {
		lit = strings.ToUpper(s.Lit.String())
	}
	line := fmt.Sprintf("[%-13s] %-32s lit %-6s level %d  score %d  high %d",
		s.Phase, s.Status, lit, s.SequenceLen, s.Score, s.HighScore)
	if s.AcceptsInput() {
		line += fmt.Sprintf("  %d/%d", s.Progress, s.SequenceLen)
	}
	return line
}

// toneEmitter prints each emitted signal with its tone.
type toneEmitter struct {
	w io.Writer
}

func (t toneEmitter) Emit(s engine.Signal) {
	fmt.Fprintf(t.w, "♪ %s %.0f Hz\n", s.Label(), s.Frequency())
}

// syncWriter serializes writes from the loop, renderer and input goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
