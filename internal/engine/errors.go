package engine

import (
	"errors"
	"fmt"
)

// ErrLoopClosed is returned by Loop commands after the loop has stopped.
var ErrLoopClosed = errors.New("engine loop closed")

// ParseError reports a name that does not denote a known value.
//
// The engine itself never returns errors from its commands: a command issued
// in a phase that forbids it is ignored, and a wrong signal ends the game.
// ParseError only surfaces where text enters the system (CLI input, scenario
// files, the journal).
type ParseError struct {
	// Kind is the value family, e.g. "signal" or "phase".
	Kind string

	// Value is the rejected input.
	Value string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Value)
}

// IsParseError returns true if err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
