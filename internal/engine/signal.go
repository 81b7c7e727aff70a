package engine

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Signal is one pad of the board. The zero value None means no signal and is
// never part of a sequence.
type Signal uint8

const (
	None Signal = iota
	Red
	Blue
	Green
	Yellow
)

// Signals lists every playable signal in board order.
var Signals = [...]Signal{Red, Blue, Green, Yellow}

var signalNames = [...]string{
	None:   "none",
	Red:    "red",
	Blue:   "blue",
	Green:  "green",
	Yellow: "yellow",
}

// Tone frequencies in Hz, one per pad.
var signalTones = [...]float64{
	Red:    220,
	Blue:   277,
	Green:  330,
	Yellow: 415,
}

// Valid reports whether s is one of the playable signals.
func (s Signal) Valid() bool {
	return s >= Red && s <= Yellow
}

func (s Signal) String() string {
	if int(s) < len(signalNames) {
		return signalNames[s]
	}
	return "signal(" + strconv.Itoa(int(s)) + ")"
}

// Label returns the display form of the signal, e.g. "Red".
func (s Signal) Label() string {
	return cases.Title(language.English).String(s.String())
}

// Frequency returns the tone frequency for s in Hz, or 0 for None.
func (s Signal) Frequency() float64 {
	if !s.Valid() {
		return 0
	}
	return signalTones[s]
}

// MarshalText encodes the signal by name.
func (s Signal) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a signal name accepted by ParseSignal.
func (s *Signal) UnmarshalText(text []byte) error {
	v, err := ParseSignal(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSignal parses a signal name. Matching is case-insensitive and the
// first letter alone is accepted ("r", "b", "g", "y"). "none" parses to None.
func ParseSignal(name string) (Signal, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range signalNames {
		if n == s {
			return Signal(i), nil
		}
	}
	if len(n) == 1 {
		for _, s := range Signals {
			if signalNames[s][0] == n[0] {
				return s, nil
			}
		}
	}
	return None, &ParseError{Kind: "signal", Value: name}
}
