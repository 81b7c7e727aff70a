package engine

import "strings"

// Phase is the discrete state of a game.
type Phase uint8

const (
	// Idle waits for Start. It is the initial phase and the phase after Reset.
	Idle Phase = iota
	// Showing plays the sequence back. Input is ignored.
	Showing
	// AwaitingInput accepts one Submit per expected signal.
	AwaitingInput
	// LevelComplete is passed through when the player repeats the whole
	// sequence, between the score increment and the next playback.
	LevelComplete
	// GameOver follows a mismatch. Only Start and Reset leave it.
	GameOver
)

var phaseNames = [...]string{
	Idle:          "Idle",
	Showing:       "Showing",
	AwaitingInput: "AwaitingInput",
	LevelComplete: "LevelComplete",
	GameOver:      "GameOver",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Phase(?)"
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name accepted by ParsePhase.
func (p *Phase) UnmarshalText(text []byte) error {
	v, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePhase parses a phase name, ignoring case.
func ParsePhase(name string) (Phase, error) {
	for i, n := range phaseNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Phase(i), nil
		}
	}
	return Idle, &ParseError{Kind: "phase", Value: name}
}
