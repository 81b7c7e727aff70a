package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/arcade/internal/engine"
)

// Tone describes one playable signal.
type Tone struct {
	Signal    engine.Signal `json:"signal"`
	Label     string        `json:"label"`
	Key       string        `json:"key"`
	Frequency float64       `json:"frequency_hz"`
}

// ToneTable lists every playable signal.
type ToneTable []Tone

func (t ToneTable) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-4s %s", "SIGNAL", "KEY", "TONE")
	for _, tone := range t {
		fmt.Fprintf(&b, "\n%-8s %-4s %.0f Hz", tone.Label, tone.Key, tone.Frequency)
	}
	return b.String()
}

// Tones builds the table in signal order.
func Tones() ToneTable {
	table := make(ToneTable, 0, len(engine.Signals))
	for _, s := range engine.Signals {
		table = append(table, Tone{
			Signal:    s,
			Label:     s.Label(),
			Key:       s.String()[:1],
			Frequency: s.Frequency(),
		})
	}
	return table
}

// NewTonesCommand creates the tones command.
func NewTonesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tones",
		Short: "List signals with their keys and tones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(Tones())
		},
	}
}
