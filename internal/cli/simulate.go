package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/arcade/internal/harness"
)

// Simulation is the output of the simulate command.
type Simulation struct {
	Name   string          `json:"name"`
	Result *harness.Result `json:"result"`
}

func (s Simulation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario: %s\n\n", s.Name)
	b.WriteString(s.Result.FormatTimeline())

	f := s.Result.Final
	fmt.Fprintf(&b, "\nFinal: %s, score %d, high score %d, sequence %d\n",
		f.Phase, f.Score, f.HighScore, f.SequenceLen)

	if s.Result.Pass {
		b.WriteString("✓ PASS")
		return b.String()
	}
	b.WriteString("✗ FAIL")
	for _, e := range s.Result.Errors {
		fmt.Fprintf(&b, "\n  %s", e)
	}
	return b.String()
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Run one scenario on virtual time and print its timeline",
		Long: `Run a scenario file against the engine on a virtual clock.

Prints every step and engine event with its virtual time in milliseconds,
then the final state and any failed expectations.

Exit codes:
  0 - Scenario passed
  1 - Scenario failed
  2 - Command error (file not found, invalid scenario)

Examples:
  arcade simulate scenarios/level_up.yaml
  arcade simulate scenarios/game_over.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(rootOpts, args[0], cmd)
		},
	}
}

func runSimulate(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = out.Error(ErrCodeNotFound, fmt.Sprintf("scenario file not found: %s", path), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("scenario file not found: %s", path))
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = out.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	result, err := harness.Run(scenario, harness.WithLogger(opts.logger()))
	if err != nil {
		_ = out.Error(ErrCodeExecution, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	sim := Simulation{Name: scenario.Name, Result: result}
	if !result.Pass {
		if err := out.Failure(ErrCodeTestFailed, "scenario failed", sim); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}
	return out.Success(sim)
}
