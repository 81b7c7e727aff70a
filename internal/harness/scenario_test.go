package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
generator: [red, B]
steps:
  - start
  - reset: {}
  - settle:
  - advance: 1s400ms
  - submit: green
  - expect: {phase: AwaitingInput, score: 0, lit: none}
assertions:
  - type: trace_count
    event: pulse_on
    count: 0
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, []string{"red", "B"}, scenario.Generator)
	require.Len(t, scenario.Steps, 6)

	assert.Equal(t, StepStart, scenario.Steps[0].Kind)
	assert.Equal(t, StepReset, scenario.Steps[1].Kind)
	assert.Equal(t, StepSettle, scenario.Steps[2].Kind)
	assert.Equal(t, StepAdvance, scenario.Steps[3].Kind)
	assert.Equal(t, 1400*time.Millisecond, scenario.Steps[3].Advance)
	assert.Equal(t, StepSubmit, scenario.Steps[4].Kind)
	assert.Equal(t, "green", scenario.Steps[4].Signal)

	exp := scenario.Steps[5].Expect
	require.NotNil(t, exp)
	assert.Equal(t, "AwaitingInput", *exp.Phase)
	assert.Equal(t, 0, *exp.Score)
	assert.Equal(t, "none", *exp.Lit)
	assert.Nil(t, exp.HighScore)
	assert.Equal(t, 11, scenario.Steps[5].Line)

	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertTraceCount, scenario.Assertions[0].Type)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	path := writeScenario(t, "name: [unclosed\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", `
description: d
generator: [red]
steps: [start]
`},
		{"missing description", `
name: x
generator: [red]
steps: [start]
`},
		{"empty generator", `
name: x
description: d
generator: []
steps: [start]
`},
		{"none in generator", `
name: x
description: d
generator: [none]
steps: [start]
`},
		{"unknown top-level field", `
name: x
description: d
generator: [red]
steps: [start]
assertion: []
`},
		{"unknown step", `
name: x
description: d
generator: [red]
steps: [pause]
`},
		{"two keys in one step", `
name: x
description: d
generator: [red]
steps:
  - {submit: red, advance: 1s}
`},
		{"bad signal", `
name: x
description: d
generator: [red]
steps:
  - submit: purple
`},
		{"bad duration", `
name: x
description: d
generator: [red]
steps:
  - advance: soon
`},
		{"unknown expect field", `
name: x
description: d
generator: [red]
steps:
  - expect: {phase: Idle, level: 2}
`},
		{"unknown phase", `
name: x
description: d
generator: [red]
steps:
  - expect: {phase: Paused}
`},
		{"trace_count without count", `
name: x
description: d
generator: [red]
steps: [start]
assertions:
  - type: trace_count
    event: pulse_on
`},
		{"unknown event kind", `
name: x
description: d
generator: [red]
steps: [start]
assertions:
  - type: trace_contains
    event: exploded
`},
		{"unknown summary field", `
name: x
description: d
generator: [red]
steps: [start]
assertions:
  - type: summary
    expect: {level: 1}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestValidateScenario_GoBuilt(t *testing.T) {
	s := &Scenario{
		Name:        "built",
		Description: "built in Go",
		Generator:   []string{"red"},
		Steps:       []Step{{Kind: StepAdvance, Advance: 0}},
	}
	err := validateScenario(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "advance must be positive")

	s.Steps = []Step{{Kind: StepStart}}
	s.Assertions = []Assertion{{Type: AssertTraceOrder, Events: []string{"started"}}}
	err = validateScenario(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two events")
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "golden.yaml"), 0755))

	paths, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, paths)

	_, err = FindScenarios(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "start", Step{Kind: StepStart}.String())
	assert.Equal(t, "submit red", Step{Kind: StepSubmit, Signal: "red"}.String())
	assert.Equal(t, "advance 1.4s", Step{Kind: StepAdvance, Advance: 1400 * time.Millisecond}.String())
}
