package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/arcade/internal/engine"
)

// Scenario is a scripted game.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Generator lists the signals the engine will draw, in order.
	Generator []string `yaml:"generator"`

	// Steps drive the engine.
	Steps []Step `yaml:"steps"`

	// Assertions are checked against the trace and journal after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step types.
const (
	StepStart   = "start"
	StepReset   = "reset"
	StepSubmit  = "submit"
	StepAdvance = "advance"
	StepSettle  = "settle"
	StepExpect  = "expect"
)

// Step is one scenario action. Exactly one of the kind-specific fields is
// set, according to Kind.
type Step struct {
	Kind    string
	Signal  string        // submit
	Advance time.Duration // advance
	Expect  *Expect       // expect

	// Line is the step's line in the scenario file, 0 if built in code.
	Line int
}

// String renders the step as it appears on a timeline.
func (s Step) String() string {
	switch s.Kind {
	case StepSubmit:
		return "submit " + s.Signal
	case StepAdvance:
		return "advance " + s.Advance.String()
	default:
		return s.Kind
	}
}

// Expect checks fields of the engine snapshot. Nil fields are not checked.
type Expect struct {
	Phase       *string `yaml:"phase,omitempty"`
	Score       *int    `yaml:"score,omitempty"`
	HighScore   *int    `yaml:"high_score,omitempty"`
	SequenceLen *int    `yaml:"sequence_len,omitempty"`
	Progress    *int    `yaml:"progress,omitempty"`
	Lit         *string `yaml:"lit,omitempty"`
	Status      *string `yaml:"status,omitempty"`
}

var expectFields = map[string]bool{
	"phase": true, "score": true, "high_score": true, "sequence_len": true,
	"progress": true, "lit": true, "status": true,
}

// UnmarshalYAML accepts a bare step name ("start") or a single-key mapping
// ("submit: red").
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	s.Line = node.Line

	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Value {
		case StepStart, StepReset, StepSettle:
			s.Kind = node.Value
			return nil
		}
		return fmt.Errorf("line %d: step %q needs a value or is unknown", node.Line, node.Value)

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: step must have exactly one key", node.Line)
		}
		key, val := node.Content[0].Value, node.Content[1]

		switch key {
		case StepStart, StepReset, StepSettle:
			if !isEmptyNode(val) {
				return fmt.Errorf("line %d: %s takes no value", node.Line, key)
			}
		case StepSubmit:
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: submit takes a signal name", node.Line)
			}
			s.Signal = val.Value
		case StepAdvance:
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: advance takes a duration", node.Line)
			}
			d, err := time.ParseDuration(val.Value)
			if err != nil {
				return fmt.Errorf("line %d: advance: %w", node.Line, err)
			}
			s.Advance = d
		case StepExpect:
			if val.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: expect takes a mapping", node.Line)
			}
			// node.Decode does not inherit KnownFields; check keys here.
			for i := 0; i < len(val.Content); i += 2 {
				if k := val.Content[i].Value; !expectFields[k] {
					return fmt.Errorf("line %d: expect: unknown field %q", val.Content[i].Line, k)
				}
			}
			var exp Expect
			if err := val.Decode(&exp); err != nil {
				return fmt.Errorf("line %d: expect: %w", node.Line, err)
			}
			s.Expect = &exp
		default:
			return fmt.Errorf("line %d: unknown step %q", node.Line, key)
		}
		s.Kind = key
		return nil
	}

	return fmt.Errorf("line %d: step must be a name or a mapping", node.Line)
}

func isEmptyNode(n *yaml.Node) bool {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Tag == "!!null"
	case yaml.MappingNode:
		return len(n.Content) == 0
	}
	return false
}

// Assertion validates the trace or the journal after a run.
type Assertion struct {
	// Type: trace_contains, trace_order, trace_count or summary.
	Type string `yaml:"type"`

	// Event is the event kind (trace_contains, trace_count).
	Event string `yaml:"event,omitempty"`

	// Signal narrows trace_contains to events carrying this signal.
	Signal string `yaml:"signal,omitempty"`

	// Count is the exact number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Events is the expected relative order of event kinds (trace_order).
	Events []string `yaml:"events,omitempty"`

	// Expect maps summary fields to expected values (summary).
	Expect map[string]int `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertSummary       = "summary"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, fails the
// schema, contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	// Strict decode catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files directly under dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// validateScenario checks the decoded scenario. It repeats the checks the
// schema makes so that scenarios built in Go get the same treatment.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Generator) == 0 {
		return fmt.Errorf("generator list is required and must be non-empty")
	}
	for i, name := range s.Generator {
		sig, err := engine.ParseSignal(name)
		if err != nil {
			return fmt.Errorf("generator[%d]: %w", i, err)
		}
		if !sig.Valid() {
			return fmt.Errorf("generator[%d]: %q cannot be played", i, name)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(i int, step Step) error {
	switch step.Kind {
	case StepStart, StepReset, StepSettle:
	case StepSubmit:
		if _, err := engine.ParseSignal(step.Signal); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	case StepAdvance:
		if step.Advance <= 0 {
			return fmt.Errorf("steps[%d]: advance must be positive, got %s", i, step.Advance)
		}
	case StepExpect:
		exp := step.Expect
		if exp == nil {
			return fmt.Errorf("steps[%d]: expect is empty", i)
		}
		if exp.Phase != nil {
			if _, err := engine.ParsePhase(*exp.Phase); err != nil {
				return fmt.Errorf("steps[%d].expect: %w", i, err)
			}
		}
		if exp.Lit != nil {
			if _, err := engine.ParseSignal(*exp.Lit); err != nil {
				return fmt.Errorf("steps[%d].expect: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("steps[%d]: unknown step %q", i, step.Kind)
	}
	return nil
}

func validateAssertion(i int, a *Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if _, err := engine.ParseEventKind(a.Event); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
		if a.Signal != "" {
			if _, err := engine.ParseSignal(a.Signal); err != nil {
				return fmt.Errorf("assertions[%d]: %w", i, err)
			}
		}
	case AssertTraceCount:
		if _, err := engine.ParseEventKind(a.Event); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must not be negative", i)
		}
	case AssertTraceOrder:
		if len(a.Events) < 2 {
			return fmt.Errorf("assertions[%d]: trace_order needs at least two events", i)
		}
		for _, name := range a.Events {
			if _, err := engine.ParseEventKind(name); err != nil {
				return fmt.Errorf("assertions[%d]: %w", i, err)
			}
		}
	case AssertSummary:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: summary needs expect fields", i)
		}
		for k := range a.Expect {
			if _, ok := summaryFields[k]; !ok {
				return fmt.Errorf("assertions[%d]: unknown summary field %q", i, k)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", i, a.Type)
	}
	return nil
}
