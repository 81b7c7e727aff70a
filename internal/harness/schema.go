package harness

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// scenarioSchema describes a scenario document before it is decoded.
const scenarioSchema = `
#Signal: =~"^(?i)(red|blue|green|yellow|r|b|g|y)$"
#Input:  #Signal | =~"^(?i)none$"

#Duration: =~"^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$"

#Phase: "Idle" | "Showing" | "AwaitingInput" | "LevelComplete" | "GameOver"

#EventKind: "started" | "appended" | "phase_changed" | "pulse_on" | "pulse_off" |
	"matched" | "mismatch" | "high_score" | "reset" | "ignored"

#Count: int & >=0

#Bare: null | close({})

#Expect: close({
	phase?:        #Phase
	score?:        #Count
	high_score?:   #Count
	sequence_len?: #Count
	progress?:     #Count
	lit?:          #Input
	status?:       string
})

#Step: "start" | "reset" | "settle" |
	close({start: #Bare}) |
	close({reset: #Bare}) |
	close({settle: #Bare}) |
	close({submit: #Input}) |
	close({advance: #Duration}) |
	close({expect: #Expect})

#Assertion: close({type: "trace_contains", event: #EventKind, signal?: #Input}) |
	close({type: "trace_count", event: #EventKind, count: #Count}) |
	close({type: "trace_order", events: [#EventKind, #EventKind, ...#EventKind]}) |
	close({type: "summary", expect: close({
		[=~"^(events|score|high_score|sequence_len|pulses|matched|mismatches|ignored)$"]: #Count
	})})

#Scenario: close({
	name:        =~"^[a-z0-9][a-z0-9_-]*$"
	description: string & !=""
	generator: [#Signal, ...#Signal]
	steps: [#Step, ...#Step]
	assertions?: [...#Assertion]
})
`

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error

	// cue values built from one context are not safe for concurrent use
	schemaMu sync.Mutex
)

func loadSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(scenarioSchema, cue.Filename("scenario.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#Scenario"))
		if err := schemaDef.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Scenario: %w", err)
		}
	})
	return schemaCtx, schemaDef, schemaErr
}

// SchemaError reports a document that does not match the scenario schema.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("scenario schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValidateDocument checks a generically decoded YAML document against the
// scenario schema.
func ValidateDocument(doc any) error {
	ctx, def, err := loadSchema()
	if err != nil {
		return err
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	v := ctx.Encode(doc)
	if err := v.Err(); err != nil {
		return &SchemaError{Err: err}
	}

	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}
