package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tracespy/internal/config"
	"github.com/roach88/tracespy/internal/event"
)

// Scenario defines a conformance test scenario. A scenario arms a spy
// against a recorded event stream and asserts on the resulting firings.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name for snapshot comparison.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Target declares the watched method/owner pair.
	Target config.TargetConfig `yaml:"target"`

	// Rules declares the matchers to register before the stream runs.
	Rules []config.RuleConfig `yaml:"rules"`

	// Events is the recorded stream, in chronological order.
	Events []EventStep `yaml:"events"`

	// Assertions validate the firing trace.
	// Supported types: fired, fired_order, fired_count, diagnostic_count
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// EventStep is one recorded event in the scenario stream.
type EventStep struct {
	// Kind is the wire name: call, c_call, return, c_return, raise, line.
	Kind string `yaml:"kind"`

	// Method is the routine's symbolic name.
	Method string `yaml:"method"`

	// Owner is the receiver type name, if any.
	Owner string `yaml:"owner,omitempty"`

	// Params lists declared parameter names in declaration order.
	Params []string `yaml:"params,omitempty"`

	// Bindings lists name/value pairs visible in the frame. A sequence
	// rather than a mapping, because binding order is part of the stream.
	Bindings []BindingStep `yaml:"bindings,omitempty"`

	// Value is the return value for return/c_return events.
	Value any `yaml:"value,omitempty"`

	// Error is the raised error message for raise events.
	Error string `yaml:"error,omitempty"`

	// Frameless builds the event without a frame, the way a native call
	// context presents itself.
	Frameless bool `yaml:"frameless,omitempty"`
}

// BindingStep is an explicit name/value pair.
type BindingStep struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

// Assertion validates the firing trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "fired": Check the rule fired at least once
	// - "fired_order": Check rules fired in relative order
	// - "fired_count": Check the rule fired exactly Count times
	// - "diagnostic_count": Check exactly Count diagnostics were reported
	Type string `yaml:"type"`

	// Rule is the rule label (used by fired, fired_count).
	Rule string `yaml:"rule,omitempty"`

	// Rules is the expected firing order (used by fired_order).
	Rules []string `yaml:"rules,omitempty"`

	// Count is the expected occurrence count (used by fired_count and
	// diagnostic_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFired           = "fired"
	AssertFiredOrder      = "fired_order"
	AssertFiredCount      = "fired_count"
	AssertDiagnosticCount = "diagnostic_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if err := (&config.Plan{Target: s.Target, Rules: s.Rules}).Validate(); err != nil {
		return err
	}
	if len(s.Events) == 0 {
		return fmt.Errorf("events list is required and must be non-empty")
	}

	for i, step := range s.Events {
		if _, err := step.build(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := a.validate(); err != nil {
			return fmt.Errorf("assertion %d: %w", i, err)
		}
	}
	return nil
}

func (a Assertion) validate() error {
	switch a.Type {
	case AssertFired:
		if a.Rule == "" {
			return fmt.Errorf("fired requires rule")
		}
	case AssertFiredOrder:
		if len(a.Rules) < 2 {
			return fmt.Errorf("fired_order requires at least two rules")
		}
	case AssertFiredCount:
		if a.Rule == "" {
			return fmt.Errorf("fired_count requires rule")
		}
	case AssertDiagnosticCount:
		// Count zero is meaningful: no diagnostics expected.
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func (s EventStep) build() (*event.Event, error) {
	kind, err := event.KindFromString(s.Kind)
	if err != nil {
		return nil, err
	}
	if s.Method == "" {
		return nil, fmt.Errorf("event requires a method")
	}

	var frame event.Frame
	if !s.Frameless {
		mf := event.NewMapFrame().DeclareParams(s.Params...)
		for _, b := range s.Bindings {
			mf.Bind(b.Name, b.Value)
		}
		frame = mf
	}

	switch kind {
	case event.KindCall:
		return event.NewCall(s.Method, s.Owner, frame), nil
	case event.KindCCall:
		return event.NewCCall(s.Method, s.Owner, frame), nil
	case event.KindReturn:
		return event.NewReturn(s.Method, s.Owner, frame, s.Value), nil
	case event.KindCReturn:
		return event.NewCReturn(s.Method, s.Owner, frame, s.Value), nil
	case event.KindRaise:
		if s.Error == "" {
			return nil, fmt.Errorf("raise event requires an error message")
		}
		return event.NewRaise(s.Method, s.Owner, frame, errors.New(s.Error)), nil
	case event.KindLine:
		return event.NewLine(s.Method, s.Owner, frame), nil
	default:
		return nil, fmt.Errorf("unhandled kind %s", kind)
	}
}
