package cli

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tracespy/internal/event"
)

// eventSpec is one recorded event in a stream file.
//
// frameless models native contexts: the built event carries no frame at
// all, so argument/local extraction against it fails the way a live
// c_call would.
type eventSpec struct {
	Kind      string        `yaml:"kind"`
	Method    string        `yaml:"method"`
	Owner     string        `yaml:"owner"`
	Params    []string      `yaml:"params"`
	Bindings  []bindingSpec `yaml:"bindings"`
	Value     any           `yaml:"value"`
	Error     string        `yaml:"error"`
	Frameless bool          `yaml:"frameless"`
}

// bindingSpec is an explicit name/value pair. A YAML sequence rather than
// a mapping, because binding order is part of the recorded stream.
type bindingSpec struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

// LoadEvents reads a recorded event stream file: a YAML sequence of
// event specs, in chronological order.
func LoadEvents(path string) ([]*event.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event stream: %w", err)
	}

	var specs []eventSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse event stream: %w", err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("event stream %s is empty", path)
	}

	events := make([]*event.Event, len(specs))
	for i, spec := range specs {
		ev, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events[i] = ev
	}
	return events, nil
}

func (s eventSpec) build() (*event.Event, error) {
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
