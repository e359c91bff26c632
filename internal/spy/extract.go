package spy

import (
	"fmt"

	"github.com/roach88/tracespy/internal/event"
)

// The four category extractors. Each is pure: given an admitted event it
// returns the category payload or an *ExtractionError, touching nothing
// else.
//
// Kind checking is two-layered. The exported extractors assert the
// event class they are documented for and panic on a mismatch: they are
// only ever reached through the dispatcher's total class->category
// routing, so a wrong-kind call is an internal routing bug and aborts
// loudly rather than being reported as recoverable. The unexported
// frame-resolution helpers carry no kind assertion; the introspection
// accessors use them cross-kind (the one sanctioned use, see
// Dispatcher.CurrentArguments and Dispatcher.CurrentLocalVariables).

// ExtractArguments resolves the target's formal parameters, in declaration
// order, against a Call-class event's frame.
//
// Fails with *ExtractionError when the frame is missing or a parameter
// name cannot be resolved - expected for calls into native/built-in
// routines (c_call), whose contexts lack inspectable bindings.
func ExtractArguments(ev *event.Event) (Bindings, error) {
	mustClass(ev, event.ClassCall, CategoryArguments)
	return argumentBindings(ev)
}

// ExtractLocals enumerates all currently-bound locals of a Line-class
// event's frame, in the enumeration order the context provides.
func ExtractLocals(ev *event.Event) (Bindings, error) {
	mustClass(ev, event.ClassLine, CategoryLocals)
	return localBindings(ev)
}

// ExtractReturn returns a Return-class event's carried value directly;
// no context resolution is needed.
func ExtractReturn(ev *event.Event) (any, error) {
	mustClass(ev, event.ClassReturn, CategoryReturn)
	return ev.ReturnValue, nil
}

// ExtractException returns a Raise event's carried error directly.
func ExtractException(ev *event.Event) (error, error) {
	mustClass(ev, event.ClassRaise, CategoryException)
	return ev.Raised, nil
}

func argumentBindings(ev *event.Event) (Bindings, error) {
	if ev.Frame == nil {
		return nil, &ExtractionError{Category: CategoryArguments, Method: ev.Method, Kind: ev.Kind}
	}
	params := ev.Frame.Params()
	out := make(Bindings, 0, len(params))
	for _, name := range params {
		value, ok := ev.Frame.Lookup(name)
		if !ok {
			return nil, &ExtractionError{Category: CategoryArguments, Method: ev.Method, Kind: ev.Kind, Name: name}
		}
		out = append(out, Binding{Name: name, Value: value})
	}
	return out, nil
}

func localBindings(ev *event.Event) (Bindings, error) {
	if ev.Frame == nil {
		return nil, &ExtractionError{Category: CategoryLocals, Method: ev.Method, Kind: ev.Kind}
	}
	names := ev.Frame.Names()
	out := make(Bindings, 0, len(names))
	for _, name := range names {
		value, ok := ev.Frame.Lookup(name)
		if !ok {
			// The frame enumerated a name it cannot resolve; treat as a
			// recoverable context failure like any other.
			return nil, &ExtractionError{Category: CategoryLocals, Method: ev.Method, Kind: ev.Kind, Name: name}
		}
		out = append(out, Binding{Name: name, Value: value})
	}
	return out, nil
}

func mustClass(ev *event.Event, want event.Class, cat Category) {
	if got := ev.Kind.Class(); got != want {
		panic(fmt.Sprintf("spy: %s extractor invoked on %s event - category routing bug", cat, ev.Kind))
	}
}
