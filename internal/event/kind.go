package event

import "fmt"

// Kind identifies the fine-grained runtime occurrence an Event reports.
//
// Kinds mirror the granularity of the underlying emission mechanisms:
// coarse sources distinguish managed calls from calls into native/opaque
// routines (Call vs CCall, Return vs CReturn), while line-step sources
// emit Line. Raise is emitted at the point an error is raised, before any
// unwinding completes.
type Kind int

const (
	// KindCall is entry into a managed routine with an inspectable frame.
	KindCall Kind = iota + 1
	// KindCCall is entry into a native/built-in routine. Native frames
	// usually lack inspectable bindings, so argument extraction for a
	// CCall is expected to fail and is suppressed downstream.
	KindCCall
	// KindReturn is exit from a managed routine, carrying the return value.
	KindReturn
	// KindCReturn is exit from a native/built-in routine.
	KindCReturn
	// KindRaise is an error being raised inside the observed routine.
	KindRaise
	// KindLine is a line-step notification with current local bindings.
	KindLine
)

// String returns the wire name of the kind, matching the naming used by
// coarse event sources (call/c_call/return/c_return/raise/line).
func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindCCall:
		return "c_call"
	case KindReturn:
		return "return"
	case KindCReturn:
		return "c_return"
	case KindRaise:
		return "raise"
	case KindLine:
		return "line"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Class is the coarse grouping of kinds used for category routing.
//
// c_call folds into ClassCall and c_return into ClassReturn: the dispatch
// semantics are identical, only the reliability of frame inspection differs.
type Class int

const (
	ClassCall Class = iota + 1
	ClassReturn
	ClassRaise
	ClassLine
)

// String returns a human-readable class name.
func (c Class) String() string {
	switch c {
	case ClassCall:
		return "call"
	case ClassReturn:
		return "return"
	case ClassRaise:
		return "raise"
	case ClassLine:
		return "line"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Class maps the kind to its coarse class. The mapping is total: every
// valid kind belongs to exactly one class. An out-of-range kind indicates
// a corrupted event and panics loudly rather than being routed anywhere.
func (k Kind) Class() Class {
	switch k {
	case KindCall, KindCCall:
		return ClassCall
	case KindReturn, KindCReturn:
		return ClassReturn
	case KindRaise:
		return ClassRaise
	case KindLine:
		return ClassLine
	default:
		panic(fmt.Sprintf("event: invalid kind %d", int(k)))
	}
}

// KindFromString parses a wire kind name. Returns an error for unknown
// names so config/replay loaders can reject bad input up front.
func KindFromString(s string) (Kind, error) {
	switch s {
	case "call":
		return KindCall, nil
	case "c_call":
		return KindCCall, nil
	case "return":
		return KindReturn, nil
	case "c_return":
		return KindCReturn, nil
	case "raise":
		return KindRaise, nil
	case "line":
		return KindLine, nil
	default:
		return 0, fmt.Errorf("unknown event kind %q", s)
	}
}
