package event

// Event is one normalized runtime notification.
//
// Fields are set once by the source adapter and never mutated afterwards.
// ReturnValue is meaningful only for Return-class kinds and Raised only for
// KindRaise; both are nil otherwise. Frame may be nil for contexts that
// expose no bindings (native calls) - extraction against a nil frame fails
// in a recoverable way at the dispatcher boundary.
type Event struct {
	// Kind is the fine-grained occurrence this event reports.
	Kind Kind

	// Method is the symbolic name of the invoked/observed routine.
	Method string

	// Owner identifies the type that owns the routine, when applicable.
	// Empty for free functions and sources that do not report ownership.
	Owner string

	// Frame is the execution-context handle, valid only for the
	// synchronous duration of the delivery callback.
	Frame Frame

	// ReturnValue carries the routine's return value for Return-class events.
	ReturnValue any

	// Raised carries the raised error for KindRaise events.
	Raised error

	// Seq is the logical-clock stamp assigned by the source adapter.
	// Seq values are strictly increasing in delivery order.
	Seq int64
}

// NewCall builds a managed-call event. frame should expose the routine's
// formal parameters; pass nil to model a context without bindings.
func NewCall(method, owner string, frame Frame) *Event {
	return &Event{Kind: KindCall, Method: method, Owner: owner, Frame: frame}
}

// NewCCall builds a native-call event. Native frames typically resolve no
// bindings, which downstream extraction treats as an expected failure.
func NewCCall(method, owner string, frame Frame) *Event {
	return &Event{Kind: KindCCall, Method: method, Owner: owner, Frame: frame}
}

// NewReturn builds a managed-return event carrying the return value.
func NewReturn(method, owner string, frame Frame, value any) *Event {
	return &Event{Kind: KindReturn, Method: method, Owner: owner, Frame: frame, ReturnValue: value}
}

// NewCReturn builds a native-return event carrying the return value.
func NewCReturn(method, owner string, frame Frame, value any) *Event {
	return &Event{Kind: KindCReturn, Method: method, Owner: owner, Frame: frame, ReturnValue: value}
}

// NewRaise builds a raise event carrying the raised error.
func NewRaise(method, owner string, frame Frame, raised error) *Event {
	return &Event{Kind: KindRaise, Method: method, Owner: owner, Frame: frame, Raised: raised}
}

// NewLine builds a line-step event. frame carries the currently-bound locals.
func NewLine(method, owner string, frame Frame) *Event {
	return &Event{Kind: KindLine, Method: method, Owner: owner, Frame: frame}
}
