package spy

import (
	"errors"
	"fmt"

	"github.com/roach88/tracespy/internal/event"
)

// ExtractionError reports that context resolution failed for a given
// category/event combination, e.g. a native-call frame lacking inspectable
// bindings.
//
// Policy: caught at the dispatcher boundary. The failing event's matchers
// for that category are skipped, the failure is reported to the injected
// observer, and dispatch continues with the next event. Never surfaced to
// the instrumented program.
type ExtractionError struct {
	// Category is the dispatch category being extracted.
	Category Category

	// Method is the watched routine's symbolic name from the event.
	Method string

	// Kind is the event kind extraction ran against.
	Kind event.Kind

	// Name is the binding that failed to resolve; empty for frame-level
	// failures (nil frame).
	Name string

	// Err is the underlying cause, when one exists.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("extract %s from %s event for %q: cannot resolve %q", e.Category, e.Kind, e.Method, e.Name)
	}
	if e.Err != nil {
		return fmt.Sprintf("extract %s from %s event for %q: %v", e.Category, e.Kind, e.Method, e.Err)
	}
	return fmt.Sprintf("extract %s from %s event for %q: no inspectable frame", e.Category, e.Kind, e.Method)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ExtractionError) Unwrap() error { return e.Err }

// IsExtractionError returns true if the error is an extraction failure.
// Uses errors.As to handle wrapped errors.
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}

// MatcherPhase identifies which half of a matcher failed.
type MatcherPhase string

const (
	PhasePredicate MatcherPhase = "predicate"
	PhaseCallback  MatcherPhase = "callback"
)

// MatcherEvaluationError reports that a registered matcher's predicate or
// callback failed during evaluation, by returning a panic that the
// dispatcher recovered.
//
// Policy: caught per matcher invocation and reported to the injected
// observer. Does not abort remaining matchers or future events.
type MatcherEvaluationError struct {
	// Category is the matcher's registered category.
	Category Category

	// Index is the matcher's registration-order position.
	Index int

	// Phase says whether the predicate or the callback failed.
	Phase MatcherPhase

	// Err is the recovered failure.
	Err error
}

// Error implements the error interface.
func (e *MatcherEvaluationError) Error() string {
	return fmt.Sprintf("%s matcher %d: %s failed: %v", e.Category, e.Index, e.Phase, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *MatcherEvaluationError) Unwrap() error { return e.Err }

// IsMatcherEvaluationError returns true if the error is a matcher
// evaluation failure. Uses errors.As to handle wrapped errors.
func IsMatcherEvaluationError(err error) bool {
	var me *MatcherEvaluationError
	return errors.As(err, &me)
}

// AlreadyArmedError is returned by Enable when the handle is already
// Armed or Dispatching.
//
// Policy: surfaced to the caller and not auto-recovered - silently
// re-arming would leak the stale subscription.
type AlreadyArmedError struct {
	// State is the dispatcher state at the time of the rejected Enable.
	State State
}

// Error implements the error interface.
func (e *AlreadyArmedError) Error() string {
	return fmt.Sprintf("spy already enabled (state=%s)", e.State)
}

// IsAlreadyArmedError returns true if the error is a double-enable.
// Uses errors.As to handle wrapped errors.
func IsAlreadyArmedError(err error) bool {
	var ae *AlreadyArmedError
	return errors.As(err, &ae)
}

// recoveredError normalizes a recovered panic value into an error.
func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
