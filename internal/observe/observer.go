// Package observe defines the injected diagnostic sink for the dispatch
// core. Matcher evaluation failures and expected extraction failures are
// never surfaced to the instrumented program; they are reported here
// instead, to whatever observer the embedding application wires in.
package observe

import "github.com/roach88/tracespy/internal/event"

// DiagnosticKind identifies what went wrong during a dispatch cycle.
type DiagnosticKind string

const (
	// KindExtractionFailed means payload extraction failed for the event's
	// category and its matchers were skipped. Expected for native frames.
	KindExtractionFailed DiagnosticKind = "extraction_failed"

	// KindMatcherFailed means one registered matcher's predicate or
	// callback failed; siblings and later events were unaffected.
	KindMatcherFailed DiagnosticKind = "matcher_failed"
)

// Diagnostic is one reported failure, with enough context to correlate it
// back to the event and matcher that produced it.
type Diagnostic struct {
	// Kind categorizes the failure.
	Kind DiagnosticKind

	// CycleToken identifies the dispatch cycle (UUIDv7 in production,
	// fixed sequence in tests).
	CycleToken string

	// Seq is the logical-clock stamp of the offending event.
	Seq int64

	// EventKind is the fine-grained kind of the offending event.
	EventKind event.Kind

	// Method is the watched routine's symbolic name from the event.
	Method string

	// Category names the dispatch category ("arguments", "locals",
	// "return", "exception").
	Category string

	// MatcherIndex is the registration-order index of the failing matcher.
	// -1 for failures not attributable to one matcher (extraction).
	MatcherIndex int

	// Err is the underlying failure.
	Err error
}

// Observer receives diagnostics from the dispatcher.
//
// Observers are called synchronously inside the dispatch cycle, so they
// must be fast and must not panic; a panicking observer is not isolated.
type Observer interface {
	OnDiagnostic(d Diagnostic)
}
