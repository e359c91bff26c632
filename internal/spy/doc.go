// Package spy implements the event interception and predicate-dispatch
// core: admission filtering, category routing, payload extraction, and
// matcher invocation with per-matcher failure isolation.
//
// ARCHITECTURE:
//
// Synchronous Dispatch:
// Events flow source adapter -> filter -> extractor -> matchers, entirely
// within the delivery callback. A dispatch cycle runs to completion before
// the instrumented code resumes; there is no queueing and no cancellation.
// A hung matcher callback therefore blocks the instrumented program
// indefinitely. That is an accepted limitation of the synchronous model,
// not something this package works around - production embedders should
// weigh it before registering slow callbacks.
//
// Dispatch Cycle:
// 1. Filter checks method name and owning type against the watch target
// 2. The event's kind maps to exactly one category
//    (call->arguments, line->locals, return->return, raise->exception)
// 3. The category's matchers are fetched; an empty list skips extraction
//    entirely, so unregistered categories incur no frame-resolution cost
// 4. The category payload is extracted from the event
// 5. Matchers run in registration order; each invocation is individually
//    isolated, so one broken matcher blocks neither its siblings nor
//    subsequent events
//
// INVARIANTS:
//   - The current-event slot is non-empty only during the synchronous
//     extent of one dispatch cycle; introspection outside a cycle observes
//     empty results, never stale data
//   - Matcher lists are append-only; registration order is invocation order
//   - Observation is read-only: the instrumented program's arguments,
//     return values, and raised errors are never altered
//   - No state is process-global; independent handles share nothing
package spy
