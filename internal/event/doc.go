// Package event defines the normalized runtime event model.
//
// An Event is the unit of work for the whole instrumentation pipeline:
// the source adapter converts each raw runtime notification into exactly
// one Event, the filter decides whether it concerns the watched target,
// and the dispatcher routes it to matchers by category.
//
// LIFECYCLE:
//
// Events are created fresh by a source adapter for every raw notification,
// treated as read-only from that point on, and discarded once the dispatch
// cycle for them completes. The only sanctioned alias that outlives the
// handler call is the dispatcher's transient current-event slot, which is
// cleared before the handler returns.
//
// The Frame carried by an Event is a capability handle into the execution
// context that produced the event. It is valid only for the synchronous
// duration of the delivery callback; retaining a Frame past that point is
// a contract violation by the consumer, not something this package checks.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// All events are stamped with a monotonic seq counter from Clock.Next().
// Seq establishes true chronological execution order without wall-clock
// race conditions; adapters must stamp events in delivery order.
package event
