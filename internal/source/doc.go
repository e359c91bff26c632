// Package source defines the event-source side of the pipeline: the
// EventSource contract the dispatcher subscribes to, plus the concrete
// adapters this repo ships.
//
// The native emission mechanism itself is an external collaborator; the
// contract it must honor is small and strict:
//   - events are delivered in true chronological execution order, stamped
//     with strictly increasing seq values
//   - the frame carried by an event is valid only for the synchronous
//     duration of the delivery callback
//   - delivery is synchronous: the instrumented code does not resume until
//     the callback returns
//
// Adapters:
//   - Emitter: the fan-out base. Stamps and delivers events to all
//     subscribers synchronously, in subscription order.
//   - Scripted: a deterministic pre-built stream, used by tests and the
//     replay command.
//   - Instrument/InstrumentFunc: wraps a Go function so that every
//     invocation emits call, return, and raise events through an Emitter.
//   - Probe: explicit line-event emission for code that wants to expose
//     its locals at chosen points.
package source
