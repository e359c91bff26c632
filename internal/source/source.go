package source

import "github.com/roach88/tracespy/internal/event"

// Handler receives one normalized event. The event's frame must not be
// retained past the synchronous extent of the call.
type Handler func(*event.Event)

// EventSource is the subscription surface a spy handle attaches to.
type EventSource interface {
	// Subscribe registers a handler for every subsequent event. Handlers
	// are invoked synchronously in subscription order.
	Subscribe(h Handler) (Subscription, error)
}

// Subscription is the detach handle returned by Subscribe.
type Subscription interface {
	// Close detaches the handler. Idempotent.
	Close() error
}
