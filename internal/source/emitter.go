package source

import (
	"errors"
	"sync"

	"github.com/roach88/tracespy/internal/event"
)

// Emitter is the in-process EventSource implementation: it stamps every
// emitted event with the next logical-clock seq and delivers it
// synchronously to all subscribers in subscription order.
//
// Thread-safety: Subscribe/Close are safe from any goroutine. Emit is
// typically called from the single observed execution thread; concurrent
// Emit calls are delivered whole (the handler list is snapshotted under
// lock) but their relative order is whatever the race decides.
type Emitter struct {
	mu    sync.Mutex
	clock *event.Clock
	subs  []*emitterSub
}

// NewEmitter creates an Emitter with a fresh clock.
func NewEmitter() *Emitter {
	return &Emitter{clock: event.NewClock()}
}

type emitterSub struct {
	owner   *Emitter
	handler Handler
	closed  bool
}

// Close implements Subscription.
func (s *emitterSub) Close() error {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for i, sub := range s.owner.subs {
		if sub == s {
			s.owner.subs = append(s.owner.subs[:i], s.owner.subs[i+1:]...)
			break
		}
	}
	return nil
}

// Subscribe implements EventSource.
func (e *Emitter) Subscribe(h Handler) (Subscription, error) {
	if h == nil {
		return nil, errors.New("source: nil handler")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := &emitterSub{owner: e, handler: h}
	e.subs = append(e.subs, sub)
	return sub, nil
}

// Emit stamps the event and delivers it to all current subscribers.
// Delivery happens outside the lock so a handler may close its own
// subscription (or add another) without deadlocking.
func (e *Emitter) Emit(ev *event.Event) {
	if ev == nil {
		return
	}

	e.mu.Lock()
	ev.Seq = e.clock.Next()
	handlers := make([]Handler, len(e.subs))
	for i, sub := range e.subs {
		handlers[i] = sub.handler
	}
	e.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Clock exposes the emitter's logical clock, mainly so tests can assert
// stamping behavior.
func (e *Emitter) Clock() *event.Clock {
	return e.clock
}
