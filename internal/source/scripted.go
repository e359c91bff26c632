package source

import "github.com/roach88/tracespy/internal/event"

// Scripted is a deterministic EventSource: a pre-built stream delivered
// in order on Run. Tests and the replay command use it to drive the
// dispatch core without any live instrumentation.
type Scripted struct {
	*Emitter
	events []*event.Event
}

// NewScripted creates a scripted source over the given events. The slice
// is copied; the events themselves are delivered as-is (and stamped at
// delivery time, so a script can be run against a fresh source for
// identical seq values).
func NewScripted(events ...*event.Event) *Scripted {
	s := &Scripted{Emitter: NewEmitter()}
	s.Append(events...)
	return s
}

// Append adds events to the end of the script. Only meaningful before Run.
func (s *Scripted) Append(events ...*event.Event) {
	s.events = append(s.events, events...)
}

// Run delivers the whole script in order, synchronously. Each event's
// dispatch completes before the next is delivered, mirroring the
// synchronous contract of a live source.
func (s *Scripted) Run() {
	for _, ev := range s.events {
		s.Emit(ev)
	}
}

// Len returns the number of scripted events.
func (s *Scripted) Len() int { return len(s.events) }
