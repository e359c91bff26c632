package spy

import (
	"fmt"
	"sync"

	"github.com/roach88/tracespy/internal/event"
	"github.com/roach88/tracespy/internal/observe"
)

// State is the dispatcher's lifecycle state.
type State int

const (
	// StateIdle means no subscription is active.
	StateIdle State = iota
	// StateArmed means the subscription is active and no event is being
	// processed.
	StateArmed
	// StateDispatching means the dispatcher is inside the synchronous
	// extent of processing one admitted event.
	StateDispatching
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateDispatching:
		return "dispatching"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dispatcher is the core state machine: it admits events for one watch
// target, routes each admitted event to exactly one category, extracts the
// category payload, and invokes that category's matchers in registration
// order with per-matcher failure isolation.
//
// Thread-safety model:
//   - HandleEvent: the synchronous model assumes one observed execution
//     thread; events must be delivered one at a time. Re-entrant delivery
//     (a matcher callback triggering another watched event) is dropped,
//     not queued.
//   - Arm/Disarm/State and the introspection accessors: safe from any
//     goroutine.
//
// The current-event slot is single-writer by construction: it is set
// immediately before matcher invocation and cleared immediately after,
// for every admitted event.
type Dispatcher struct {
	target   WatchTarget
	registry *Registry
	observer observe.Observer
	tokens   TokenGenerator

	mu      sync.Mutex
	state   State
	current *event.Event
	token   string
}

// NewDispatcher creates an Idle dispatcher. A nil observer defaults to
// the noop sink and nil tokens to UUIDv7.
func NewDispatcher(target WatchTarget, registry *Registry, observer observe.Observer, tokens TokenGenerator) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	if observer == nil {
		observer = observe.NewNoopObserver()
	}
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	return &Dispatcher{
		target:   target,
		registry: registry,
		observer: observer,
		tokens:   tokens,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Arm moves Idle -> Armed. Returns *AlreadyArmedError when the dispatcher
// is already Armed or Dispatching: double-arming would leak the caller's
// stale subscription, so it is surfaced rather than absorbed.
func (d *Dispatcher) Arm() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateIdle {
		return &AlreadyArmedError{State: d.state}
	}
	d.state = StateArmed
	return nil
}

// Disarm moves any state to Idle. Idempotent: returns true when the
// dispatcher was live (Armed or Dispatching), false when it was already
// Idle. Disarming mid-cycle lets the in-flight cycle finish; the cycle's
// epilogue leaves the state at Idle.
func (d *Dispatcher) Disarm() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	was := d.state != StateIdle
	d.state = StateIdle
	return was
}

// HandleEvent processes one delivered event: filter, route, extract,
// invoke. Runs to completion before returning control to the event
// source, so the instrumented code never resumes mid-cycle.
func (d *Dispatcher) HandleEvent(ev *event.Event) {
	if ev == nil {
		return
	}

	d.mu.Lock()
	// Dropped unless Armed: Idle means no consumer, Dispatching means
	// re-entrant delivery, which the synchronous model does not support.
	if d.state != StateArmed {
		d.mu.Unlock()
		return
	}
	// Admission runs before any extraction work so rejected events pay
	// no frame-inspection cost.
	if !d.target.Admits(ev) {
		d.mu.Unlock()
		return
	}
	d.state = StateDispatching
	d.current = ev
	d.token = d.tokens.Generate()
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.current = nil
		d.token = ""
		// A matcher may have disabled the handle mid-cycle; respect Idle.
		if d.state == StateDispatching {
			d.state = StateArmed
		}
		d.mu.Unlock()
	}()

	d.dispatch(ev)
}

// dispatch runs the category routing and matcher invocation for one
// admitted event. The current-event slot is already set.
func (d *Dispatcher) dispatch(ev *event.Event) {
	cat := categoryForClass(ev.Kind.Class())

	matchers := d.registry.MatchersFor(cat)
	if len(matchers) == 0 {
		// Extraction is deferred until we know matchers exist, so
		// unregistered categories incur no context-resolution cost.
		return
	}

	payload, err := d.extractPayload(cat, ev)
	if err != nil {
		d.report(observe.KindExtractionFailed, ev, cat, -1, err)
		return
	}

	for i, m := range matchers {
		d.invoke(i, m, cat, ev, payload)
	}
}

// extractPayload routes the category to its extractor. The switch is
// exhaustive over categories; anything else is a routing bug upstream.
func (d *Dispatcher) extractPayload(cat Category, ev *event.Event) (any, error) {
	switch cat {
	case CategoryArguments:
		b, err := ExtractArguments(ev)
		if err != nil {
			return nil, err
		}
		return b, nil
	case CategoryLocals:
		b, err := ExtractLocals(ev)
		if err != nil {
			return nil, err
		}
		return b, nil
	case CategoryReturn:
		return ExtractReturn(ev)
	case CategoryException:
		raised, err := ExtractException(ev)
		if err != nil {
			return nil, err
		}
		return raised, nil
	default:
		panic(fmt.Sprintf("spy: no extractor for category %d", int(cat)))
	}
}

// invoke runs one matcher with per-invocation isolation: a failing
// predicate or callback is reported and the next matcher still runs.
func (d *Dispatcher) invoke(idx int, m Matcher, cat Category, ev *event.Event, payload any) {
	matched, err := m.eval(payload)
	if err != nil {
		d.report(observe.KindMatcherFailed, ev, cat, idx,
			&MatcherEvaluationError{Category: cat, Index: idx, Phase: PhasePredicate, Err: err})
		return
	}
	if !matched {
		return
	}
	if err := m.fire(payload); err != nil {
		d.report(observe.KindMatcherFailed, ev, cat, idx,
			&MatcherEvaluationError{Category: cat, Index: idx, Phase: PhaseCallback, Err: err})
	}
}

func (d *Dispatcher) report(kind observe.DiagnosticKind, ev *event.Event, cat Category, idx int, err error) {
	d.mu.Lock()
	token := d.token
	d.mu.Unlock()

	d.observer.OnDiagnostic(observe.Diagnostic{
		Kind:         kind,
		CycleToken:   token,
		Seq:          ev.Seq,
		EventKind:    ev.Kind,
		Method:       ev.Method,
		Category:     cat.String(),
		MatcherIndex: idx,
		Err:          err,
	})
}

// CurrentArguments returns the argument bindings of the event currently
// being dispatched, usable from inside any matcher callback regardless of
// which category triggered it.
//
// Returns the empty mapping when no event is active, when the active
// event is a raise (argument resolution is unsupported at raise time -
// a preserved restriction, not an oversight), or when the active frame
// cannot resolve the parameters.
func (d *Dispatcher) CurrentArguments() Bindings {
	d.mu.Lock()
	ev := d.current
	d.mu.Unlock()

	if ev == nil || ev.Kind.Class() == event.ClassRaise {
		return nil
	}
	b, err := argumentBindings(ev)
	if err != nil {
		return nil
	}
	return b
}

// CurrentLocalVariables returns all locals bound in the current event's
// frame, whatever the event's kind - the one sanctioned cross-kind use of
// locals extraction. Returns the empty mapping when no event is active or
// the frame is uninspectable.
func (d *Dispatcher) CurrentLocalVariables() Bindings {
	d.mu.Lock()
	ev := d.current
	d.mu.Unlock()

	if ev == nil {
		return nil
	}
	b, err := localBindings(ev)
	if err != nil {
		return nil
	}
	return b
}
