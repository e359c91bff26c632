package spy

import (
	"github.com/roach88/tracespy/internal/event"
	"github.com/roach88/tracespy/internal/match"
)

// WatchTarget is the immutable method/owning-type combination a handle
// observes. Both positions hold a match.Value, so a configured target can
// be a literal symbol or a predicate (regexp, type check, function)
// interchangeably.
//
// Constructed once, never mutated.
type WatchTarget struct {
	method match.Value
	owner  match.Value
}

// NewWatchTarget builds a target from a method-name matcher and an
// owning-type matcher. A nil owner defaults to the accept-all sentinel;
// a nil method panics - a target without a method constraint is a
// construction bug, not a wildcard.
func NewWatchTarget(method, owner match.Value) WatchTarget {
	if method == nil {
		panic("spy: watch target requires a method matcher")
	}
	if owner == nil {
		owner = match.Any()
	}
	return WatchTarget{method: method, owner: owner}
}

// Method returns the method-name matcher.
func (t WatchTarget) Method() match.Value { return t.method }

// Owner returns the owning-type matcher.
func (t WatchTarget) Owner() match.Value { return t.owner }

// Admits decides whether an event concerns this target: the event's
// method name must satisfy the method matcher AND the owning type must
// satisfy the owner matcher (with the Any sentinel short-circuiting the
// owner check entirely).
//
// Pure, no side effects. Admits runs before any extraction so rejected
// events never pay frame-inspection cost.
func (t WatchTarget) Admits(ev *event.Event) bool {
	if ev == nil {
		return false
	}
	if !t.method.Matches(ev.Method) {
		return false
	}
	if match.IsAny(t.owner) {
		return true
	}
	return t.owner.Matches(ev.Owner)
}
