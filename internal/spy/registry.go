package spy

import (
	"sync"

	"github.com/roach88/tracespy/internal/match"
)

// Matcher is one registered predicate+callback pair. The predicate decides
// whether the callback fires for a given payload; the callback is the
// user's side effect.
//
// Matchers are immutable once built. Evaluation with panic isolation lives
// on the dispatcher side (eval/fire), not in user reach.
type Matcher struct {
	predicate match.Value
	callback  func(payload any)
}

// NewMatcher builds a matcher. A nil predicate defaults to match-all
// (register a callback unconditionally); a nil callback defaults to a
// no-op (pure predicate probes are legal, if pointless without the
// introspection accessors).
func NewMatcher(predicate match.Value, callback func(payload any)) Matcher {
	if predicate == nil {
		predicate = match.Any()
	}
	if callback == nil {
		callback = func(any) {}
	}
	return Matcher{predicate: predicate, callback: callback}
}

// eval runs the predicate with panic isolation.
func (m Matcher) eval(payload any) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
	}()
	return m.predicate.Matches(payload), nil
}

// fire runs the callback with panic isolation.
func (m Matcher) fire(payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
	}()
	m.callback(payload)
	return nil
}

// Registry stores, per category, the ordered list of registered matchers.
//
// Registration is append-only: no removal, no mutation, and registration
// order defines invocation order. Registering after Enable is permitted -
// dispatch consults the registry live - and appends are mutex-guarded so
// a late registration does not race an in-flight dispatch read.
type Registry struct {
	mu    sync.RWMutex
	lists map[Category][]Matcher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{lists: make(map[Category][]Matcher)}
}

// Register appends a matcher to the category's list and returns the
// post-append list length, exposed for inspection only.
func (r *Registry) Register(cat Category, m Matcher) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists[cat] = append(r.lists[cat], m)
	return len(r.lists[cat])
}

// MatchersFor returns the ordered snapshot for one dispatch cycle. The
// snapshot is a copy: matchers registered mid-cycle are seen by the next
// event, not the one being dispatched.
func (r *Registry) MatchersFor(cat Category) []Matcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.lists[cat]
	if len(list) == 0 {
		return nil
	}
	out := make([]Matcher, len(list))
	copy(out, list)
	return out
}

// Size returns the total number of registered matchers across categories.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, list := range r.lists {
		n += len(list)
	}
	return n
}
