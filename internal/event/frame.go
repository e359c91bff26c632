package event

// Frame is the capability handle into the execution context that produced
// an event. It turns ambient "read caller bindings by name" access into an
// explicit, lifetime-bounded parameter: extractors receive a Frame, resolve
// names against it during one dispatch cycle, and never retain it.
//
// A Frame is read-only. Implementations are not required to be safe for
// concurrent use; the synchronous dispatch model guarantees single-threaded
// access within a cycle.
type Frame interface {
	// Params returns the formal parameter names of the routine that owns
	// this frame, in declaration order. Empty for contexts that do not
	// expose a signature (native frames).
	Params() []string

	// Names returns all currently-bound local variable names in whatever
	// enumeration order the context provides. The order carries no
	// semantic meaning; consumers match by name.
	Names() []string

	// Lookup resolves a bound name to its value. The second result is
	// false when the name is not resolvable in this context.
	Lookup(name string) (any, bool)
}

// MapFrame is the concrete Frame used by scripted sources and tests: an
// ordered set of name/value bindings plus a declared parameter list.
//
// Bind order is preserved and reported by Names, letting tests assert the
// exact enumeration a real context would provide.
type MapFrame struct {
	params []string
	order  []string
	values map[string]any
}

// NewMapFrame creates an empty frame.
func NewMapFrame() *MapFrame {
	return &MapFrame{values: make(map[string]any)}
}

// DeclareParams sets the formal parameter list in declaration order.
// Returns the frame for chaining.
func (f *MapFrame) DeclareParams(names ...string) *MapFrame {
	f.params = append(f.params[:0], names...)
	return f
}

// Bind adds or overwrites a binding. First-bind order is preserved for
// enumeration. Returns the frame for chaining.
func (f *MapFrame) Bind(name string, value any) *MapFrame {
	if _, exists := f.values[name]; !exists {
		f.order = append(f.order, name)
	}
	f.values[name] = value
	return f
}

// Params implements Frame.
func (f *MapFrame) Params() []string {
	out := make([]string, len(f.params))
	copy(out, f.params)
	return out
}

// Names implements Frame.
func (f *MapFrame) Names() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Lookup implements Frame.
func (f *MapFrame) Lookup(name string) (any, bool) {
	v, ok := f.values[name]
	return v, ok
}
