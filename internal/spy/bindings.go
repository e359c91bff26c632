package spy

// Binding is one name/value pair extracted from an execution context.
type Binding struct {
	Name  string
	Value any
}

// Bindings is an ordered name-to-value mapping. Order is load-bearing for
// arguments (declaration order of formal parameters) and incidental for
// locals (whatever enumeration order the context provided).
//
// A nil Bindings is the canonical empty mapping; all methods treat it as
// such.
type Bindings []Binding

// Get resolves a name. The second result is false when the name is absent.
func (b Bindings) Get(name string) (any, bool) {
	for _, entry := range b {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	return nil, false
}

// Has reports whether the name is bound.
func (b Bindings) Has(name string) bool {
	_, ok := b.Get(name)
	return ok
}

// Names returns the bound names in mapping order.
func (b Bindings) Names() []string {
	out := make([]string, len(b))
	for i, entry := range b {
		out[i] = entry.Name
	}
	return out
}

// Len returns the number of bindings.
func (b Bindings) Len() int { return len(b) }

// Empty reports whether the mapping has no bindings.
func (b Bindings) Empty() bool { return len(b) == 0 }

// Map returns an unordered map copy for consumers that match purely by
// name. Mutating the result does not affect the Bindings.
func (b Bindings) Map() map[string]any {
	out := make(map[string]any, len(b))
	for _, entry := range b {
		out[entry.Name] = entry.Value
	}
	return out
}
