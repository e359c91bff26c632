package observe

import "sync"

// MemoryObserver records diagnostics in memory for test assertions.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex, so tests exercising multi-goroutine sources can share one.
type MemoryObserver struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

// NewMemoryObserver creates an empty recorder.
func NewMemoryObserver() *MemoryObserver {
	return &MemoryObserver{}
}

func (m *MemoryObserver) OnDiagnostic(d Diagnostic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diagnostics = append(m.diagnostics, d)
}

// Diagnostics returns a snapshot of everything recorded so far, in
// report order.
func (m *MemoryObserver) Diagnostics() []Diagnostic {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Diagnostic, len(m.diagnostics))
	copy(out, m.diagnostics)
	return out
}

// ByKind returns recorded diagnostics of one kind, in report order.
func (m *MemoryObserver) ByKind(kind DiagnosticKind) []Diagnostic {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Diagnostic
	for _, d := range m.diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of recorded diagnostics.
func (m *MemoryObserver) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.diagnostics)
}

// Reset clears the recorder for test reuse.
func (m *MemoryObserver) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diagnostics = nil
}
