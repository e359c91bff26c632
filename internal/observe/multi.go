package observe

// MultiObserver fans out diagnostics to multiple observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates a MultiObserver that forwards diagnostics to
// all non-nil observers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnDiagnostic(d Diagnostic) {
	for _, obs := range m.observers {
		obs.OnDiagnostic(d)
	}
}
