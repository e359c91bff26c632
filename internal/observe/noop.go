package observe

// NoopObserver discards all diagnostics. It is the default when the
// embedding application wires nothing in: instrumentation failures must
// never become instrumented-program failures, even without a sink.
type NoopObserver struct{}

// NewNoopObserver creates a NoopObserver.
func NewNoopObserver() *NoopObserver {
	return &NoopObserver{}
}

func (*NoopObserver) OnDiagnostic(Diagnostic) {}
