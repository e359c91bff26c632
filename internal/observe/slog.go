package observe

import "log/slog"

// SlogObserver emits diagnostics to a slog.Logger. Extraction failures log
// at Debug (they are expected for native frames and would otherwise drown
// real problems); matcher failures log at Warn.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver emitting to the given logger.
// A nil logger falls back to slog.Default().
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnDiagnostic(d Diagnostic) {
	attrs := []any{
		slog.String("cycle", d.CycleToken),
		slog.Int64("seq", d.Seq),
		slog.String("kind", d.EventKind.String()),
		slog.String("method", d.Method),
		slog.String("category", d.Category),
	}
	if d.MatcherIndex >= 0 {
		attrs = append(attrs, slog.Int("matcher", d.MatcherIndex))
	}
	if d.Err != nil {
		attrs = append(attrs, slog.Any("err", d.Err))
	}

	switch d.Kind {
	case KindExtractionFailed:
		o.logger.Debug(string(d.Kind), attrs...)
	default:
		o.logger.Warn(string(d.Kind), attrs...)
	}
}
