package observe

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tracespy/internal/event"
)

func makeDiagnostic(kind DiagnosticKind, idx int) Diagnostic {
	return Diagnostic{
		Kind:         kind,
		CycleToken:   "cycle-1",
		Seq:          7,
		EventKind:    event.KindCall,
		Method:       "checkout",
		Category:     "arguments",
		MatcherIndex: idx,
		Err:          errors.New("boom"),
	}
}

func TestMemoryObserver_RecordsInOrder(t *testing.T) {
	m := NewMemoryObserver()

	m.OnDiagnostic(makeDiagnostic(KindMatcherFailed, 0))
	m.OnDiagnostic(makeDiagnostic(KindExtractionFailed, -1))
	m.OnDiagnostic(makeDiagnostic(KindMatcherFailed, 2))

	assert.Equal(t, 3, m.Len())

	got := m.Diagnostics()
	require.Len(t, got, 3)
	assert.Equal(t, KindMatcherFailed, got[0].Kind)
	assert.Equal(t, KindExtractionFailed, got[1].Kind)
	assert.Equal(t, 2, got[2].MatcherIndex)

	failed := m.ByKind(KindMatcherFailed)
	require.Len(t, failed, 2)
	assert.Equal(t, 0, failed[0].MatcherIndex)
	assert.Equal(t, 2, failed[1].MatcherIndex)

	m.Reset()
	assert.Equal(t, 0, m.Len())
}

func TestMultiObserver_FansOutSkippingNil(t *testing.T) {
	a := NewMemoryObserver()
	b := NewMemoryObserver()
	multi := NewMultiObserver(a, nil, b)

	multi.OnDiagnostic(makeDiagnostic(KindMatcherFailed, 1))

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestSlogObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	o := NewSlogObserver(logger)

	o.OnDiagnostic(makeDiagnostic(KindExtractionFailed, -1))
	o.OnDiagnostic(makeDiagnostic(KindMatcherFailed, 1))

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "extraction_failed")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "matcher_failed")
	assert.Contains(t, out, "method=checkout")
	assert.Contains(t, out, "matcher=1")
	assert.NotContains(t, out, "matcher=-1", "extraction diagnostics carry no matcher index")
}

func TestNoopObserver_Discards(t *testing.T) {
	o := NewNoopObserver()
	assert.NotPanics(t, func() {
		o.OnDiagnostic(makeDiagnostic(KindMatcherFailed, 0))
	})
}
