package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/tracespy/internal/event"
	"github.com/roach88/tracespy/internal/observe"
	"github.com/roach88/tracespy/internal/source"
	"github.com/roach88/tracespy/internal/spy"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh emitter, handle, and clock for
// isolation. Cycle tokens come from a numbered generator so identical
// scenarios produce identical traces.
//
// Execution flow:
// 1. Compile the target and rules
// 2. Arm a handle against a scripted emitter
// 3. Emit the recorded stream in order
// 4. Evaluate assertions against the firing trace
func Run(scenario *Scenario) (*Result, error) {
	method, err := scenario.Target.MethodMatcher()
	if err != nil {
		return nil, fmt.Errorf("compile target method: %w", err)
	}
	owner, err := scenario.Target.OwnerMatcher()
	if err != nil {
		return nil, fmt.Errorf("compile target owner: %w", err)
	}

	result := NewResult()
	em := source.NewEmitter()

	// Pre-subscribe a context tap so rule callbacks can attribute
	// firings to the event being dispatched.
	target := spy.NewWatchTarget(method, owner)
	var current *event.Event
	if _, err := em.Subscribe(func(ev *event.Event) {
		current = ev
		if target.Admits(ev) {
			result.Admitted++
		}
	}); err != nil {
		return nil, err
	}

	// Diagnostics interleave with firings in dispatch order. Logs are
	// suppressed; the trace is the record.
	obs := observe.NewMultiObserver(
		&traceObserver{result: result},
		observe.NewSlogObserver(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	h := spy.New(method,
		spy.WithOwner(owner),
		spy.WithSource(em),
		spy.WithObserver(obs),
		spy.WithTokens(spy.NewPrefixGenerator("cycle")),
	)

	for i, rule := range scenario.Rules {
		cat, pred, err := rule.Compile()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rule.Label(i), err)
		}

		label := rule.Label(i)
		record := func(payload any) {
			result.Trace = append(result.Trace, TraceEvent{
				Type:     "fired",
				Seq:      current.Seq,
				Kind:     current.Kind.String(),
				Category: cat.String(),
				Rule:     label,
				Payload:  formatPayload(payload),
			})
		}

		switch cat {
		case spy.CategoryArguments:
			h.OnArguments(pred, func(b spy.Bindings) { record(b) })
		case spy.CategoryLocals:
			h.OnLocals(pred, func(b spy.Bindings) { record(b) })
		case spy.CategoryReturn:
			h.OnReturn(pred, func(v any) { record(v) })
		case spy.CategoryException:
			h.OnException(pred, func(raised error) { record(raised) })
		}
	}

	if err := h.Enable(); err != nil {
		return nil, err
	}
	for i, step := range scenario.Events {
		ev, err := step.build()
		if err != nil {
			// validateScenario already built every step once.
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		em.Emit(ev)
	}
	h.Disable()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// traceObserver appends dispatch diagnostics to the scenario trace.
type traceObserver struct {
	result *Result
}

func (o *traceObserver) OnDiagnostic(d observe.Diagnostic) {
	te := TraceEvent{
		Type:     "diagnostic",
		Seq:      d.Seq,
		Kind:     d.EventKind.String(),
		Category: d.Category,
		Cycle:    d.CycleToken,
	}
	if d.Err != nil {
		te.Error = d.Err.Error()
	}
	o.result.Trace = append(o.result.Trace, te)
}

// formatPayload renders a matcher payload for the trace. Bindings render
// in mapping order; fmt sorts map keys, so YAML-decoded values render
// deterministically.
func formatPayload(payload any) string {
	switch v := payload.(type) {
	case spy.Bindings:
		parts := make([]string, v.Len())
		for i, b := range v {
			parts[i] = fmt.Sprintf("%s=%v", b.Name, b.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case error:
		return v.Error()
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%v", v)
	}
}
