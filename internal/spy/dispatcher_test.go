package spy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tracespy/internal/event"
	"github.com/roach88/tracespy/internal/match"
	"github.com/roach88/tracespy/internal/observe"
)

// countingFrame counts inspection calls to prove extraction is skipped
// for categories with no registered matchers.
type countingFrame struct {
	inner       *event.MapFrame
	inspections int
}

func (f *countingFrame) Params() []string {
	f.inspections++
	return f.inner.Params()
}

func (f *countingFrame) Names() []string {
	f.inspections++
	return f.inner.Names()
}

func (f *countingFrame) Lookup(name string) (any, bool) {
	f.inspections++
	return f.inner.Lookup(name)
}

func newTestDispatcher(t *testing.T, method string) (*Dispatcher, *Registry, *observe.MemoryObserver) {
	t.Helper()
	registry := NewRegistry()
	obs := observe.NewMemoryObserver()
	target := NewWatchTarget(match.Exact(method), nil)
	d := NewDispatcher(target, registry, obs, NewPrefixGenerator("cycle"))
	return d, registry, obs
}

func callEvent(method string, params []string, values ...any) *event.Event {
	frame := event.NewMapFrame().DeclareParams(params...)
	for i, name := range params {
		frame.Bind(name, values[i])
	}
	return event.NewCall(method, "", frame)
}

func TestDispatcher_ArmTransitions(t *testing.T) {
	d, _, _ := newTestDispatcher(t, "checkout")

	assert.Equal(t, StateIdle, d.State())
	require.NoError(t, d.Arm())
	assert.Equal(t, StateArmed, d.State())

	err := d.Arm()
	require.Error(t, err)
	assert.True(t, IsAlreadyArmedError(err))

	var ae *AlreadyArmedError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, StateArmed, ae.State)
}

func TestDispatcher_DisarmIdempotent(t *testing.T) {
	d, _, _ := newTestDispatcher(t, "checkout")

	assert.False(t, d.Disarm(), "never-armed disarm is a falsy no-op")
	assert.Equal(t, StateIdle, d.State())

	require.NoError(t, d.Arm())
	assert.True(t, d.Disarm())
	assert.False(t, d.Disarm(), "second disarm is a falsy no-op")
	assert.Equal(t, StateIdle, d.State())
}

func TestDispatcher_IdleDropsEvents(t *testing.T) {
	d, registry, _ := newTestDispatcher(t, "checkout")

	fired := 0
	registry.Register(CategoryArguments, NewMatcher(match.Any(), func(any) { fired++ }))

	d.HandleEvent(callEvent("checkout", []string{"a"}, 1))
	assert.Zero(t, fired, "idle dispatcher must not dispatch")
}

func TestDispatcher_FilterRejectNoOp(t *testing.T) {
	d, registry, obs := newTestDispatcher(t, "checkout")
	require.NoError(t, d.Arm())

	fired := 0
	registry.Register(CategoryArguments, NewMatcher(match.Any(), func(any) { fired++ }))

	d.HandleEvent(callEvent("refund", []string{"a"}, 1))

	assert.Zero(t, fired)
	assert.Zero(t, obs.Len())
	assert.Equal(t, StateArmed, d.State(), "rejected event leaves dispatcher armed")
}

func TestDispatcher_ArgumentsMappingFidelity(t *testing.T) {
	d, registry, _ := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	var got Bindings
	registry.Register(CategoryArguments, NewMatcher(match.Any(), func(p any) { got = p.(Bindings) }))

	// f(a, b, c) called as f(1, 2, 3) yields {a:1, b:2, c:3}.
	d.HandleEvent(callEvent("f", []string{"a", "b", "c"}, 1, 2, 3))

	assert.Equal(t, Bindings{
		{Name: "a", Value: 1},
		{Name: "b", Value: 2},
		{Name: "c", Value: 3},
	}, got)
	assert.Equal(t, StateArmed, d.State())
}

func TestDispatcher_RegistrationOrderIsInvocationOrder(t *testing.T) {
	d, registry, _ := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	var order []string
	registry.Register(CategoryReturn, NewMatcher(match.Any(), func(any) { order = append(order, "M1") }))
	registry.Register(CategoryReturn, NewMatcher(match.Any(), func(any) { order = append(order, "M2") }))

	d.HandleEvent(event.NewReturn("f", "", nil, 42))

	assert.Equal(t, []string{"M1", "M2"}, order)
}

func TestDispatcher_NonMatchingPredicateNeverFires(t *testing.T) {
	d, registry, obs := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	fired := 0
	even := match.Func(func(n int) bool { return n%2 == 0 })
	registry.Register(CategoryReturn, NewMatcher(even, func(any) { fired++ }))

	d.HandleEvent(event.NewReturn("f", "", nil, 7))

	assert.Zero(t, fired, "odd return value must not fire an even-predicate matcher")
	assert.Zero(t, obs.Len(), "a clean non-match is not a diagnostic")
}

func TestDispatcher_RaiseFiresOnlyExceptionMatchers(t *testing.T) {
	d, registry, _ := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	var raised error
	returnFired := 0
	registry.Register(CategoryReturn, NewMatcher(match.Any(), func(any) { returnFired++ }))
	registry.Register(CategoryException, NewMatcher(match.Type[*testRaise](), func(p any) { raised = p.(error) }))
	registry.Register(CategoryException, NewMatcher(match.Type[*otherRaise](), func(any) {
		t.Error("mismatched exception type must not fire")
	}))

	boom := &testRaise{msg: "insufficient stock"}
	d.HandleEvent(event.NewRaise("f", "", nil, boom))

	assert.Zero(t, returnFired, "return matchers must not fire for a raise")
	assert.Same(t, boom, raised)
}

type testRaise struct{ msg string }

func (e *testRaise) Error() string { return e.msg }

type otherRaise struct{}

func (e *otherRaise) Error() string { return "other" }

func TestDispatcher_CurrentArguments_EmptyDuringRaise(t *testing.T) {
	d, registry, _ := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	var inside Bindings
	registry.Register(CategoryException, NewMatcher(match.Any(), func(any) {
		inside = d.CurrentArguments()
	}))

	frame := event.NewMapFrame().DeclareParams("a").Bind("a", 1)
	d.HandleEvent(event.NewRaise("f", "", frame, errors.New("boom")))

	assert.True(t, inside.Empty(), "argument introspection is unsupported at raise time")
}

func TestDispatcher_CurrentArguments_InsideReturnMatcher(t *testing.T) {
	d, registry, _ := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	var inside Bindings
	registry.Register(CategoryReturn, NewMatcher(match.Any(), func(any) {
		inside = d.CurrentArguments()
	}))

	// The return event's frame still holds the parameter bindings
	// captured at call time for the same invocation.
	frame := event.NewMapFrame().DeclareParams("a", "b").Bind("a", 1).Bind("b", 2)
	d.HandleEvent(event.NewReturn("f", "", frame, 3))

	assert.Equal(t, Bindings{
		{Name: "a", Value: 1},
		{Name: "b", Value: 2},
	}, inside)
}

func TestDispatcher_CurrentLocalVariables_AtReturn(t *testing.T) {
	d, registry, _ := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	var inside Bindings
	registry.Register(CategoryReturn, NewMatcher(match.Any(), func(any) {
		inside = d.CurrentLocalVariables()
	}))

	// "d" was bound on a conditional path during execution; it is present
	// with its bound value at return time.
	frame := event.NewMapFrame().
		DeclareParams("a", "b").
		Bind("a", 1).
		Bind("b", 2).
		Bind("d", "conditionally bound")
	d.HandleEvent(event.NewReturn("f", "", frame, 3))

	v, ok := inside.Get("d")
	assert.True(t, ok)
	assert.Equal(t, "conditionally bound", v)
	assert.Equal(t, []string{"a", "b", "d"}, inside.Names())
}

func TestDispatcher_IntrospectionOutsideCycleIsEmpty(t *testing.T) {
	d, registry, _ := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	registry.Register(CategoryArguments, NewMatcher(match.Any(), nil))
	d.HandleEvent(callEvent("f", []string{"a"}, 1))

	// The cycle completed; the slot must not serve stale data.
	assert.True(t, d.CurrentArguments().Empty())
	assert.True(t, d.CurrentLocalVariables().Empty())
}

func TestDispatcher_ExtractionFailureSkipsAndContinues(t *testing.T) {
	d, registry, obs := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	var seen []Bindings
	registry.Register(CategoryArguments, NewMatcher(match.Any(), func(p any) { seen = append(seen, p.(Bindings)) }))

	// c_call with no inspectable frame: expected failure, suppressed.
	d.HandleEvent(event.NewCCall("f", "", nil))
	// The next event still dispatches normally.
	d.HandleEvent(callEvent("f", []string{"a"}, 1))

	require.Len(t, seen, 1)
	assert.Equal(t, Bindings{{Name: "a", Value: 1}}, seen[0])

	diags := obs.ByKind(observe.KindExtractionFailed)
	require.Len(t, diags, 1)
	assert.Equal(t, event.KindCCall, diags[0].EventKind)
	assert.Equal(t, "arguments", diags[0].Category)
	assert.Equal(t, -1, diags[0].MatcherIndex)
	assert.True(t, IsExtractionError(diags[0].Err))
	assert.Equal(t, StateArmed, d.State())
}

func TestDispatcher_NoMatchersSkipsExtraction(t *testing.T) {
	d, registry, obs := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	// Matchers on return only; a call event must not touch the frame.
	registry.Register(CategoryReturn, NewMatcher(match.Any(), nil))

	frame := &countingFrame{inner: event.NewMapFrame().DeclareParams("a").Bind("a", 1)}
	d.HandleEvent(event.NewCall("f", "", frame))

	assert.Zero(t, frame.inspections, "unregistered categories incur no context-resolution cost")
	assert.Zero(t, obs.Len())
}

func TestDispatcher_MatcherFailureIsolation(t *testing.T) {
	d, registry, obs := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	var fired []string
	registry.Register(CategoryReturn, NewMatcher(
		match.Func(func(any) bool { panic("predicate bug") }),
		func(any) { fired = append(fired, "broken") },
	))
	registry.Register(CategoryReturn, NewMatcher(match.Any(), func(any) { fired = append(fired, "healthy") }))

	d.HandleEvent(event.NewReturn("f", "", nil, 1))
	d.HandleEvent(event.NewReturn("f", "", nil, 2))

	assert.Equal(t, []string{"healthy", "healthy"}, fired,
		"one broken matcher blocks neither its sibling nor the next event")

	diags := obs.ByKind(observe.KindMatcherFailed)
	require.Len(t, diags, 2)
	for _, diag := range diags {
		assert.Equal(t, 0, diag.MatcherIndex)
		assert.True(t, IsMatcherEvaluationError(diag.Err))

		var me *MatcherEvaluationError
		require.True(t, errors.As(diag.Err, &me))
		assert.Equal(t, PhasePredicate, me.Phase)
	}
}

func TestDispatcher_CallbackFailureReported(t *testing.T) {
	d, registry, obs := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	registry.Register(CategoryReturn, NewMatcher(match.Any(), func(any) { panic("callback bug") }))

	d.HandleEvent(event.NewReturn("f", "", nil, 1))

	diags := obs.ByKind(observe.KindMatcherFailed)
	require.Len(t, diags, 1)

	var me *MatcherEvaluationError
	require.True(t, errors.As(diags[0].Err, &me))
	assert.Equal(t, PhaseCallback, me.Phase)
	assert.Equal(t, StateArmed, d.State(), "a failed callback does not kill instrumentation")
}

func TestDispatcher_CycleTokensCorrelateDiagnostics(t *testing.T) {
	d, registry, obs := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	registry.Register(CategoryReturn, NewMatcher(match.Any(), func(any) { panic("bug") }))

	d.HandleEvent(event.NewReturn("f", "", nil, 1))
	d.HandleEvent(event.NewReturn("f", "", nil, 2))

	diags := obs.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, "cycle-1", diags[0].CycleToken)
	assert.Equal(t, "cycle-2", diags[1].CycleToken, "each admitted event gets its own cycle token")
}

func TestDispatcher_ReentrantDeliveryDropped(t *testing.T) {
	d, registry, _ := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	fired := 0
	registry.Register(CategoryReturn, NewMatcher(match.Any(), func(any) {
		fired++
		if fired == 1 {
			// A matcher triggering another watched event mid-cycle is
			// outside the synchronous model; it must be dropped.
			d.HandleEvent(event.NewReturn("f", "", nil, 99))
		}
	}))

	d.HandleEvent(event.NewReturn("f", "", nil, 1))

	assert.Equal(t, 1, fired)
	assert.Equal(t, StateArmed, d.State())
}

func TestDispatcher_DisarmFromCallbackEndsIdle(t *testing.T) {
	d, registry, _ := newTestDispatcher(t, "f")
	require.NoError(t, d.Arm())

	registry.Register(CategoryReturn, NewMatcher(match.Any(), func(any) {
		assert.True(t, d.Disarm())
	}))

	d.HandleEvent(event.NewReturn("f", "", nil, 1))

	assert.Equal(t, StateIdle, d.State(), "mid-cycle disarm must stick after the cycle epilogue")
	assert.True(t, d.CurrentArguments().Empty())
}
