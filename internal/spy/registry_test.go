package spy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tracespy/internal/match"
)

func TestRegistry_AppendOnlyOrder(t *testing.T) {
	r := NewRegistry()

	var fired []string
	first := NewMatcher(match.Any(), func(any) { fired = append(fired, "first") })
	second := NewMatcher(match.Any(), func(any) { fired = append(fired, "second") })

	assert.Equal(t, 1, r.Register(CategoryReturn, first), "Register returns post-append length")
	assert.Equal(t, 2, r.Register(CategoryReturn, second))

	matchers := r.MatchersFor(CategoryReturn)
	require.Len(t, matchers, 2)
	for _, m := range matchers {
		require.NoError(t, m.fire(nil))
	}
	assert.Equal(t, []string{"first", "second"}, fired, "registration order is invocation order")
}

func TestRegistry_CategoriesIsolated(t *testing.T) {
	r := NewRegistry()
	r.Register(CategoryArguments, NewMatcher(match.Any(), nil))

	assert.Len(t, r.MatchersFor(CategoryArguments), 1)
	assert.Empty(t, r.MatchersFor(CategoryReturn))
	assert.Empty(t, r.MatchersFor(CategoryLocals))
	assert.Empty(t, r.MatchersFor(CategoryException))
	assert.Equal(t, 1, r.Size())
}

func TestRegistry_SnapshotIsCopy(t *testing.T) {
	r := NewRegistry()
	r.Register(CategoryReturn, NewMatcher(match.Any(), nil))

	snapshot := r.MatchersFor(CategoryReturn)
	r.Register(CategoryReturn, NewMatcher(match.Any(), nil))

	assert.Len(t, snapshot, 1, "snapshot must not see later registrations")
	assert.Len(t, r.MatchersFor(CategoryReturn), 2)
}

func TestNewMatcher_Defaults(t *testing.T) {
	m := NewMatcher(nil, nil)

	matched, err := m.eval("anything")
	require.NoError(t, err)
	assert.True(t, matched, "nil predicate defaults to match-all")

	assert.NoError(t, m.fire("anything"), "nil callback defaults to no-op")
}

func TestMatcher_EvalIsolatesPanic(t *testing.T) {
	m := NewMatcher(match.Func(func(any) bool { panic("predicate bug") }), nil)

	matched, err := m.eval(1)
	assert.False(t, matched)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "predicate bug")
}

func TestMatcher_FireIsolatesPanic(t *testing.T) {
	boom := errors.New("callback bug")
	m := NewMatcher(match.Any(), func(any) { panic(boom) })

	err := m.fire(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom, "error panic values pass through unwrapped")
}
