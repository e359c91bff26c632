package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_Class_TotalMapping(t *testing.T) {
	testCases := []struct {
		kind  Kind
		class Class
	}{
		{KindCall, ClassCall},
		{KindCCall, ClassCall},
		{KindReturn, ClassReturn},
		{KindCReturn, ClassReturn},
		{KindRaise, ClassRaise},
		{KindLine, ClassLine},
	}

	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.class, tc.kind.Class())
		})
	}
}

func TestKind_Class_InvalidKindPanics(t *testing.T) {
	assert.Panics(t, func() {
		_ = Kind(0).Class()
	}, "zero kind must not be routable")

	assert.Panics(t, func() {
		_ = Kind(99).Class()
	}, "out-of-range kind must not be routable")
}

func TestKind_String_WireNames(t *testing.T) {
	assert.Equal(t, "call", KindCall.String())
	assert.Equal(t, "c_call", KindCCall.String())
	assert.Equal(t, "return", KindReturn.String())
	assert.Equal(t, "c_return", KindCReturn.String())
	assert.Equal(t, "raise", KindRaise.String())
	assert.Equal(t, "line", KindLine.String())
}

func TestKindFromString_RoundTrip(t *testing.T) {
	for _, k := range []Kind{KindCall, KindCCall, KindReturn, KindCReturn, KindRaise, KindLine} {
		parsed, err := KindFromString(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestKindFromString_Unknown(t *testing.T) {
	_, err := KindFromString("b_call")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b_call")
}
