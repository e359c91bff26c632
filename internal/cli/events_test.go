package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tracespy/internal/event"
)

func writeEvents(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEvents(t *testing.T) {
	events, err := LoadEvents("testdata/checkout_events.yaml")
	require.NoError(t, err)
	require.Len(t, events, 5)

	call := events[0]
	assert.Equal(t, event.KindCall, call.Kind)
	assert.Equal(t, "checkout", call.Method)
	assert.Equal(t, "Cart", call.Owner)
	require.NotNil(t, call.Frame)
	assert.Equal(t, []string{"total", "qty"}, call.Frame.Params())

	total, ok := call.Frame.Lookup("total")
	require.True(t, ok)
	assert.Equal(t, 100, total)

	ret := events[1]
	assert.Equal(t, event.KindReturn, ret.Kind)
	assert.Equal(t, 3, ret.ReturnValue)

	assert.Nil(t, events[2].Frame, "frameless events carry no frame")

	raise := events[4]
	assert.Equal(t, event.KindRaise, raise.Kind)
	require.Error(t, raise.Raised)
	assert.Equal(t, "insufficient stock for sku-9", raise.Raised.Error())
}

func TestLoadEventsLine(t *testing.T) {
	path := writeEvents(t, `
- kind: line
  method: checkout
  bindings:
    - {name: total, value: 7}
`)

	events, err := LoadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.KindLine, events[0].Kind)

	v, ok := events[0].Frame.Lookup("total")
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestLoadEventsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty stream",
			content: "[]\n",
			wantErr: "is empty",
		},
		{
			name:    "unknown kind",
			content: "- kind: jump\n  method: m\n",
			wantErr: "jump",
		},
		{
			name:    "missing method",
			content: "- kind: call\n",
			wantErr: "requires a method",
		},
		{
			name:    "raise without error",
			content: "- kind: raise\n  method: m\n",
			wantErr: "requires an error message",
		},
		{
			name:    "not yaml",
			content: "{{{\n",
			wantErr: "parse event stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadEvents(writeEvents(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadEventsMissingFile(t *testing.T) {
	_, err := LoadEvents("testdata/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read event stream")
}
