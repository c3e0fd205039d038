package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestNestedResolvesDeepPaths(t *testing.T) {
	v := decode(t, `{"a":{"b":{"c":"deep","n":3}}}`)

	got, ok := Nested(v, "a", "b", "c")
	require.True(t, ok)
	assert.Equal(t, "deep", got)

	assert.Equal(t, "deep", NestedString(v, "a", "b", "c"))
	assert.Equal(t, float64(3), NestedNumber(v, "a", "b", "n"))
}

func TestNestedAbsenceIsNotAnError(t *testing.T) {
	v := decode(t, `{"a":{"b":"leaf"}}`)

	_, ok := Nested(v, "a", "missing")
	assert.False(t, ok)

	// Descending through a non-map leaf must not panic.
	_, ok = Nested(v, "a", "b", "c")
	assert.False(t, ok)

	assert.Empty(t, NestedString(v, "nope"))
	assert.Zero(t, NestedNumber(v, "a", "b"))
	assert.Empty(t, NestedMap(v, "nope"))
	assert.Nil(t, NestedSlice(nil, "anything"))
}

func TestNestedSliceWrapsSingletonObject(t *testing.T) {
	v := decode(t, `{"items":{"id":1},"list":[1,2],"scalar":"x"}`)

	assert.Len(t, NestedSlice(v, "items"), 1)
	assert.Len(t, NestedSlice(v, "list"), 2)
	assert.Nil(t, NestedSlice(v, "scalar"))
}
