package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a     any
		b     any
		equal bool
	}{
		{
			name:  "objects with different key order",
			a:     map[string]any{"a": 1, "b": 2},
			b:     map[string]any{"b": 2, "a": 1},
			equal: true,
		},
		{
			name:  "int and float with the same value",
			a:     map[string]any{"n": 2},
			b:     map[string]any{"n": 2.0},
			equal: true,
		},
		{
			name:  "arrays are order sensitive",
			a:     []any{1, 2},
			b:     []any{2, 1},
			equal: false,
		},
		{
			name:  "nested difference",
			a:     map[string]any{"user": map[string]any{"name": "ada"}},
			b:     map[string]any{"user": map[string]any{"name": "alan"}},
			equal: false,
		},
		{
			name:  "null vs absent field",
			a:     map[string]any{"x": nil},
			b:     map[string]any{},
			equal: false,
		},
		{
			name:  "bool vs string",
			a:     true,
			b:     "true",
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := FromAny(tt.a)
			require.NoError(t, err)
			b, err := FromAny(tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.equal, a.Equal(b))
			assert.Equal(t, tt.equal, b.Equal(a))
		})
	}
}

func TestCanonicalIsStable(t *testing.T) {
	a, err := FromAny(map[string]any{"b": []any{1, 2}, "a": "x"})
	require.NoError(t, err)
	b, err := FromAny(map[string]any{"a": "x", "b": []any{1, 2}})
	require.NoError(t, err)

	assert.Equal(t, a.Canonical(), b.Canonical())
	assert.Equal(t, `{"a":"x","b":[1,2]}`, a.Canonical())
}

func TestParse(t *testing.T) {
	v, err := Parse([]byte(`{"name":"ada","tags":["a","b"],"age":36}`))
	require.NoError(t, err)
	assert.Equal(t, Object, v.Kind())

	name, ok := v.Field("name")
	require.True(t, ok)
	assert.Equal(t, "ada", name.ToAny())

	_, err = Parse([]byte(`{"name":`))
	assert.Error(t, err)
}

func TestFromAnyRejectsUnsupported(t *testing.T) {
	_, err := FromAny(struct{}{})
	assert.Error(t, err)

	_, err = FromAny(map[string]any{"ok": make(chan int)})
	assert.Error(t, err)
}
