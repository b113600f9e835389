package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustValue(t *testing.T, v any) Value {
	t.Helper()
	out, err := FromAny(v)
	require.NoError(t, err)
	return out
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		want any
		got  any
		eds  []Edit
	}{
		{
			name: "equal trees",
			want: map[string]any{"a": 1},
			got:  map[string]any{"a": 1},
			eds:  nil,
		},
		{
			name: "changed scalar",
			want: map[string]any{"name": "ada"},
			got:  map[string]any{"name": "alan"},
			eds: []Edit{
				{Path: "$.name", Kind: DiffChanged},
			},
		},
		{
			name: "removed and added keys",
			want: map[string]any{"a": 1, "b": 2},
			got:  map[string]any{"b": 2, "c": 3},
			eds: []Edit{
				{Path: "$.a", Kind: DiffRemoved},
				{Path: "$.c", Kind: DiffAdded},
			},
		},
		{
			name: "type change",
			want: map[string]any{"n": 1},
			got:  map[string]any{"n": "1"},
			eds: []Edit{
				{Path: "$.n", Kind: DiffTypeChanged},
			},
		},
		{
			name: "nested array element",
			want: map[string]any{"tags": []any{"a", "b"}},
			got:  map[string]any{"tags": []any{"a", "c"}},
			eds: []Edit{
				{Path: "$.tags[1]", Kind: DiffChanged},
			},
		},
		{
			name: "array length difference",
			want: []any{1, 2, 3},
			got:  []any{1},
			eds: []Edit{
				{Path: "$[1]", Kind: DiffRemoved},
				{Path: "$[2]", Kind: DiffRemoved},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edits := Diff(mustValue(t, tt.want), mustValue(t, tt.got))
			require.Len(t, edits, len(tt.eds))
			for i, expected := range tt.eds {
				assert.Equal(t, expected.Path, edits[i].Path)
				assert.Equal(t, expected.Kind, edits[i].Kind)
			}
		})
	}
}

func TestDiffCarriesValues(t *testing.T) {
	edits := Diff(
		mustValue(t, map[string]any{"status": 200}),
		mustValue(t, map[string]any{"status": 404}),
	)
	require.Len(t, edits, 1)
	assert.Equal(t, "$.status", edits[0].Path)
	assert.Equal(t, int64(200), edits[0].Want)
	assert.Equal(t, int64(404), edits[0].Got)
}

func TestEditCount(t *testing.T) {
	want := mustValue(t, map[string]any{"a": 1, "b": map[string]any{"c": 2, "d": 3}})
	got := mustValue(t, map[string]any{"a": 9, "b": map[string]any{"c": 2}})
	assert.Equal(t, 2, EditCount(want, got))
	assert.Equal(t, 0, EditCount(want, want))
}
