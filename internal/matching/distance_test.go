package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseoracle/caseoracle/pkg/testcase"
)

func TestDistanceLess(t *testing.T) {
	tests := []struct {
		name string
		a    Distance
		b    Distance
		less bool
	}{
		{"fewer field mismatches win", Distance{Fields: 1}, Distance{Fields: 2}, true},
		{"fields dominate body edits", Distance{Fields: 1, BodyEdits: 9}, Distance{Fields: 2}, true},
		{"body edits break field ties", Distance{Fields: 1, BodyEdits: 1}, Distance{Fields: 1, BodyEdits: 3}, true},
		{"path edits break body ties", Distance{Fields: 1, PathEdits: 2}, Distance{Fields: 1, PathEdits: 5}, true},
		{"equal distances are not less", Distance{Fields: 1}, Distance{Fields: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.less, tt.a.Less(tt.b))
		})
	}
}

func TestBetween(t *testing.T) {
	spec := testcase.KeySpec{RequestKeys: []string{"story"}}
	derive := func(fields map[string]any) *testcase.Key {
		k, err := testcase.Derive(fields, spec)
		require.NoError(t, err)
		return k
	}

	req := derive(map[string]any{
		"method": "POST", "url": "/orders?a=1",
		"request body": map[string]any{"qty": 1}, "story": "alpha",
	})

	same := derive(map[string]any{
		"method": "post", "url": "/orders?a=1",
		"request body": map[string]any{"qty": 1}, "story": "alpha",
	})
	assert.Equal(t, Distance{}, Between(req, same))

	offByAll := derive(map[string]any{"method": "DELETE", "url": "/users?b=2"})
	d := Between(req, offByAll)
	// method, path, query, body, and the story key all mismatch.
	assert.Equal(t, 5, d.Fields)
	assert.Positive(t, d.PathEdits)
	assert.Positive(t, d.BodyEdits)
}
