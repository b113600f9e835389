package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseoracle/caseoracle/pkg/store"
	"github.com/caseoracle/caseoracle/pkg/testcase"
)

func buildSet(t *testing.T, spec testcase.KeySpec, records ...map[string]any) *store.CaseSet {
	t.Helper()
	set := store.NewCaseSet()
	for _, fields := range records {
		key, err := testcase.Derive(fields, spec)
		require.NoError(t, err)
		require.NoError(t, set.Add(&testcase.Case{Fields: fields, Key: key}))
	}
	return set
}

func requestKey(t *testing.T, spec testcase.KeySpec, fields map[string]any) *testcase.Key {
	t.Helper()
	key, err := testcase.Derive(fields, spec)
	require.NoError(t, err)
	return key
}

func TestMatchExact(t *testing.T) {
	spec := testcase.KeySpec{}
	set := buildSet(t, spec,
		map[string]any{"id": "a", "url": "/x?a=1&b=2", "response status": 200},
		map[string]any{"id": "b", "url": "/y", "response status": 404},
	)
	m := New(set)

	// Same query in a different order still matches exactly.
	result := m.Match(requestKey(t, spec, map[string]any{"method": "get", "url": "/x?b=2&a=1"}))
	require.NotNil(t, result.Exact)
	assert.Equal(t, "a", result.Exact.ID())
	assert.Empty(t, result.Candidates)
}

func TestMatchEmptyCorpus(t *testing.T) {
	m := New(store.NewCaseSet())
	result := m.Match(requestKey(t, testcase.KeySpec{}, map[string]any{"url": "/x"}))
	assert.Nil(t, result.Exact)
	assert.Empty(t, result.Candidates)
}

func TestMatchNearestSingle(t *testing.T) {
	spec := testcase.KeySpec{}
	set := buildSet(t, spec,
		map[string]any{"id": "near", "url": "/orders?limit=5"},
		map[string]any{"id": "far", "method": "POST", "url": "/payments", "request body": map[string]any{"amount": 5}},
	)
	m := New(set)

	result := m.Match(requestKey(t, spec, map[string]any{"url": "/orders?limit=10"}))
	require.Nil(t, result.Exact)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "near", result.Candidates[0].CaseID)
	require.NotEmpty(t, result.Candidates[0].Diffs)
}

func TestMatchTiesReturnAllInCorpusOrder(t *testing.T) {
	spec := testcase.KeySpec{}
	set := buildSet(t, spec,
		map[string]any{"id": "first", "url": "/x?v=1"},
		map[string]any{"id": "second", "url": "/x?v=2"},
	)
	m := New(set)

	result := m.Match(requestKey(t, spec, map[string]any{"url": "/x?v=3"}))
	require.Nil(t, result.Exact)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "first", result.Candidates[0].CaseID)
	assert.Equal(t, "second", result.Candidates[1].CaseID)
	assert.Equal(t, result.Candidates[0].Distance, result.Candidates[1].Distance)
}

func TestMatchRequestKeyFieldSeparatesCases(t *testing.T) {
	spec := testcase.KeySpec{RequestKeys: []string{"story"}}
	set := buildSet(t, spec,
		map[string]any{"id": "alpha", "url": "/x", "story": "alpha"},
	)
	m := New(set)

	exact := m.Match(requestKey(t, spec, map[string]any{"url": "/x", "story": "alpha"}))
	require.NotNil(t, exact.Exact)

	// A request without the story field is near, not exact.
	near := m.Match(requestKey(t, spec, map[string]any{"url": "/x"}))
	require.Nil(t, near.Exact)
	require.Len(t, near.Candidates, 1)
	assert.Equal(t, "alpha", near.Candidates[0].CaseID)
	require.Len(t, near.Candidates[0].Diffs, 1)
	assert.Equal(t, "removed", near.Candidates[0].Diffs[0].Kind)
}

func TestMatchBodyEditsRefineRanking(t *testing.T) {
	spec := testcase.KeySpec{}
	set := buildSet(t, spec,
		map[string]any{
			"id": "close", "method": "POST", "url": "/orders",
			"request body": map[string]any{"item": "book", "qty": 1},
		},
		map[string]any{
			"id": "distant", "method": "POST", "url": "/orders",
			"request body": map[string]any{"sku": "X1", "warehouse": "A", "priority": true},
		},
	)
	m := New(set)

	result := m.Match(requestKey(t, spec, map[string]any{
		"method": "POST", "url": "/orders",
		"request body": map[string]any{"item": "book", "qty": 2},
	}))
	require.Nil(t, result.Exact)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "close", result.Candidates[0].CaseID)
	assert.Equal(t, 1, result.Candidates[0].Distance.BodyEdits)
}

func TestMatchPathDistanceRefinesRanking(t *testing.T) {
	spec := testcase.KeySpec{}
	set := buildSet(t, spec,
		map[string]any{"id": "orders", "url": "/orders"},
		map[string]any{"id": "payments", "url": "/payments"},
	)
	m := New(set)

	result := m.Match(requestKey(t, spec, map[string]any{"url": "/order"}))
	require.Nil(t, result.Exact)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "orders", result.Candidates[0].CaseID)
	assert.Equal(t, 1, result.Candidates[0].Distance.PathEdits)
}
