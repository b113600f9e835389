package augment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paths(t *testing.T) (updatePath, compactPath string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "pending.update.yaml"), filepath.Join(dir, "augmentation.yaml")
}

func TestAppendAndReadUpdates(t *testing.T) {
	updatePath, _ := paths(t)

	w := NewWriter(updatePath)
	require.NoError(t, w.Append("case-a", map[string]any{"response status": 200}))
	require.NoError(t, w.Append("case-b", map[string]any{"response body": map[string]any{"ok": true}}))

	entries, err := ReadUpdates(updatePath)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "case-a", entries[0].CaseID)
	assert.Equal(t, "case-b", entries[1].CaseID)
	assert.Equal(t, w.RunID(), entries[0].RunID)
	assert.Equal(t, w.RunID(), entries[1].RunID)
	assert.Equal(t, 200, entries[0].Fields["response status"])
}

func TestReadUpdatesMissingFile(t *testing.T) {
	entries, err := ReadUpdates(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAppendValidation(t *testing.T) {
	updatePath, _ := paths(t)
	w := NewWriter(updatePath)
	assert.Error(t, w.Append("", map[string]any{"x": 1}))
	assert.Error(t, w.Append("case-a", nil))
	_, err := os.Stat(updatePath)
	assert.True(t, os.IsNotExist(err))
}

func TestCommitLastWriteWins(t *testing.T) {
	updatePath, compactPath := paths(t)

	w := NewWriter(updatePath)
	require.NoError(t, w.Append("case-a", map[string]any{"response status": 200, "note": "first"}))
	require.NoError(t, w.Append("case-a", map[string]any{"response status": 418}))
	require.NoError(t, w.Append("case-b", map[string]any{"response status": 404}))

	result, err := Commit(updatePath, compactPath)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Entries)
	assert.Equal(t, 2, result.Cases)

	compact, err := LoadCompact(compactPath)
	require.NoError(t, err)
	require.Contains(t, compact, "case-a")
	assert.Equal(t, 418, compact["case-a"]["response status"])
	assert.Equal(t, "first", compact["case-a"]["note"])
	assert.Equal(t, 404, compact["case-b"]["response status"])

	// The update file is emptied by a successful commit.
	entries, err := ReadUpdates(updatePath)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCommitPreservesEarlierCommits(t *testing.T) {
	updatePath, compactPath := paths(t)

	w := NewWriter(updatePath)
	require.NoError(t, w.Append("case-a", map[string]any{"response status": 200}))
	_, err := Commit(updatePath, compactPath)
	require.NoError(t, err)

	w = NewWriter(updatePath)
	require.NoError(t, w.Append("case-a", map[string]any{"note": "later"}))
	_, err = Commit(updatePath, compactPath)
	require.NoError(t, err)

	compact, err := LoadCompact(compactPath)
	require.NoError(t, err)
	assert.Equal(t, 200, compact["case-a"]["response status"])
	assert.Equal(t, "later", compact["case-a"]["note"])
}

func TestCommitEmptyUpdateIsNoOp(t *testing.T) {
	updatePath, compactPath := paths(t)

	result, err := Commit(updatePath, compactPath)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Entries)
	_, err = os.Stat(compactPath)
	assert.True(t, os.IsNotExist(err))
}

func TestCommitIsIdempotentOnContent(t *testing.T) {
	updatePath, compactPath := paths(t)

	w := NewWriter(updatePath)
	require.NoError(t, w.Append("case-b", map[string]any{"x": 1}))
	require.NoError(t, w.Append("case-a", map[string]any{"y": 2}))
	_, err := Commit(updatePath, compactPath)
	require.NoError(t, err)
	first, err := os.ReadFile(compactPath)
	require.NoError(t, err)

	// Re-appending the same entries and committing again leaves the compact
	// file byte-identical.
	w = NewWriter(updatePath)
	require.NoError(t, w.Append("case-b", map[string]any{"x": 1}))
	require.NoError(t, w.Append("case-a", map[string]any{"y": 2}))
	_, err = Commit(updatePath, compactPath)
	require.NoError(t, err)
	second, err := os.ReadFile(compactPath)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
