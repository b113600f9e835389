package augment

import (
	"fmt"
	"os"

	"github.com/rogpeppe/go-internal/lockedfile"
)

// CommitError reports a failed commit. Neither the update file nor the
// compact file was modified; the commit can be retried as-is.
type CommitError struct {
	UpdatePath  string
	CompactPath string
	Err         error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %s into %s: %v", e.UpdatePath, e.CompactPath, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// CommitResult summarizes a successful commit.
type CommitResult struct {
	// Entries is the number of update entries merged.
	Entries int

	// Cases is the number of distinct cases touched.
	Cases int
}

// Commit folds every pending entry in the update file into the compact file,
// then truncates the update file. The merge is last-write-wins per field: for
// each case, entries apply in file order on top of the case's committed
// fields. The whole operation runs under an advisory lock next to the compact
// file, and the compact file is replaced atomically, so a crash at any point
// leaves either the old state (retry the commit) or the new state (the
// truncated update file). Committing an empty or absent update file is a
// no-op.
func Commit(updatePath, compactPath string) (*CommitResult, error) {
	fail := func(err error) (*CommitResult, error) {
		return nil, &CommitError{UpdatePath: updatePath, CompactPath: compactPath, Err: err}
	}

	mu := lockedfile.MutexAt(compactPath + ".lock")
	unlock, err := mu.Lock()
	if err != nil {
		return fail(err)
	}
	defer unlock()

	entries, err := ReadUpdates(updatePath)
	if err != nil {
		return fail(err)
	}
	if len(entries) == 0 {
		return &CommitResult{}, nil
	}

	compact, err := LoadCompact(compactPath)
	if err != nil {
		return fail(err)
	}

	touched := map[string]bool{}
	for _, entry := range entries {
		fields := compact[entry.CaseID]
		if fields == nil {
			fields = map[string]any{}
			compact[entry.CaseID] = fields
		}
		for name, value := range entry.Fields {
			fields[name] = value
		}
		touched[entry.CaseID] = true
	}

	if err := writeCompact(compactPath, compact); err != nil {
		return fail(err)
	}

	// The compact file now holds everything; pending entries are redundant.
	// A crash before this truncate only means the next commit re-applies
	// entries whose effect is already committed, which is idempotent.
	if err := os.Truncate(updatePath, 0); err != nil && !os.IsNotExist(err) {
		return fail(fmt.Errorf("truncate update file: %w", err))
	}

	return &CommitResult{Entries: len(entries), Cases: len(touched)}, nil
}
