package matching

import (
	"github.com/caseoracle/caseoracle/pkg/store"
	"github.com/caseoracle/caseoracle/pkg/testcase"
)

// Matcher resolves request keys against a loaded corpus: exact match by key
// digest, nearest candidates otherwise.
type Matcher struct {
	set *store.CaseSet
}

// New creates a matcher over the corpus.
func New(set *store.CaseSet) *Matcher {
	return &Matcher{set: set}
}

// Result is the outcome of resolving one request. Exactly one of Exact and
// Candidates is meaningful: Exact when the request matched a case, otherwise
// Candidates holds every nearest case (possibly empty for an empty corpus).
type Result struct {
	Exact      *testcase.Case
	Candidates []Candidate
}

// Match resolves a request key. Exact matches go through the digest index.
// Otherwise every case is ranked by Distance and all cases at the minimum
// distance are returned as candidates, in corpus order.
func (m *Matcher) Match(key *testcase.Key) Result {
	if c, ok := m.set.LookupExact(key.Digest()); ok {
		return Result{Exact: c}
	}

	var (
		best    Distance
		nearest []*testcase.Case
	)
	for _, c := range m.set.Cases() {
		d := Between(key, c.Key)
		switch {
		case len(nearest) == 0 || d.Less(best):
			best = d
			nearest = append(nearest[:0], c)
		case !best.Less(d):
			nearest = append(nearest, c)
		}
	}

	candidates := make([]Candidate, 0, len(nearest))
	for _, c := range nearest {
		candidates = append(candidates, Candidate{
			CaseID:      c.ID(),
			Description: c.Description(),
			Distance:    best,
			Diffs:       Describe(key, c.Key),
		})
	}
	return Result{Candidates: candidates}
}
