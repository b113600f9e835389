// Package store loads the case corpus from disk, applies augmentation data,
// and indexes cases for exact lookup.
package store

import (
	"github.com/caseoracle/caseoracle/pkg/testcase"
)

// CaseSet is the loaded, indexed corpus. It is immutable after Load.
type CaseSet struct {
	cases    []*testcase.Case
	byDigest map[string]*testcase.Case
	byID     map[string]*testcase.Case
}

// NewCaseSet creates an empty corpus.
func NewCaseSet() *CaseSet {
	return &CaseSet{
		byDigest: map[string]*testcase.Case{},
		byID:     map[string]*testcase.Case{},
	}
}

// Cases returns every case in corpus order.
func (s *CaseSet) Cases() []*testcase.Case { return s.cases }

// Len returns the number of cases in the corpus.
func (s *CaseSet) Len() int { return len(s.cases) }

// LookupExact returns the case whose key digest matches, if any.
func (s *CaseSet) LookupExact(digest string) (*testcase.Case, bool) {
	c, ok := s.byDigest[digest]
	return c, ok
}

// LookupID returns the case with the given identifier, if any.
func (s *CaseSet) LookupID(id string) (*testcase.Case, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Add appends a case, assigning its corpus position. Two cases with the same
// key digest are a DataError.
func (s *CaseSet) Add(c *testcase.Case) error {
	if prev, ok := s.byDigest[c.Key.Digest()]; ok {
		return &DataError{
			File:   c.Source,
			CaseID: c.ID(),
			Reason: "key collides with case " + prev.ID() + " from " + prev.Source,
		}
	}
	c.Seq = len(s.cases)
	s.cases = append(s.cases, c)
	s.byDigest[c.Key.Digest()] = c
	s.byID[c.ID()] = c
	return nil
}
