// Package matching ranks corpus cases against an incoming request key and
// describes the structural differences of the nearest candidates.
package matching

import (
	"github.com/agnivade/levenshtein"

	"github.com/caseoracle/caseoracle/pkg/jsontree"
	"github.com/caseoracle/caseoracle/pkg/testcase"
)

// Distance orders candidates by how far their key is from the request key.
// Comparison is lexicographic: fewer mismatching key components wins, then
// fewer body edits, then smaller path edit distance.
type Distance struct {
	// Fields is the number of mismatching key components (method, path,
	// query, body, and each configured request key).
	Fields int `json:"fields" yaml:"fields"`

	// BodyEdits is the number of structural edits between the request and
	// candidate bodies. Opaque body mismatches count as one edit.
	BodyEdits int `json:"body edits" yaml:"body edits"`

	// PathEdits is the character edit distance between the URL paths.
	PathEdits int `json:"path edits" yaml:"path edits"`
}

// Less reports whether d ranks strictly nearer than o.
func (d Distance) Less(o Distance) bool {
	if d.Fields != o.Fields {
		return d.Fields < o.Fields
	}
	if d.BodyEdits != o.BodyEdits {
		return d.BodyEdits < o.BodyEdits
	}
	return d.PathEdits < o.PathEdits
}

// Between computes the distance from the request key to a candidate case key.
func Between(req, cand *testcase.Key) Distance {
	var d Distance
	if req.Method != cand.Method {
		d.Fields++
	}
	if req.Path != cand.Path {
		d.Fields++
		d.PathEdits = levenshtein.ComputeDistance(req.Path, cand.Path)
	}
	if !req.QueryEqual(cand) {
		d.Fields++
	}
	if !req.BodyEqual(cand) {
		d.Fields++
		d.BodyEdits = bodyEdits(req, cand)
	}
	d.Fields += extraMismatches(req, cand)
	return d
}

func bodyEdits(req, cand *testcase.Key) int {
	if req.Opaque || cand.Opaque {
		return 1
	}
	return jsontree.EditCount(cand.Body, req.Body)
}

// extraMismatches counts request-key components that differ. Keys derive
// from a shared spec, so both sides carry the same component names in the
// same order; a shorter side pads as absent.
func extraMismatches(req, cand *testcase.Key) int {
	n := len(req.Extras)
	if len(cand.Extras) > n {
		n = len(cand.Extras)
	}
	mismatches := 0
	for i := 0; i < n; i++ {
		var r, c testcase.ExtraField
		if i < len(req.Extras) {
			r = req.Extras[i]
		}
		if i < len(cand.Extras) {
			c = cand.Extras[i]
		}
		if r.Present != c.Present {
			mismatches++
			continue
		}
		if r.Present && !r.Value.Equal(c.Value) {
			mismatches++
		}
	}
	return mismatches
}
