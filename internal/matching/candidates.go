package matching

import (
	"github.com/ohler55/ojg/jp"

	"github.com/caseoracle/caseoracle/pkg/jsontree"
	"github.com/caseoracle/caseoracle/pkg/testcase"
)

// FieldDiff is one reported difference between the request and a candidate
// case. Expected is the candidate's side, Actual the request's.
type FieldDiff struct {
	Path     string `json:"path" yaml:"path"`
	Kind     string `json:"kind" yaml:"kind"`
	Expected any    `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty" yaml:"actual,omitempty"`
}

// Candidate is one nearest-case report entry.
type Candidate struct {
	CaseID      string      `json:"case id" yaml:"case id"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Distance    Distance    `json:"distance" yaml:"distance"`
	Diffs       []FieldDiff `json:"diffs" yaml:"diffs"`
}

// Describe lists every difference between the request key and a candidate
// key: scalar key components first, then structural body edits with JSONPath
// locations rooted under the body field.
func Describe(req, cand *testcase.Key) []FieldDiff {
	var diffs []FieldDiff

	if req.Method != cand.Method {
		diffs = append(diffs, FieldDiff{
			Path:     jp.R().C(testcase.FieldMethod).String(),
			Kind:     string(jsontree.DiffChanged),
			Expected: cand.Method,
			Actual:   req.Method,
		})
	}
	if req.Path != cand.Path {
		diffs = append(diffs, FieldDiff{
			Path:     jp.R().C("path").String(),
			Kind:     string(jsontree.DiffChanged),
			Expected: cand.Path,
			Actual:   req.Path,
		})
	}
	diffs = append(diffs, queryDiffs(req, cand)...)
	diffs = append(diffs, bodyDiffs(req, cand)...)
	diffs = append(diffs, extraDiffs(req, cand)...)
	return diffs
}

func queryDiffs(req, cand *testcase.Key) []FieldDiff {
	if req.QueryEqual(cand) {
		return nil
	}
	want, err := jsontree.FromAny(queryToAny(cand))
	if err != nil {
		return nil
	}
	got, err := jsontree.FromAny(queryToAny(req))
	if err != nil {
		return nil
	}
	return convertEdits(jsontree.DiffAt(jp.R().C("query"), want, got))
}

func queryToAny(k *testcase.Key) map[string]any {
	out := make(map[string]any, len(k.Query))
	for name, values := range k.Query {
		list := make([]any, len(values))
		for i, v := range values {
			list[i] = v
		}
		out[name] = list
	}
	return out
}

func bodyDiffs(req, cand *testcase.Key) []FieldDiff {
	if req.BodyEqual(cand) {
		return nil
	}
	root := jp.R().C(testcase.FieldRequestBody)
	if req.Opaque || cand.Opaque {
		return []FieldDiff{{
			Path:     root.String(),
			Kind:     string(jsontree.DiffChanged),
			Expected: opaqueBody(cand),
			Actual:   opaqueBody(req),
		}}
	}
	return convertEdits(jsontree.DiffAt(root, cand.Body, req.Body))
}

func opaqueBody(k *testcase.Key) any {
	if !k.Opaque {
		return k.Body.ToAny()
	}
	if k.Binary {
		return map[string]any{"binary": k.RawBody}
	}
	return k.RawBody
}

func extraDiffs(req, cand *testcase.Key) []FieldDiff {
	n := len(req.Extras)
	if len(cand.Extras) > n {
		n = len(cand.Extras)
	}
	var diffs []FieldDiff
	for i := 0; i < n; i++ {
		var r, c testcase.ExtraField
		if i < len(req.Extras) {
			r = req.Extras[i]
		}
		if i < len(cand.Extras) {
			c = cand.Extras[i]
		}
		name := r.Name
		if name == "" {
			name = c.Name
		}
		path := jp.R().C(name).String()
		switch {
		case c.Present && !r.Present:
			diffs = append(diffs, FieldDiff{
				Path:     path,
				Kind:     string(jsontree.DiffRemoved),
				Expected: c.Value.ToAny(),
			})
		case !c.Present && r.Present:
			diffs = append(diffs, FieldDiff{
				Path:   path,
				Kind:   string(jsontree.DiffAdded),
				Actual: r.Value.ToAny(),
			})
		case c.Present && r.Present && !r.Value.Equal(c.Value):
			diffs = append(diffs, convertEdits(jsontree.DiffAt(jp.R().C(name), c.Value, r.Value))...)
		}
	}
	return diffs
}

func convertEdits(edits []jsontree.Edit) []FieldDiff {
	out := make([]FieldDiff, len(edits))
	for i, e := range edits {
		out[i] = FieldDiff{
			Path:     e.Path,
			Kind:     string(e.Kind),
			Expected: e.Want,
			Actual:   e.Got,
		}
	}
	return out
}
