package jsontree

import (
	"github.com/ohler55/ojg/jp"
)

// DiffKind classifies a single structural difference.
type DiffKind string

// Difference kinds.
const (
	DiffAdded       DiffKind = "added"        // present in got, absent in want
	DiffRemoved     DiffKind = "removed"      // present in want, absent in got
	DiffChanged     DiffKind = "changed"      // same kind, different value
	DiffTypeChanged DiffKind = "type changed" // different kinds at the same path
)

// Edit is one difference between two document trees. Path is a JSONPath
// expression addressing the differing location; Want and Got hold the values
// on each side (nil when the side lacks the location).
type Edit struct {
	Path string   `json:"path" yaml:"path"`
	Kind DiffKind `json:"kind" yaml:"kind"`
	Want any      `json:"want,omitempty" yaml:"want,omitempty"`
	Got  any      `json:"got,omitempty" yaml:"got,omitempty"`
}

// Diff compares two trees and returns every edit needed to turn got into
// want. Paths are rooted at "$".
func Diff(want, got Value) []Edit {
	return DiffAt(jp.R(), want, got)
}

// DiffAt is Diff with edit paths rooted at the given expression, for callers
// embedding the comparison under a larger record.
func DiffAt(root jp.Expr, want, got Value) []Edit {
	var edits []Edit
	diffNode(root, want, got, &edits)
	return edits
}

// EditCount returns the number of edits between two trees without retaining
// them, for distance ranking.
func EditCount(want, got Value) int {
	return len(Diff(want, got))
}

func diffNode(path jp.Expr, want, got Value, edits *[]Edit) {
	if want.kind != got.kind {
		*edits = append(*edits, Edit{
			Path: path.String(),
			Kind: DiffTypeChanged,
			Want: want.ToAny(),
			Got:  got.ToAny(),
		})
		return
	}
	switch want.kind {
	case Object:
		diffObject(path, want, got, edits)
	case Array:
		diffArray(path, want, got, edits)
	default:
		if !want.Equal(got) {
			*edits = append(*edits, Edit{
				Path: path.String(),
				Kind: DiffChanged,
				Want: want.ToAny(),
				Got:  got.ToAny(),
			})
		}
	}
}

func diffObject(path jp.Expr, want, got Value, edits *[]Edit) {
	for _, k := range want.Keys() {
		wf := want.fields[k]
		gf, ok := got.fields[k]
		if !ok {
			*edits = append(*edits, Edit{
				Path: path.C(k).String(),
				Kind: DiffRemoved,
				Want: wf.ToAny(),
			})
			continue
		}
		diffNode(path.C(k), wf, gf, edits)
	}
	for _, k := range got.Keys() {
		if _, ok := want.fields[k]; !ok {
			*edits = append(*edits, Edit{
				Path: path.C(k).String(),
				Kind: DiffAdded,
				Got:  got.fields[k].ToAny(),
			})
		}
	}
}

func diffArray(path jp.Expr, want, got Value, edits *[]Edit) {
	shorter := len(want.items)
	if len(got.items) < shorter {
		shorter = len(got.items)
	}
	for i := 0; i < shorter; i++ {
		diffNode(path.N(i), want.items[i], got.items[i], edits)
	}
	for i := shorter; i < len(want.items); i++ {
		*edits = append(*edits, Edit{
			Path: path.N(i).String(),
			Kind: DiffRemoved,
			Want: want.items[i].ToAny(),
		})
	}
	for i := shorter; i < len(got.items); i++ {
		*edits = append(*edits, Edit{
			Path: path.N(i).String(),
			Kind: DiffAdded,
			Got:  got.items[i].ToAny(),
		})
	}
}
