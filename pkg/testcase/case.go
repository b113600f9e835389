// Package testcase defines the recorded-exchange data model and the key
// derivation used for exact case lookup.
package testcase

import (
	"fmt"
)

// Well-known record fields. These match the corpus file format, which uses
// human-readable names with spaces.
const (
	FieldID             = "id"
	FieldDescription    = "description"
	FieldMethod         = "method"
	FieldURL            = "url"
	FieldRequestBody    = "request body"
	FieldRequestHeaders = "request headers"
	FieldResponseStatus = "response status"
	FieldResponseBody   = "response body"
)

// Case is one recorded request/response exchange. The full record is kept as
// a field mapping so that merges and exports preserve the original
// definition losslessly; typed accessors cover the well-known fields.
//
// A Case is immutable after loading. Key and Seq are assigned by the loader.
type Case struct {
	// Fields is the effective record: the on-disk definition with any
	// committed and pending augmentation data applied.
	Fields map[string]any

	// Key is the derived lookup key, computed from the on-disk definition
	// (augmentation never changes a case's identity).
	Key *Key

	// Source is the file the case was loaded from.
	Source string

	// Seq is the position in corpus order, used as the deterministic
	// secondary order among candidates at equal distance.
	Seq int
}

// ID returns the case identifier: the explicit "id" field when present,
// otherwise the key digest.
func (c *Case) ID() string {
	if id, ok := c.Fields[FieldID].(string); ok && id != "" {
		return id
	}
	return c.Key.Digest()
}

// Description returns the optional human-readable description.
func (c *Case) Description() string {
	d, _ := c.Fields[FieldDescription].(string)
	return d
}

// Method returns the HTTP method, defaulting to GET when absent.
func (c *Case) Method() string {
	m, _ := c.Fields[FieldMethod].(string)
	if m == "" {
		return "GET"
	}
	return m
}

// URL returns the request URL (path plus optional query string).
func (c *Case) URL() string {
	u, _ := c.Fields[FieldURL].(string)
	return u
}

// RequestBody returns the recorded request body and whether one is present.
func (c *Case) RequestBody() (any, bool) {
	b, ok := c.Fields[FieldRequestBody]
	return b, ok
}

// ResponseStatus returns the recorded response status and whether one is
// present.
func (c *Case) ResponseStatus() (int, bool) {
	switch s := c.Fields[FieldResponseStatus].(type) {
	case int:
		return s, true
	case int64:
		return int(s), true
	case float64:
		return int(s), true
	default:
		return 0, false
	}
}

// Validate checks the structural requirements for a loadable case record.
func (c *Case) Validate() error {
	if _, ok := c.Fields[FieldURL].(string); !ok {
		return fmt.Errorf("case record is missing a %q string field", FieldURL)
	}
	if m, ok := c.Fields[FieldMethod]; ok {
		if _, isStr := m.(string); !isStr {
			return fmt.Errorf("case record field %q must be a string, got %T", FieldMethod, m)
		}
	}
	return nil
}

// ResponseFields returns a copy of the effective record with the response
// status defaulted. Exact-match responses always carry a response status.
func (c *Case) ResponseFields(defaultStatus int) map[string]any {
	out := make(map[string]any, len(c.Fields)+1)
	for k, v := range c.Fields {
		out[k] = v
	}
	if _, ok := out[FieldResponseStatus]; !ok {
		out[FieldResponseStatus] = defaultStatus
	}
	return out
}
