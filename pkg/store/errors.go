package store

import (
	"fmt"
)

// DataError reports a problem in the case corpus itself: an unreadable or
// malformed case file, an invalid record, or a collision between records.
// Callers branch on it for exit-code selection.
type DataError struct {
	File   string
	CaseID string
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	msg := "case data"
	if e.File != "" {
		msg += " " + e.File
	}
	if e.CaseID != "" {
		msg += fmt.Sprintf(" (case %s)", e.CaseID)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataError) Unwrap() error { return e.Err }
