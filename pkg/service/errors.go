package service

import (
	"fmt"
)

// RequestFormatError reports a request record the oracle could not interpret:
// unparseable JSON, a non-object record, or a record that cannot yield a
// lookup key. It is reported inline as an error record and never terminates
// the session.
type RequestFormatError struct {
	Line int
	Err  error
}

func (e *RequestFormatError) Error() string {
	return fmt.Sprintf("request %d: %v", e.Line, e.Err)
}

func (e *RequestFormatError) Unwrap() error { return e.Err }
