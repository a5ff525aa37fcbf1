package core

import (
	"errors"
	"fmt"
)

// Field names used in MalformedInputError.
const (
	FieldDate       = "date"
	FieldAmount     = "amount"
	FieldRangeStart = "range.start"
	FieldRangeEnd   = "range.end"
)

// ErrInvalidRange is matched by every InvalidRangeError.
var ErrInvalidRange = errors.New("invalid date range")

// UnreadableSourceError means the uploaded ledger could not be parsed or lacks
// the expected sheet or columns.
type UnreadableSourceError struct {
	Source string
	Err    error
}

func (e *UnreadableSourceError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("unreadable ledger: %v", e.Err)
	}
	return fmt.Sprintf("unreadable ledger %s: %v", e.Source, e.Err)
}

func (e *UnreadableSourceError) Unwrap() error { return e.Err }

// MalformedInputError describes a single value that could not be interpreted.
// Row is the 1-based row number in the source, or 0 when the value does not
// come from a row.
type MalformedInputError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value"`
	Err   error  `json:"-"`
}

func (e *MalformedInputError) Error() string {
	msg := fmt.Sprintf("malformed %s %q", e.Field, e.Value)
	if e.Row > 0 {
		msg = fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// InvalidRangeError is returned for ranges whose start is after their end.
type InvalidRangeError struct {
	Start string
	End   string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s", e.Start, e.End)
}

func (e *InvalidRangeError) Is(target error) bool { return target == ErrInvalidRange }
