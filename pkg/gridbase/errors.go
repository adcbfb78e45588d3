package gridbase

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by KV.Get when no row exists for the key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrBookingFailed is returned when a scratchpad cell could not be claimed.
	ErrBookingFailed = errors.New("failed to book scratchpad cell")

	// ErrClosed is returned when an operation is attempted on a released resource.
	ErrClosed = errors.New("resource is closed")
)

// ParseError reports A1 notation that could not be parsed.
type ParseError struct {
	Notation string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid A1 notation %q", e.Notation)
}

// SchemaError reports a column that does not fit the declared schema:
// an unknown column in a filter or row, or a header that does not match.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("schema error: %s", e.Reason)
	}
	return fmt.Sprintf("schema error: column %q: %s", e.Column, e.Reason)
}

// UnsupportedTypeError reports a query column type the decoder cannot interpret.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("cell type %q is not supported", e.Type)
}
