package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTableNotFound is returned when no rainfall amounts heading exists in the document.
	ErrTableNotFound = errors.New("rainfall amounts table not found")

	// ErrParseFailure is returned when a table was located but no cell could be read.
	ErrParseFailure = errors.New("parsed zero rows from rainfall table (format mismatch?)")

	// ErrSourceNotFound is returned by document sources for unknown identifiers.
	ErrSourceNotFound = errors.New("source document not found")

	// ErrStationNotFound is returned when no station matches a place query.
	ErrStationNotFound = errors.New("no station matched the query")

	// ErrInvalidRequest is returned for parse request messages that cannot be acted on.
	ErrInvalidRequest = errors.New("invalid parse request")

	// ErrInvalidUnitSystem is returned for unit systems other than metric or imperial.
	ErrInvalidUnitSystem = errors.New("invalid unit system")
)

// ParseError carries the first body lines of a table that yielded no cells,
// so callers can show what the parser was looking at.
type ParseError struct {
	Preview []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %d preview lines", ErrParseFailure.Error(), len(e.Preview))
}

// Unwrap lets errors.Is match ErrParseFailure.
func (e *ParseError) Unwrap() error { return ErrParseFailure }
