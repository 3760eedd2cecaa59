package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResult means the provider found no events with references
	ErrEmptyResult = errors.New("no events with references were found")
	// ErrResultTruncated means the provider refused a search over its event limit
	ErrResultTruncated = errors.New("search limited to 500 seismic events")
	// ErrMalformedRow means a listing did not match the expected layout
	ErrMalformedRow = errors.New("malformed listing row")
)

// MalformedRowError describes where a listing stopped matching the layout.
// Line is the index of the event header the failure belongs to.
type MalformedRowError struct {
	Line   int
	Field  string
	Reason string
}

func (e *MalformedRowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("event at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("event at line %d: %s: %s", e.Line, e.Field, e.Reason)
}

func (e *MalformedRowError) Unwrap() error {
	return ErrMalformedRow
}

// StatusError carries the provider's status line for terminal responses
type StatusError struct {
	Err    error
	Status string
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}
