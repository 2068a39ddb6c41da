package common

import "fmt"

// The acquisition core never surfaces "no data" as an error: absence is an
// empty row list. These types exist so callers and tests can still tell
// expected absence apart from malformed input, missing reference data, and
// genuine upstream failure.

// ValidationError reports a malformed caller-supplied parameter (bad date
// string, out-of-range numeric argument). Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a name that has no record in the reference catalog.
type NotFoundError struct {
	Kind string // "state", "district", "market", "commodity", "metadata file"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Name)
}

// ParseError reports a report payload that could not be decoded into a grid.
// The orchestrator treats it as zero rows for the affected date.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse report %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
