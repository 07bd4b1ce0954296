package validation

import (
	"fmt"
	"strings"
)

// MissingFieldError reports a required field absent from a record. Index
// identifies the record within the batch that was validated; scalar callers
// validating one record see index 0.
type MissingFieldError struct {
	Index int
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("record %d: missing input: %s", e.Index, e.Field)
}

// TypeMismatchError reports a field present with a value outside the
// accepted type set.
type TypeMismatchError struct {
	Index    int
	Field    string
	Actual   ValueType
	Expected []ValueType
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("record %d: field %s: got %s, want one of %v",
		e.Index, e.Field, e.Actual, e.Expected)
}

// RangeError reports numeric values outside declared inclusive bounds,
// non-finite values included. Values carries every offender, not just the
// first, so batch callers can report them all at once.
type RangeError struct {
	Field    string
	Values   []float64
	Min, Max float64
}

func (e RangeError) Error() string {
	if len(e.Values) == 1 {
		return fmt.Sprintf("%s must be between %v and %v, got %v",
			e.Field, e.Min, e.Max, e.Values[0])
	}
	return fmt.Sprintf("%s contains values outside [%v, %v]: %v",
		e.Field, e.Min, e.Max, e.Values)
}

// Errors aggregates multiple validation failures into one error. Unwrap
// exposes the members so errors.Is and errors.As reach into the batch.
type Errors []error

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e Errors) Unwrap() []error {
	return e
}
