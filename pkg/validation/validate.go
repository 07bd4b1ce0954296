package validation

import (
	"fmt"
	"math"
	"sort"
)

// Range checks that value lies within [min, max] inclusive. Non-finite
// values (NaN, ±Inf) are rejected explicitly before the bound comparison:
// NaN compares false against any bound, so an unguarded inclusive check
// would silently pass it through. Boundary values pass.
func Range(value, min, max float64, name string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < min || value > max {
		return RangeError{Field: name, Values: []float64{value}, Min: min, Max: max}
	}
	return nil
}

// ArrayValues checks every element of values against [min, max] inclusive
// and reports all offending values in a single RangeError.
func ArrayValues(values []float64, min, max float64, name string) error {
	var invalid []float64
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < min || v > max {
			invalid = append(invalid, v)
		}
	}
	if len(invalid) > 0 {
		return RangeError{Field: name, Values: invalid, Min: min, Max: max}
	}
	return nil
}

// Check validates a single record against the schema. Fields are checked in
// sorted name order so error output is deterministic; per field the order
// is presence, then type, then range. Every violation is collected into the
// returned Errors rather than stopping at the first. The index tags each
// violation with the record's position in its batch.
func Check(index int, rec Record, schema Schema) error {
	fields := make([]string, 0, len(schema))
	for f := range schema {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var errs Errors
	for _, field := range fields {
		c := schema[field]
		v, ok := rec[field]
		if !ok {
			errs = append(errs, MissingFieldError{Index: index, Field: field})
			continue
		}
		actual, known := TypeOf(v)
		if !known {
			actual = ValueType(fmt.Sprintf("%T", v))
		}
		if len(c.Types) > 0 && !accepted(actual, c.Types) {
			errs = append(errs, TypeMismatchError{
				Index:    index,
				Field:    field,
				Actual:   actual,
				Expected: c.Types,
			})
			continue
		}
		if !c.HasRange {
			continue
		}
		if n, numeric := Float(v); numeric {
			if err := Range(n, c.Min, c.Max, field); err != nil {
				errs = append(errs, fmt.Errorf("record %d: %w", index, err))
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Records validates every record in the batch, never stopping at the first
// failure, so callers can report per-record problems in one pass. The
// returned Errors lists each record's violations in batch order; nil when
// every record conforms.
func Records(records []Record, schema Schema) error {
	var errs Errors
	for i, rec := range records {
		err := Check(i, rec, schema)
		if err == nil {
			continue
		}
		if batch, ok := err.(Errors); ok {
			errs = append(errs, batch...)
		} else {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func accepted(actual ValueType, types []ValueType) bool {
	for _, t := range types {
		if t == actual {
			return true
		}
	}
	return false
}
