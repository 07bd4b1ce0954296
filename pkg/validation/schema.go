// Package validation enforces presence, type, and numeric range constraints
// over observational records before any metric formula touches them. It is
// the shared front door for the ecological and financial calculators:
// single-value checks for scalar metrics, full-batch checks that report
// every violation with its record index, and a screening mode that skips
// invalid records instead of aborting the batch.
//
// All functions are pure predicates: records are never mutated and a
// conforming input passes silently.
package validation

// Record is one observational unit (a habitat parcel, a species trait
// profile, a presence/absence observation): a mapping from field name to
// value. Values are untyped at rest; a Schema imposes structure before use.
type Record map[string]any

// ValueType identifies a primitive kind a schema field may accept.
type ValueType string

// Supported primitive kinds. Booleans are a distinct kind: a schema that
// wants to accept them as 0/1 numerics lists TypeBool explicitly.
const (
	TypeString ValueType = "string"
	TypeFloat  ValueType = "float"
	TypeInt    ValueType = "int"
	TypeBool   ValueType = "bool"
)

// TypeOf classifies a runtime value into a ValueType. The second return is
// false for values outside the supported primitive kinds.
func TypeOf(v any) (ValueType, bool) {
	switch v.(type) {
	case bool:
		return TypeBool, true
	case string:
		return TypeString, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt, true
	case float32, float64:
		return TypeFloat, true
	}
	return "", false
}

// Float extracts a numeric value from a record field. Integers widen to
// float64 and booleans map to 0/1. The second return is false for strings
// and unsupported kinds.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Constraint describes what a schema field accepts: a set of primitive
// types and, optionally, an inclusive numeric range. The parts are
// independent, so a field may constrain type only, range only, or both.
type Constraint struct {
	Types    []ValueType
	Min, Max float64
	HasRange bool
}

// Schema maps field names to their constraints.
type Schema map[string]Constraint

// Types builds a type-only constraint.
func Types(types ...ValueType) Constraint {
	return Constraint{Types: types}
}

// TypedRange builds a constraint accepting the given types with an
// inclusive numeric range.
func TypedRange(min, max float64, types ...ValueType) Constraint {
	return Constraint{Types: types, Min: min, Max: max, HasRange: true}
}

// Numeric builds a constraint accepting int or float values.
func Numeric() Constraint {
	return Types(TypeInt, TypeFloat)
}

// NumericRange builds a constraint accepting int or float values within an
// inclusive range.
func NumericRange(min, max float64) Constraint {
	return TypedRange(min, max, TypeInt, TypeFloat)
}
