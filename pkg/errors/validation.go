package errors

import (
	"math"
	"unicode"
)

// maxIDLength bounds node and edge identifiers.
const maxIDLength = 256

// ValidateID validates a node or edge identifier.
//
// Identifiers end up as map keys, JSON object keys and URL path segments, so
// the rules are conservative:
//   - No empty ids
//   - No control characters (including null bytes)
//   - Maximum length of 256 bytes
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid control characters", kind)
		}
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values for the named parameter.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number, got %v", name, v)
	}
	return nil
}

// ValidateRange checks that v is finite and lies in [lo, hi].
// An open lower bound is expressed with loOpen, which rejects v == lo.
func ValidateRange(name string, v, lo, hi float64, loOpen bool) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < lo || v > hi || (loOpen && v == lo) {
		open := "["
		if loOpen {
			open = "("
		}
		return New(ErrCodeInvalidConfig, "%s must be in %s%g, %g], got %g", name, open, lo, hi, v)
	}
	return nil
}
