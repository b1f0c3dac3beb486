package errors

import "math"

// ValidateIndex checks that index addresses an existing item in a sequence
// of count items. Out-of-range indices are contract violations; they are
// never clamped.
func ValidateIndex(what string, index, count int) error {
	if index < 0 || index >= count {
		return New(ErrCodeInvalidIndex, "%s index %d out of range [0,%d)", what, index, count)
	}
	return nil
}

// ValidateCount checks that an item count is non-negative.
func ValidateCount(count int) error {
	if count < 0 {
		return New(ErrCodeInvalidInput, "item count cannot be negative: %d", count)
	}
	return nil
}

// ValidateLength checks that a geometric length is finite and non-negative.
//
// Validation rules:
//   - NaN and infinities are rejected
//   - Negative values are rejected
//   - Zero is allowed (degenerate but valid)
func ValidateLength(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s cannot be negative: %v", name, v)
	}
	return nil
}

// ValidateUnit checks that v lies in the closed interval [0,1].
func ValidateUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be in [0,1], got %v", name, v)
	}
	return nil
}

// ValidateNonNegative checks that an integer setting is non-negative.
func ValidateNonNegative(name string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s cannot be negative: %d", name, v)
	}
	return nil
}
