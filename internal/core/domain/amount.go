// internal/core/domain/amount.go
package domain

import "math"

// MulAmount returns a*b for non-negative operands and reports whether the
// product fits in an int64.
func MulAmount(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > math.MaxInt64/a {
		return 0, false
	}
	return a * b, true
}

// AddAmount returns a+b and reports whether the sum fits in an int64.
func AddAmount(a, b int64) (int64, bool) {
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		return 0, false
	}
	return sum, true
}

// SaturatingMul is MulAmount clamped to math.MaxInt64.
func SaturatingMul(a, b int64) int64 {
	if p, ok := MulAmount(a, b); ok {
		return p
	}
	return math.MaxInt64
}

// SaturatingAdd is AddAmount clamped to the int64 range.
func SaturatingAdd(a, b int64) int64 {
	if s, ok := AddAmount(a, b); ok {
		return s
	}
	if a > 0 {
		return math.MaxInt64
	}
	return math.MinInt64
}
