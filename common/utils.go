package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp bounds v to the closed interval [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: lower bound
//   - hi: upper bound
//
// Returns:
//   - T: v limited to [lo, hi]
func Clamp[T ~float32 | ~float64 | ~int](v, lo, hi T) T {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}
