package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// NextPowerOfTwo returns the smallest power of two >= v (1 for v <= 1).
func NextPowerOfTwo[T constraints.Integer](v T) T {
	var p T = 1
	for p < v {
		p <<= 1
	}
	return p
}

// ClosestMSAAPower rounds a multisample count to the closest supported power
// of two. 0 and 1 both mean "no multisampling" and return 0.
func ClosestMSAAPower(value int32) int32 {
	if value <= 1 {
		return 0
	}
	result := NextPowerOfTwo(value)
	if result == value {
		return value
	}
	// pick the nearer of result and result/2
	if result-value > value-result/2 {
		return result / 2
	}
	return result
}
