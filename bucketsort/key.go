package bucketsort

import (
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Key is the set of types that can be used as bucket keys.
//
// A key is mapped to its bucket by subtracting the lower bound of the declared
// range and casting the difference to an index. For integer keys that cast is
// exact whenever the range fits in memory. Floating-point keys are accepted as
// long as every difference is a whole number; a fractional or non-finite
// difference cannot be cast to an index without loss and is reported as
// [ErrCastOverflow].
type Key interface {
	constraints.Integer | constraints.Float
}

// Bounded is the set of key types with an intrinsic minimum and maximum, which
// are reported by [Bounds]. Only the fixed-width integers qualify; floats are
// valid keys for [SortByKey] but cannot be sorted over their whole domain.
type Bounded interface {
	constraints.Integer
}

// Bounds returns the smallest and largest values representable by K.
func Bounds[K Bounded]() (lo, hi K) {
	var zero K
	hi = ^zero
	if hi > zero {
		// Unsigned, so all ones is the maximum.
		return zero, hi
	}
	bits := 8 * unsafe.Sizeof(zero)
	hi = K(^uint64(0) >> (65 - bits))
	return -hi - 1, hi
}

// maxSpan is the largest span whose histogram of span+2 buckets still has an
// int length.
const maxSpan = math.MaxInt - 2

// maxFloatSpan bounds float spans to the range where every whole number is
// exactly representable as a float64.
const maxFloatSpan = 1 << 53

// isFloat reports whether K is a floating-point type. Folded by the compiler.
func isFloat[K Key]() bool {
	var half K = 1
	half /= 2
	return half != 0
}

// distance returns hi-lo as a bucket index. The caller guarantees lo <= hi. It
// returns false when the difference cannot be represented as an index without
// loss.
func distance[K Key](lo, hi K) (int, bool) {
	if isFloat[K]() {
		d := float64(hi) - float64(lo)
		if !(d >= 0 && d <= maxFloatSpan && d <= maxSpan) || d != math.Trunc(d) {
			return 0, false
		}
		return int(d), true
	}
	// Two's complement subtraction yields the right unsigned difference for
	// signed keys too, since lo <= hi.
	d := uint64(hi) - uint64(lo)
	if d > maxSpan {
		return 0, false
	}
	return int(d), true
}
