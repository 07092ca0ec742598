package accuracy

import "math"

// scale is the number of fractional bits of the fixed-point accumulator.
// The product of two float64 values, subnormals included, is an exact
// multiple of 2^-2252, so every product is an integer at this scale.
const scale = 2300

// Accumulator sums products of float64 values without rounding.
type Accumulator interface {
	// AddProduct adds y·step exactly.
	AddProduct(y, step float64)
	// Float64 returns the sum rounded to the nearest float64.
	Float64() float64
}

// decompose splits a finite v into an integer mantissa and a binary exponent
// with v = m·2^e exactly.
func decompose(v float64) (m int64, e int) {
	frac, exp := math.Frexp(v)
	return int64(frac * (1 << 53)), exp - 53
}
