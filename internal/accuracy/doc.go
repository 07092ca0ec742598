// Package accuracy separates the two error sources of the rectangle rule:
// the rule error of the left Riemann sum itself and the rounding error of
// accumulating it in a plain float64.
//
// The Riemann sum is recomputed with an exact fixed-point accumulator over
// the same float64 samples, so the difference to the naive result is pure
// summation rounding. The default accumulator uses math/big; building with
// the gmp tag switches to GMP through github.com/ncw/gmp.
package accuracy
