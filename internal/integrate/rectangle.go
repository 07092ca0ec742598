package integrate

import (
	"math"

	apperrors "github.com/agbru/integbench/internal/errors"
)

// Integrate approximates the integral of f over [a, b] with n left-endpoint
// rectangles:
//
//	step = (b - a) / n
//	result = Σ f(a + i·step)·step, i = 0..n-1
//
// The sum is a plain running float64 accumulation. No compensation is
// applied, so rounding error grows with n while the rule error shrinks.
// A reversed interval (b < a) yields a result of opposite sign.
//
// It returns an error matching apperrors.ErrInvalidArgument when n <= 0, and
// an apperrors.IntegrandError wrapping f's error when f fails.
func Integrate(f Func, a, b float64, n int) (float64, error) {
	if err := checkIters(n); err != nil {
		return 0, err
	}
	return rectangleSum(f, "", a, b, n)
}

// SumSine is the specialized kernel for sin(x): the same rectangle loop with
// the integrand inlined, so no callback is made per sample.
func SumSine(a, b float64, n int) (float64, error) {
	if err := checkIters(n); err != nil {
		return 0, err
	}
	return sineSum(a, b, n), nil
}

func rectangleSum(f Func, name string, a, b float64, n int) (float64, error) {
	step := (b - a) / float64(n)
	acc := 0.0
	for i := 0; i < n; i++ {
		x := a + float64(i)*step
		y, err := f(x)
		if err != nil {
			return 0, apperrors.IntegrandError{Integrand: name, X: x, Cause: err}
		}
		acc += y * step
	}
	return acc, nil
}

func sineSum(a, b float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	step := (b - a) / float64(n)
	acc := 0.0
	for i := 0; i < n; i++ {
		acc += math.Sin(a+float64(i)*step) * step
	}
	return acc
}

func checkIters(n int) error {
	if n <= 0 {
		return apperrors.NewInvalidArgument("n_iter", "must be a positive integer, got %d", n)
	}
	return nil
}

func checkJobs(n int) error {
	if n <= 0 {
		return apperrors.NewInvalidArgument("n_jobs", "must be a positive integer, got %d", n)
	}
	return nil
}
