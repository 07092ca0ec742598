package accuracy

import (
	"fmt"
	"math"

	apperrors "github.com/agbru/integbench/internal/errors"
	"github.com/agbru/integbench/internal/integrate"
)

// Row is the error breakdown at one iteration count.
type Row struct {
	Iters int `json:"iters"`
	// Naive is the float64 rectangle sum as computed by integrate.Integrate.
	Naive float64 `json:"naive"`
	// Riemann is the same rectangle sum accumulated exactly.
	Riemann float64 `json:"riemann"`
	// Exact is the closed-form integral, when known.
	Exact    float64 `json:"exact,omitempty"`
	HasExact bool    `json:"has_exact"`
	// RuleError is Riemann - Exact.
	RuleError float64 `json:"rule_error,omitempty"`
	// RoundingError is Naive - Riemann.
	RoundingError float64 `json:"rounding_error"`
}

// Analyze computes a Row for every iteration count. It evaluates f twice per
// sample and returns the first error from either pass.
func Analyze(f integrate.Integrand, a, b float64, iters []int) ([]Row, error) {
	rows := make([]Row, 0, len(iters))
	for _, n := range iters {
		naive, err := integrate.Integrate(f.Fn, a, b, n)
		if err != nil {
			return nil, err
		}
		riemann, err := ExactRiemannSum(f.Fn, a, b, n)
		if err != nil {
			return nil, err
		}
		row := Row{Iters: n, Naive: naive, Riemann: riemann, RoundingError: naive - riemann}
		if exact, ok := f.Exact(a, b); ok {
			row.Exact, row.HasExact = exact, true
			row.RuleError = riemann - exact
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ExactRiemannSum evaluates the same samples as integrate.Integrate and sums
// them without rounding, returning the result rounded once to float64.
// Non-finite samples cannot be accumulated exactly and are reported as errors.
func ExactRiemannSum(f integrate.Func, a, b float64, n int) (float64, error) {
	if n <= 0 {
		return 0, apperrors.NewInvalidArgument("n_iter", "must be positive, got %d", n)
	}
	acc := NewAccumulator()
	step := (b - a) / float64(n)
	for i := 0; i < n; i++ {
		x := a + float64(i)*step
		y, err := f(x)
		if err != nil {
			return 0, apperrors.IntegrandError{X: x, Cause: err}
		}
		if math.IsInf(y, 0) || math.IsNaN(y) || math.IsInf(step, 0) || math.IsNaN(step) {
			return 0, fmt.Errorf("non-finite sample %g at x=%g", y, x)
		}
		acc.AddProduct(y, step)
	}
	return acc.Float64(), nil
}
