package accuracy

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/integbench/internal/errors"
	"github.com/agbru/integbench/internal/integrate"
)

func TestAccumulatorExact(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		pairs [][2]float64
		want  float64
	}{
		{"empty", nil, 0},
		{"single product", [][2]float64{{3, 0.5}}, 1.5},
		{"cancellation", [][2]float64{{1e300, 1e8}, {1, 1}, {-1e300, 1e8}}, 1},
		{"tiny terms survive", [][2]float64{{1, 1}, {1e-20, 1}, {-1, 1}}, 1e-20},
		{"subnormal product", [][2]float64{{5e-324, 0.5}, {5e-324, 0.5}}, 5e-324},
		{"negative", [][2]float64{{-2, 0.25}, {-2, 0.25}}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			acc := NewAccumulator()
			for _, p := range tt.pairs {
				acc.AddProduct(p[0], p[1])
			}
			if got := acc.Float64(); got != tt.want {
				t.Errorf("sum = %g, want %g (backend %s)", got, tt.want, Backend)
			}
		})
	}
}

// TestAccumulatorOrderIndependent_PropertyBased checks that the exact sum does
// not depend on the order of the terms.
func TestAccumulatorOrderIndependent_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("forward and reverse sums agree", prop.ForAll(
		func(values []float64) bool {
			fwd, rev := NewAccumulator(), NewAccumulator()
			for i := range values {
				fwd.AddProduct(values[i], 0.001)
				rev.AddProduct(values[len(values)-1-i], 0.001)
			}
			return fwd.Float64() == rev.Float64()
		},
		gen.SliceOf(gen.Float64Range(-1e12, 1e12)),
	))

	properties.TestingRun(t)
}

func TestAnalyze(t *testing.T) {
	t.Parallel()
	sin, err := integrate.Lookup(integrate.Sin)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := Analyze(sin, 0, math.Pi, []int{1000, 100_000})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if !r.HasExact || math.Abs(r.Exact-2) > 1e-15 {
			t.Errorf("iters=%d: exact = %v", r.Iters, r.Exact)
		}
		if math.Abs(r.Naive-r.Riemann-r.RoundingError) > 0 {
			t.Errorf("iters=%d: rounding error inconsistent", r.Iters)
		}
		if math.Abs(r.RoundingError) > 1e-9 {
			t.Errorf("iters=%d: rounding error %g unexpectedly large", r.Iters, r.RoundingError)
		}
	}
	if math.Abs(rows[1].RuleError) >= math.Abs(rows[0].RuleError) {
		t.Errorf("rule error should shrink with n: %g -> %g", rows[0].RuleError, rows[1].RuleError)
	}
}

func TestAnalyzeWithoutPrimitive(t *testing.T) {
	t.Parallel()
	f := integrate.Anonymous(integrate.Pure(func(x float64) float64 { return x }))
	rows, err := Analyze(f, 0, 1, []int{4})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rows[0].HasExact || rows[0].RuleError != 0 {
		t.Errorf("no primitive: expected no exact value, got %+v", rows[0])
	}
	if rows[0].Riemann != 0.375 {
		t.Errorf("Riemann = %v, want 0.375", rows[0].Riemann)
	}
}

func TestExactRiemannSumErrors(t *testing.T) {
	t.Parallel()
	errBad := errors.New("bad sample")
	failing := func(x float64) (float64, error) { return 0, errBad }

	if _, err := ExactRiemannSum(integrate.Pure(math.Sin), 0, 1, 0); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := ExactRiemannSum(failing, 0, 1, 3); !errors.Is(err, errBad) {
		t.Errorf("expected the integrand error, got %v", err)
	}
	if _, err := ExactRiemannSum(integrate.Pure(func(float64) float64 { return math.Inf(1) }), 0, 1, 3); err == nil {
		t.Error("expected an error for a non-finite sample")
	}
	if _, err := Analyze(integrate.Anonymous(failing), 0, 1, []int{3}); !errors.Is(err, errBad) {
		t.Errorf("Analyze should propagate the integrand error, got %v", err)
	}
}
