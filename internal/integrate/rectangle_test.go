package integrate

import (
	"errors"
	"math"
	"testing"

	apperrors "github.com/agbru/integbench/internal/errors"
)

func TestIntegrateSine(t *testing.T) {
	t.Parallel()
	got, err := Integrate(Pure(math.Sin), 0, math.Pi, 300_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-2) > 1e-4 {
		t.Errorf("integral of sin over [0, π] = %.10f, want 2 ± 1e-4", got)
	}
}

func TestIntegrateSquareConverges(t *testing.T) {
	t.Parallel()
	square := Pure(func(x float64) float64 { return x * x })
	coarse, err := Integrate(square, 0, 1, 10_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fine, err := Integrate(square, 0, 1, 200_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	coarseErr, fineErr := math.Abs(coarse-1.0/3), math.Abs(fine-1.0/3)
	if fineErr >= coarseErr {
		t.Errorf("error did not shrink: n=10000 -> %g, n=200000 -> %g", coarseErr, fineErr)
	}
}

func TestIntegrateKnownValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		f    Func
		a, b float64
		n    int
		want float64
	}{
		{"constant", Pure(func(float64) float64 { return 3 }), 0, 2, 7, 6},
		{"identity left sum", Pure(func(x float64) float64 { return x }), 0, 1, 4, 0.375},
		{"reversed interval", Pure(func(float64) float64 { return 1 }), 1, 0, 10, -1},
		{"empty interval", Pure(math.Sin), 1, 1, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Integrate(tt.f, tt.a, tt.b, tt.n)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntegrateInvalidIters(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, -5} {
		called := false
		f := func(float64) (float64, error) {
			called = true
			return 0, nil
		}
		if _, err := Integrate(f, 0, 1, n); !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Errorf("n=%d: expected ErrInvalidArgument, got %v", n, err)
		}
		if called {
			t.Errorf("n=%d: integrand must not be evaluated", n)
		}
		if _, err := SumSine(0, 1, n); !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Errorf("SumSine n=%d: expected ErrInvalidArgument, got %v", n, err)
		}
	}
}

func TestIntegrateIntegrandError(t *testing.T) {
	t.Parallel()
	calls := 0
	f := func(x float64) (float64, error) {
		calls++
		if x >= 0.5 {
			return 0, errOutOfDomain
		}
		return 1, nil
	}

	got, err := Integrate(f, 0, 1, 10)
	if got != 0 {
		t.Errorf("expected no partial result, got %v", got)
	}
	if !errors.Is(err, errOutOfDomain) {
		t.Fatalf("expected errOutOfDomain in the chain, got %v", err)
	}
	var ie apperrors.IntegrandError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IntegrandError, got %T", err)
	}
	if ie.X != 0.5 {
		t.Errorf("expected failure at x=0.5, got %g", ie.X)
	}
	if calls != 6 {
		t.Errorf("expected evaluation to stop at the first failure (6 calls), got %d", calls)
	}
}

func TestSumSineMatchesGeneric(t *testing.T) {
	t.Parallel()
	generic, err := Integrate(Pure(math.Sin), -1, 2.5, 50_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	specialized, err := SumSine(-1, 2.5, 50_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(generic-specialized) > 1e-12 {
		t.Errorf("generic %v and specialized %v disagree", generic, specialized)
	}
}
