package integrate

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

// errOutOfDomain is returned by the failing test integrand for x > 0.5.
var errOutOfDomain = errors.New("out of domain")

const failingIntegrand = "test-fail-above-half"

func init() {
	// Registered in init so that re-executed worker processes see it too.
	DefaultRegistry().MustRegister(Integrand{
		Name: failingIntegrand,
		Fn: func(x float64) (float64, error) {
			if x > 0.5 {
				return 0, fmt.Errorf("evaluating %g: %w", x, errOutOfDomain)
			}
			return x, nil
		},
		Errors: []error{errOutOfDomain},
	})
}

// TestMain lets the isolated strategy re-execute the test binary as a worker.
func TestMain(m *testing.M) {
	if IsWorkerProcess() {
		if err := ServeWorker(os.Stdin, os.Stdout, DefaultRegistry()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}
