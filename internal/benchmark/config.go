package benchmark

import (
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/agbru/integbench/internal/errors"
	"github.com/agbru/integbench/internal/integrate"
)

// Config describes one benchmark run.
type Config struct {
	// Integrand is the registry name of the function to integrate.
	Integrand string `json:"integrand"`
	// A and B bound the integration interval.
	A float64 `json:"a"`
	B float64 `json:"b"`
	// Strategies lists strategy names. Sequential runs once per iteration
	// count; every other strategy runs once per (iters, jobs) pair.
	Strategies []string `json:"strategies"`
	Jobs       []int    `json:"jobs"`
	Iters      []int    `json:"iters"`
	// Repeats is the number of timed repetitions per case.
	Repeats int `json:"repeats"`
}

// Validate checks the configuration for values the driver cannot run.
func (c Config) Validate() error {
	if c.Integrand == "" {
		return apperrors.NewConfigError("no integrand selected")
	}
	if len(c.Strategies) == 0 {
		return apperrors.NewConfigError("no strategy selected")
	}
	if len(c.Iters) == 0 {
		return apperrors.NewConfigError("at least one iteration count is required")
	}
	if c.Repeats <= 0 {
		return apperrors.NewConfigError("repeats must be greater than zero, got %d", c.Repeats)
	}
	for _, n := range c.Iters {
		if n <= 0 {
			return apperrors.NewConfigError("iteration counts must be positive, got %d", n)
		}
	}
	for _, n := range c.Jobs {
		if n <= 0 {
			return apperrors.NewConfigError("job counts must be positive, got %d", n)
		}
	}
	parallelOnly := slices.ContainsFunc(c.Strategies, func(s string) bool { return s != integrate.StrategySequential })
	if parallelOnly && len(c.Jobs) == 0 {
		return apperrors.NewConfigError("at least one job count is required for parallel strategies")
	}
	if slices.Contains(c.Strategies, integrate.StrategyNative) && c.Integrand != integrate.Sin {
		return apperrors.NewConfigError("strategy %q only integrates %q, got integrand %q",
			integrate.StrategyNative, integrate.Sin, c.Integrand)
	}
	return nil
}

// Suite names.
const (
	SuiteBaseline = "baseline"
	SuiteParallel = "parallel"
	SuiteKernels  = "kernels"
	SuiteNative   = "native"
	SuiteAll      = "all"
)

var suites = map[string][]string{
	SuiteBaseline: {integrate.StrategySequential},
	SuiteParallel: {integrate.StrategySequential, integrate.StrategyShared, integrate.StrategyIsolated},
	SuiteKernels:  {integrate.StrategySequential, integrate.StrategyShared, integrate.StrategyNative},
	SuiteNative: {
		integrate.StrategySequential, integrate.StrategyShared,
		integrate.StrategyIsolated, integrate.StrategyNative,
	},
	SuiteAll: {
		integrate.StrategySequential, integrate.StrategyShared, integrate.StrategySharedLocked,
		integrate.StrategyIsolated, integrate.StrategyNative,
	},
}

// SuiteNames returns the known suite names in a stable order.
func SuiteNames() []string {
	return []string{SuiteBaseline, SuiteParallel, SuiteKernels, SuiteNative, SuiteAll}
}

// ApplySuite returns base with the strategies of the named suite. The
// kernels suite compares kernels on a single job, so it also pins Jobs to 1.
func ApplySuite(name string, base Config) (Config, error) {
	strategies, ok := suites[strings.ToLower(name)]
	if !ok {
		return base, apperrors.NewConfigError("unknown suite %q (available: %s)", name, strings.Join(SuiteNames(), ", "))
	}
	cfg := base
	cfg.Strategies = slices.Clone(strategies)
	if strings.EqualFold(name, SuiteKernels) {
		cfg.Jobs = []int{1}
	}
	return cfg, nil
}

// Case is one cell of the benchmark grid.
type Case struct {
	Strategy string `json:"strategy"`
	Iters    int    `json:"iters"`
	Jobs     int    `json:"jobs"`
}

func (c Case) String() string {
	return fmt.Sprintf("%s iters=%d jobs=%d", c.Strategy, c.Iters, c.Jobs)
}

// Plan expands a configuration into the ordered list of cases to run.
// Sequential cases come first so that the speedup baseline for every
// iteration count is known before the parallel cases finish.
func Plan(cfg Config) []Case {
	var cases []Case
	if slices.Contains(cfg.Strategies, integrate.StrategySequential) {
		for _, iters := range cfg.Iters {
			cases = append(cases, Case{Strategy: integrate.StrategySequential, Iters: iters, Jobs: 1})
		}
	}
	for _, name := range cfg.Strategies {
		if name == integrate.StrategySequential {
			continue
		}
		for _, iters := range cfg.Iters {
			for _, jobs := range cfg.Jobs {
				cases = append(cases, Case{Strategy: name, Iters: iters, Jobs: jobs})
			}
		}
	}
	return cases
}
