package integrate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/agbru/integbench/internal/parallel"
)

// Strategy names.
const (
	StrategySequential   = "sequential"
	StrategyShared       = "shared"
	StrategySharedLocked = "shared-locked"
	StrategyIsolated     = "isolated"
	StrategyNative       = "native"
)

//go:generate mockgen -source=strategy.go -destination=mocks/mock_strategy.go -package=mocks

// Strategy is one way of executing the same integration workload.
//
// Implementations validate nJobs and nIter before starting any work (both
// positive, nIter at least nJobs, even when the work is not split), return
// the sum of the partial results of every sub-job, and fail as a whole when
// any sub-job fails. Partial sums are never returned alongside an error.
type Strategy interface {
	// Name returns the stable identifier used by the CLI and the reports.
	Name() string
	// Integrate approximates the integral of f over [a, b].
	Integrate(ctx context.Context, f Integrand, a, b float64, nJobs, nIter int) (float64, error)
}

// Sequential integrates on the calling goroutine with a single call of the
// rectangle rule. nJobs is validated like any other strategy but does not
// split the work.
type Sequential struct{}

// Name implements Strategy.
func (Sequential) Name() string { return StrategySequential }

// Integrate implements Strategy.
func (Sequential) Integrate(_ context.Context, f Integrand, a, b float64, nJobs, nIter int) (float64, error) {
	if err := checkCounts(nJobs, nIter); err != nil {
		return 0, err
	}
	return rectangleSum(f.Fn, f.Name, a, b, nIter)
}

// Shared runs one goroutine per sub-job, each calling back into the
// integrand for every sample.
type Shared struct{}

// Name implements Strategy.
func (Shared) Name() string { return StrategyShared }

// Integrate implements Strategy.
func (Shared) Integrate(ctx context.Context, f Integrand, a, b float64, nJobs, nIter int) (float64, error) {
	return runKernel(ctx, GenericKernel{F: f}, a, b, nJobs, nIter)
}

// SharedLocked is Shared with a process-wide lock around integrand
// evaluation. Goroutines hand the lock over every SwitchInterval samples, so
// the work is interleaved rather than parallel.
type SharedLocked struct {
	SwitchInterval int
}

// Name implements Strategy.
func (SharedLocked) Name() string { return StrategySharedLocked }

// Integrate implements Strategy.
func (s SharedLocked) Integrate(ctx context.Context, f Integrand, a, b float64, nJobs, nIter int) (float64, error) {
	return runKernel(ctx, LockedKernel{F: f, SwitchInterval: s.SwitchInterval}, a, b, nJobs, nIter)
}

// Native runs one goroutine per sub-job with the specialized sine kernel.
// The integrand argument is ignored: the result is always the integral of sin.
type Native struct{}

// Name implements Strategy.
func (Native) Name() string { return StrategyNative }

// Integrate implements Strategy.
func (Native) Integrate(ctx context.Context, _ Integrand, a, b float64, nJobs, nIter int) (float64, error) {
	return runKernel(ctx, SpecializedKernel{ID: SineID}, a, b, nJobs, nIter)
}

func runKernel(ctx context.Context, k Kernel, a, b float64, nJobs, nIter int) (float64, error) {
	jobs, err := Partition(a, b, nJobs, nIter)
	if err != nil {
		return 0, err
	}
	return parallel.Sum(ctx, len(jobs), func(_ context.Context, i int) (float64, error) {
		return k.Sum(jobs[i])
	})
}

// IntegrateShared integrates f with the Shared strategy.
func IntegrateShared(ctx context.Context, f Integrand, a, b float64, nJobs, nIter int) (float64, error) {
	return Shared{}.Integrate(ctx, f, a, b, nJobs, nIter)
}

// IntegrateIsolated integrates f with an Isolated strategy that re-executes
// the running binary for every sub-job.
func IntegrateIsolated(ctx context.Context, f Integrand, a, b float64, nJobs, nIter int) (float64, error) {
	return NewIsolated().Integrate(ctx, f, a, b, nJobs, nIter)
}

// IntegrateNative integrates sin over [a, b] with the Native strategy.
func IntegrateNative(ctx context.Context, a, b float64, nJobs, nIter int) (float64, error) {
	return Native{}.Integrate(ctx, Integrand{}, a, b, nJobs, nIter)
}

// StrategyFactory is a registry of named strategies.
type StrategyFactory struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewStrategyFactory returns an empty factory.
func NewStrategyFactory() *StrategyFactory {
	return &StrategyFactory{strategies: make(map[string]Strategy)}
}

// NewDefaultFactory returns a factory holding every built-in strategy.
func NewDefaultFactory() *StrategyFactory {
	f := NewStrategyFactory()
	for _, s := range []Strategy{Sequential{}, Shared{}, SharedLocked{}, NewIsolated(), Native{}} {
		// Names are distinct constants; Register cannot fail here.
		_ = f.Register(s)
	}
	return f
}

// Register adds s under s.Name(). Registering a name twice is an error.
func (f *StrategyFactory) Register(s Strategy) error {
	name := s.Name()
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.strategies[name]; exists {
		return fmt.Errorf("strategy %q already registered", name)
	}
	f.strategies[name] = s
	return nil
}

// Get returns the strategy registered under name.
func (f *StrategyFactory) Get(name string) (Strategy, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return s, nil
}

// List returns the registered names in sorted order.
func (f *StrategyFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.strategies))
	for name := range f.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns every registered strategy, ordered by name.
func (f *StrategyFactory) GetAll() []Strategy {
	names := f.List()
	f.mu.RLock()
	defer f.mu.RUnlock()
	all := make([]Strategy, 0, len(names))
	for _, name := range names {
		all = append(all, f.strategies[name])
	}
	return all
}
