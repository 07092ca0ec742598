package integrate

import (
	"fmt"
	"sync"

	apperrors "github.com/agbru/integbench/internal/errors"
)

// Kernel computes the partial result of one sub-job. The two variants differ
// in how the integrand is reached: GenericKernel calls back into a Func for
// every sample, SpecializedKernel runs a closed-form loop selected by id.
type Kernel interface {
	Name() string
	Sum(job SubJob) (float64, error)
}

// GenericKernel evaluates a caller-supplied integrand.
type GenericKernel struct {
	F Integrand
}

// Name implements Kernel.
func (k GenericKernel) Name() string { return "generic(" + displayName(k.F) + ")" }

// Sum implements Kernel.
func (k GenericKernel) Sum(job SubJob) (float64, error) {
	if job.Iters <= 0 {
		return 0, nil
	}
	return rectangleSum(k.F.Fn, k.F.Name, job.A, job.B, job.Iters)
}

// FunctionID identifies a closed-form integrand compiled into a specialized kernel.
type FunctionID int

// Known specialized functions.
const (
	SineID FunctionID = iota
)

func (id FunctionID) String() string {
	switch id {
	case SineID:
		return Sin
	default:
		return fmt.Sprintf("function(%d)", int(id))
	}
}

// SpecializedKernel runs the rectangle loop with the integrand inlined.
type SpecializedKernel struct {
	ID FunctionID
}

// Name implements Kernel.
func (k SpecializedKernel) Name() string { return "specialized(" + k.ID.String() + ")" }

// Sum implements Kernel.
func (k SpecializedKernel) Sum(job SubJob) (float64, error) {
	switch k.ID {
	case SineID:
		return sineSum(job.A, job.B, job.Iters), nil
	default:
		return 0, fmt.Errorf("no specialized kernel for %s", k.ID)
	}
}

// DefaultSwitchInterval is the number of evaluations a LockedKernel performs
// per lock acquisition.
const DefaultSwitchInterval = 1000

// interpreterLock is shared by every LockedKernel in the process.
var interpreterLock sync.Mutex

// LockedKernel is a GenericKernel that must hold a single process-wide lock
// while it evaluates the integrand, releasing it every SwitchInterval samples.
// Concurrent LockedKernels therefore make progress one at a time.
type LockedKernel struct {
	F              Integrand
	SwitchInterval int
}

// Name implements Kernel.
func (k LockedKernel) Name() string { return "locked(" + displayName(k.F) + ")" }

// Sum implements Kernel.
func (k LockedKernel) Sum(job SubJob) (float64, error) {
	if job.Iters <= 0 {
		return 0, nil
	}
	slice := k.SwitchInterval
	if slice <= 0 {
		slice = DefaultSwitchInterval
	}

	step := (job.B - job.A) / float64(job.Iters)
	acc := 0.0
	for start := 0; start < job.Iters; start += slice {
		end := min(start+slice, job.Iters)
		var err error
		interpreterLock.Lock()
		acc, err = rectangleSlice(k.F, job.A, step, start, end, acc)
		interpreterLock.Unlock()
		if err != nil {
			return 0, err
		}
	}
	return acc, nil
}

// rectangleSlice adds samples start..end-1 of a rectangle sum whose first
// sample is at a onto acc. Chaining slices performs the same additions, in
// the same order, as rectangleSum.
func rectangleSlice(in Integrand, a, step float64, start, end int, acc float64) (float64, error) {
	for i := start; i < end; i++ {
		x := a + float64(i)*step
		y, err := in.Fn(x)
		if err != nil {
			return 0, apperrors.IntegrandError{Integrand: in.Name, X: x, Cause: err}
		}
		acc += y * step
	}
	return acc, nil
}

func displayName(in Integrand) string {
	if in.Name == "" {
		return "anonymous"
	}
	return in.Name
}
