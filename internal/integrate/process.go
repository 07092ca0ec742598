package integrate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	apperrors "github.com/agbru/integbench/internal/errors"
	"github.com/agbru/integbench/internal/parallel"
)

// Launcher runs one task in a separate worker and returns its result.
// An error means the worker could not be driven to completion; failures of
// the task itself are reported inside the TaskResult.
type Launcher interface {
	Launch(ctx context.Context, task Task) (TaskResult, error)
}

// ProcessLauncher starts a fresh OS process per task. The process is the
// executable at Path run with WorkerEnv=1, so it must call ServeWorker when
// IsWorkerProcess reports true.
type ProcessLauncher struct {
	// Path is the executable to run. Empty means os.Executable().
	Path string
	// Args are extra command-line arguments passed to the worker.
	Args []string
}

// Launch implements Launcher.
func (l ProcessLauncher) Launch(ctx context.Context, task Task) (TaskResult, error) {
	path := l.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return TaskResult{}, fmt.Errorf("locating executable: %w", err)
		}
		path = exe
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return TaskResult{}, fmt.Errorf("encoding task: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, l.Args...)
	cmd.Env = append(os.Environ(), WorkerEnv+"=1")
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return TaskResult{}, fmt.Errorf("worker interrupted: %w", ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return TaskResult{}, fmt.Errorf("worker exited: %w: %s", err, msg)
		}
		return TaskResult{}, fmt.Errorf("worker exited: %w", err)
	}

	var res TaskResult
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return TaskResult{}, fmt.Errorf("decoding task result: %w", err)
	}
	return res, nil
}

// Isolated runs every sub-job in its own worker. Integrands cross the
// boundary by name, so they must be registered in Registry; anonymous or
// unknown integrands fail with apperrors.TransferError before any worker is
// started.
type Isolated struct {
	Launcher Launcher
	// Registry is the registry the workers resolve names in. Worker
	// processes started by ProcessLauncher use DefaultRegistry.
	Registry *Registry
}

// NewIsolated returns an Isolated strategy that re-executes the running
// binary and resolves integrands in the default registry.
func NewIsolated() Isolated {
	return Isolated{Launcher: ProcessLauncher{}, Registry: DefaultRegistry()}
}

// Name implements Strategy.
func (Isolated) Name() string { return StrategyIsolated }

// Integrate implements Strategy.
func (s Isolated) Integrate(ctx context.Context, f Integrand, a, b float64, nJobs, nIter int) (float64, error) {
	jobs, err := Partition(a, b, nJobs, nIter)
	if err != nil {
		return 0, err
	}
	if err := s.checkTransferable(f); err != nil {
		return 0, err
	}

	launcher := s.Launcher
	if launcher == nil {
		launcher = ProcessLauncher{}
	}
	// Sibling workers are killed through ctx as soon as one sub-job fails.
	return parallel.Sum(ctx, len(jobs), func(ctx context.Context, i int) (float64, error) {
		job := jobs[i]
		res, err := launcher.Launch(ctx, Task{Integrand: f.Name, A: job.A, B: job.B, Iters: job.Iters})
		if err != nil {
			return 0, apperrors.TransferError{Integrand: f.Name, Cause: err}
		}
		if res.Error != "" {
			return 0, resultError(f, res)
		}
		return res.Value, nil
	})
}

func (s Isolated) checkTransferable(f Integrand) error {
	if f.Name == "" {
		return apperrors.TransferError{Cause: errors.New("anonymous integrand cannot be sent to a worker process")}
	}
	reg := s.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	if !reg.Has(f.Name) {
		return apperrors.TransferError{Integrand: f.Name, Cause: fmt.Errorf("integrand is not in the worker registry (available: %s)", strings.Join(reg.List(), ", "))}
	}
	return nil
}
