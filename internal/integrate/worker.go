package integrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	apperrors "github.com/agbru/integbench/internal/errors"
)

// WorkerEnv is the environment variable that switches the binary into worker
// mode. A worker reads one Task from stdin, writes one TaskResult to stdout
// and exits.
const WorkerEnv = "INTEGBENCH_WORKER"

// IsWorkerProcess reports whether the current process was started as a worker.
func IsWorkerProcess() bool {
	return os.Getenv(WorkerEnv) == "1"
}

// Task is the message sent to a worker process: one sub-job of a named integrand.
type Task struct {
	Integrand string  `json:"integrand"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Iters     int     `json:"iters"`
}

// Result kinds reported by a worker.
const (
	KindIntegrand = "integrand" // the integrand returned an error
	KindTransfer  = "transfer"  // the task could not be decoded or resolved
	KindInvalid   = "invalid"   // the task carried invalid counts
)

// TaskResult is the message a worker writes back. Error is empty on success.
type TaskResult struct {
	Value float64 `json:"value"`
	Error string  `json:"error,omitempty"`
	Kind  string  `json:"kind,omitempty"`
	// X is the failing abscissa when Kind is KindIntegrand.
	X float64 `json:"x,omitempty"`
	// Sentinel is the 1-based index into the integrand's Errors of the
	// sentinel matched by the failure, or 0.
	Sentinel int `json:"sentinel,omitempty"`
}

// ServeWorker handles exactly one task: it decodes a Task from r, resolves
// the integrand in reg, sums the sub-job with the generic kernel and encodes
// a TaskResult to w.
//
// Failures of the task itself are reported inside the TaskResult. The
// returned error is non-nil only when the result could not be written.
func ServeWorker(r io.Reader, w io.Writer, reg *Registry) error {
	res := serveTask(r, reg)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		return fmt.Errorf("encoding task result: %w", err)
	}
	return nil
}

func serveTask(r io.Reader, reg *Registry) TaskResult {
	var task Task
	if err := json.NewDecoder(r).Decode(&task); err != nil {
		return TaskResult{Kind: KindTransfer, Error: fmt.Sprintf("decoding task: %v", err)}
	}
	if err := checkIters(task.Iters); err != nil {
		return TaskResult{Kind: KindInvalid, Error: err.Error()}
	}
	in, err := reg.Get(task.Integrand)
	if err != nil {
		return TaskResult{Kind: KindTransfer, Error: err.Error()}
	}

	v, err := GenericKernel{F: in}.Sum(SubJob{A: task.A, B: task.B, Iters: task.Iters})
	if err != nil {
		res := TaskResult{Kind: KindIntegrand, Error: err.Error()}
		var ie apperrors.IntegrandError
		if errors.As(err, &ie) {
			res.X = ie.X
			res.Error = ie.Cause.Error()
			res.Sentinel = sentinelIndex(in, ie.Cause)
		}
		return res
	}
	return TaskResult{Value: v}
}

func sentinelIndex(in Integrand, err error) int {
	for i, sentinel := range in.Errors {
		if errors.Is(err, sentinel) {
			return i + 1
		}
	}
	return 0
}

// remoteError is an integrand failure reported by a worker. It carries the
// worker's message and, when the worker identified one, unwraps to the
// matching sentinel of the parent's integrand.
type remoteError struct {
	msg      string
	sentinel error
}

func (e remoteError) Error() string { return e.msg }
func (e remoteError) Unwrap() error { return e.sentinel }

// resultError converts a failed TaskResult into the error the parent returns.
func resultError(in Integrand, res TaskResult) error {
	switch res.Kind {
	case KindIntegrand:
		cause := remoteError{msg: res.Error}
		if res.Sentinel > 0 && res.Sentinel <= len(in.Errors) {
			cause.sentinel = in.Errors[res.Sentinel-1]
		}
		return apperrors.IntegrandError{Integrand: in.Name, X: res.X, Cause: cause}
	case KindInvalid:
		return apperrors.NewInvalidArgument("n_iter", "rejected by worker: %s", res.Error)
	default:
		return apperrors.TransferError{Integrand: in.Name, Cause: errors.New(res.Error)}
	}
}
