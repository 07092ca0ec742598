package integrate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestServeWorker(t *testing.T) {
	t.Parallel()
	sinPart, err := GenericKernel{F: mustLookup(t, Sin)}.Sum(SubJob{A: 0, B: 1, Iters: 500})
	if err != nil {
		t.Fatalf("reference: %v", err)
	}

	tests := []struct {
		name      string
		input     string
		wantKind  string
		wantValue float64
		check     func(t *testing.T, res TaskResult)
	}{
		{
			name:      "sums the sub-job",
			input:     `{"integrand":"sin","a":0,"b":1,"iters":500}`,
			wantValue: sinPart,
		},
		{
			name:     "unknown integrand",
			input:    `{"integrand":"nope","a":0,"b":1,"iters":10}`,
			wantKind: KindTransfer,
		},
		{
			name:     "malformed task",
			input:    `{"integrand":`,
			wantKind: KindTransfer,
		},
		{
			name:     "non-positive iterations",
			input:    `{"integrand":"sin","a":0,"b":1,"iters":0}`,
			wantKind: KindInvalid,
		},
		{
			name:     "integrand failure",
			input:    `{"integrand":"test-fail-above-half","a":0.5,"b":1,"iters":4}`,
			wantKind: KindIntegrand,
			check: func(t *testing.T, res TaskResult) {
				if res.Sentinel != 1 {
					t.Errorf("expected sentinel 1, got %d", res.Sentinel)
				}
				if res.X != 0.625 {
					t.Errorf("expected failure at x=0.625, got %g", res.X)
				}
				if !strings.Contains(res.Error, "out of domain") {
					t.Errorf("unexpected message %q", res.Error)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			if err := ServeWorker(strings.NewReader(tt.input), &out, DefaultRegistry()); err != nil {
				t.Fatalf("ServeWorker: %v", err)
			}
			var res TaskResult
			if err := json.Unmarshal(out.Bytes(), &res); err != nil {
				t.Fatalf("decoding %q: %v", out.String(), err)
			}
			if res.Kind != tt.wantKind {
				t.Fatalf("kind = %q, want %q (error %q)", res.Kind, tt.wantKind, res.Error)
			}
			if tt.wantKind == "" && res.Value != tt.wantValue {
				t.Errorf("value = %v, want %v", res.Value, tt.wantValue)
			}
			if tt.wantKind != "" && res.Error == "" {
				t.Error("failed result must carry an error message")
			}
			if tt.check != nil {
				tt.check(t, res)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestServeWorkerWriteFailure(t *testing.T) {
	t.Parallel()
	err := ServeWorker(strings.NewReader(`{"integrand":"sin","a":0,"b":1,"iters":1}`), failingWriter{}, DefaultRegistry())
	if err == nil {
		t.Fatal("expected an error when the result cannot be written")
	}
}

func TestProcessLauncher(t *testing.T) {
	t.Parallel()
	res, err := ProcessLauncher{}.Launch(context.Background(), Task{Integrand: Exp, A: 0, B: 1, Iters: 10_000})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if res.Error != "" {
		t.Fatalf("worker reported %s: %s", res.Kind, res.Error)
	}
	if math.Abs(res.Value-(math.E-1)) > 1e-3 {
		t.Errorf("worker value %v, want ≈ e-1", res.Value)
	}
}

func TestProcessLauncherMissingBinary(t *testing.T) {
	t.Parallel()
	_, err := ProcessLauncher{Path: "/nonexistent/integbench-worker"}.Launch(context.Background(), Task{Integrand: Sin, Iters: 1})
	if err == nil {
		t.Fatal("expected an error for a missing executable")
	}
}

func TestProcessLauncherCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ProcessLauncher{}.Launch(ctx, Task{Integrand: Sin, Iters: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
