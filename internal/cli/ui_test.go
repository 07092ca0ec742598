package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/cli/mocks"
)

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	// Just verify these methods don't panic
	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
	if s.Suffix != " test" {
		t.Errorf("suffix = %q", s.Suffix)
	}
}

// Tests in this file replace the package-level newSpinner and must not run in parallel.

func TestSpinnerObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockS := mocks.NewMockSpinner(ctrl)

	originalNewSpinner := newSpinner
	t.Cleanup(func() { newSpinner = originalNewSpinner })
	created := 0
	newSpinner = func(io.Writer, ...spinner.Option) Spinner {
		created++
		return mockS
	}

	var suffixes []string
	gomock.InOrder(
		mockS.EXPECT().Start(),
		mockS.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) { suffixes = append(suffixes, s) }).Times(2),
		mockS.EXPECT().Stop(),
	)

	o := NewSpinnerObserver(io.Discard)
	first := benchmark.Case{Strategy: "sequential", Iters: 1000, Jobs: 1}
	second := benchmark.Case{Strategy: "shared", Iters: 1000, Jobs: 4}
	o.CaseStarted(0, 2, first)
	o.CaseFinished(0, 2, benchmark.CaseResult{Case: first})
	o.CaseStarted(1, 2, second)
	o.CaseFinished(1, 2, benchmark.CaseResult{Case: second})
	o.RunFinished(nil, time.Second)

	if created != 1 {
		t.Errorf("spinner created %d times, want 1", created)
	}
	if len(suffixes) != 2 {
		t.Fatalf("got %d suffix updates", len(suffixes))
	}
	for _, want := range []string{"(1/2)", first.String(), "0.0%"} {
		if !strings.Contains(suffixes[0], want) {
			t.Errorf("first suffix %q missing %q", suffixes[0], want)
		}
	}
	for _, want := range []string{"(2/2)", second.String(), "50.0%"} {
		if !strings.Contains(suffixes[1], want) {
			t.Errorf("second suffix %q missing %q", suffixes[1], want)
		}
	}
}

func TestSpinnerObserver_RunWithoutCases(t *testing.T) {
	originalNewSpinner := newSpinner
	t.Cleanup(func() { newSpinner = originalNewSpinner })
	newSpinner = func(io.Writer, ...spinner.Option) Spinner {
		t.Error("no spinner should be created for an empty run")
		return nil
	}

	o := NewSpinnerObserver(&bytes.Buffer{})
	o.RunFinished(nil, 0)
}
