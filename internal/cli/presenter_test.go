package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/integbench/internal/accuracy"
	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/metrics"
	"github.com/agbru/integbench/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

func sampleResults() []benchmark.CaseResult {
	return []benchmark.CaseResult{
		{Case: benchmark.Case{Strategy: "sequential", Iters: 100_000, Jobs: 1}, Value: 2, Duration: 40 * time.Millisecond,
			Throughput: 2.5e6, HasExact: true, Exact: 2, AbsError: 1e-9, Repeats: 3},
		{Case: benchmark.Case{Strategy: "shared", Iters: 100_000, Jobs: 2}, Value: 2, Duration: 20 * time.Millisecond,
			Throughput: 5e6, Speedup: 2, Efficiency: 1, Repeats: 3},
		{Case: benchmark.Case{Strategy: "shared", Iters: 100_000, Jobs: 4}, Value: 2, Duration: 12 * time.Millisecond,
			Throughput: 8.3e6, Speedup: 3.33, Efficiency: 0.83, Repeats: 3},
		{Case: benchmark.Case{Strategy: "isolated", Iters: 100_000, Jobs: 2}, Err: errors.New("worker exited")},
	}
}

func TestPrintRunConfig(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cfg := benchmark.Config{
		Integrand:  "sin",
		B:          3.14,
		Strategies: []string{"sequential", "shared"},
		Jobs:       []int{2, 4},
		Iters:      []int{2_000_000},
		Repeats:    3,
	}

	PrintRunConfig(cfg, time.Minute, &buf)

	output := buf.String()
	for _, want := range []string{"sin", "3 cases", "sequential, shared", "2,000,000", "2, 4", "logical processors"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRenderResultsTable(t *testing.T) {
	t.Parallel()
	out := RenderResultsTable(sampleResults())
	for _, want := range []string{"Strategy", "sequential", "100,000", "2.50 M/s", "3.33x", "83%", "FAILED: worker exited", "ok (err"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestResultColor(t *testing.T) {
	t.Parallel()
	theme := ui.DarkTUITheme
	color := resultColor(sampleResults(), theme)

	tests := []struct {
		name     string
		row, col int
		want     lipgloss.TerminalColor
	}{
		{"baseline efficiency", 0, efficiencyCol, theme.Dim},
		{"linear scaling", 1, efficiencyCol, theme.Success},
		{"good scaling", 2, efficiencyCol, theme.Success},
		{"failed status", 3, statusCol, theme.Error},
		{"failed efficiency", 3, efficiencyCol, nil},
		{"ok status", 1, statusCol, nil},
		{"other column", 1, 0, nil},
		{"out of range", 9, efficiencyCol, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := color(tt.row, tt.col); got != tt.want {
				t.Errorf("color(%d, %d) = %v, want %v", tt.row, tt.col, got, tt.want)
			}
		})
	}
}

func TestRenderSummaryTable(t *testing.T) {
	t.Parallel()
	out := RenderSummaryTable(benchmark.Summarize(sampleResults()))
	for _, want := range []string{"Serial fraction", "shared", "12ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "isolated") {
		t.Error("failed cases should not be summarized")
	}
}

func TestRenderAccuracyTable(t *testing.T) {
	t.Parallel()
	rows := []accuracy.Row{
		{Iters: 1000, Naive: 1.9999983550656, Riemann: 1.9999983550656, HasExact: true, RuleError: -1.6e-6, RoundingError: 2e-16},
		{Iters: 10, Naive: 0.5, Riemann: 0.5},
	}
	out := RenderAccuracyTable(rows)
	for _, want := range []string{"Rounding error", "1,000", "-1.600e-06", "+2.000e-16"} {
		if !strings.Contains(out, want) {
			t.Errorf("accuracy table missing %q:\n%s", want, out)
		}
	}
}

func TestPresentResults(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PresentResults(sampleResults(), 2*time.Second, &buf)
	if !strings.Contains(buf.String(), "1 of 4 cases failed") {
		t.Errorf("missing failure line:\n%s", buf.String())
	}

	buf.Reset()
	PresentResults(sampleResults()[:3], time.Second, &buf)
	out := buf.String()
	if !strings.Contains(out, "All 3 cases succeeded") || !strings.Contains(out, "--- Scaling ---") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDisplayQuietResults(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayQuietResults(sampleResults(), &buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if lines[0] != "sequential\t100000\t1\t0.040000\t2\tok" {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[3], "\terror") {
		t.Errorf("failed case line = %q", lines[3])
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayMemoryStats(metrics.MemorySnapshot{
		HeapAlloc: 2048, Sys: 1 << 20, TotalAlloc: 3 << 20, NumGC: 7, GCPause: 1500 * time.Microsecond,
	}, &buf)
	for _, want := range []string{"Allocated by run: 3.0 MiB", "2.0 KiB", "1.0 MiB", "7", "1.50ms"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("memory stats missing %q:\n%s", want, buf.String())
		}
	}
}

func TestCPUFeatures(t *testing.T) {
	t.Parallel()
	for _, f := range CPUFeatures() {
		if f == "" || strings.ContainsAny(f, " \t") {
			t.Errorf("malformed feature name %q", f)
		}
	}
}
