package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/integbench/internal/benchmark"
)

func TestChartModel_UpdateProgress(t *testing.T) {
	chart := NewChartModel()
	chart.SetSize(50, 10)

	chart.UpdateProgress(0.25, 30*time.Second)
	chart.UpdateProgress(0.75, 10*time.Second)

	if chart.averageProgress != 0.75 {
		t.Errorf("expected progress 0.75, got %f", chart.averageProgress)
	}
	if chart.eta != 10*time.Second {
		t.Errorf("expected eta 10s, got %v", chart.eta)
	}
}

func TestChartModel_Reset(t *testing.T) {
	chart := NewChartModel()
	chart.UpdateProgress(0.5, 10*time.Second)
	chart.UpdateSysStats(25.0, 60.0)
	chart.RecordCase(benchmark.CaseResult{Throughput: 1e6})
	chart.SetDone(time.Second)

	chart.Reset()

	if chart.averageProgress != 0 || chart.done {
		t.Errorf("expected cleared progress after reset, got %f done=%v", chart.averageProgress, chart.done)
	}
	if chart.cpuHistory.Len() != 0 {
		t.Error("expected cpuHistory to be empty after reset")
	}
	if chart.memHistory.Len() != 0 {
		t.Error("expected memHistory to be empty after reset")
	}
	if chart.rateHistory.Len() != 0 {
		t.Error("expected rateHistory to be empty after reset")
	}
}

func TestChartModel_View(t *testing.T) {
	chart := NewChartModel()
	chart.SetSize(60, 12)
	chart.UpdateProgress(0.6, 10*time.Second)
	chart.UpdateSysStats(40, 50)
	chart.UpdateSysStats(80, 55)
	chart.RecordCase(benchmark.CaseResult{Throughput: 2.5e6})
	chart.RecordCase(benchmark.CaseResult{Throughput: 9e6, Err: errors.New("worker exited")})

	view := chart.View()
	for _, want := range []string{"Progress Chart", "ETA:", "CPU", "MEM", " 80%", "EVAL", "2.50 M/s"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestChartModel_RenderProgressBar(t *testing.T) {
	chart := NewChartModel()
	chart.SetSize(50, 10)
	chart.UpdateProgress(0.5, 10*time.Second)

	bar := chart.renderProgressBar()
	if !strings.Contains(bar, "█") {
		t.Error("expected progress bar to contain filled block character")
	}
	if !strings.Contains(bar, "░") {
		t.Error("expected progress bar to contain empty block character")
	}
	if !strings.Contains(bar, "50.0%") {
		t.Error("expected progress bar to show 50.0%")
	}
}

func TestChartModel_SetDone(t *testing.T) {
	chart := NewChartModel()
	chart.SetSize(50, 10)
	chart.SetDone(1500 * time.Millisecond)

	bar := chart.renderProgressBar()
	if !strings.Contains(bar, "Done in 1.5s") {
		t.Errorf("expected completion time, got %q", bar)
	}
	if !strings.Contains(bar, "100.0%") {
		t.Errorf("expected full bar, got %q", bar)
	}
}

func TestRenderBrailleChart(t *testing.T) {
	if RenderBrailleChart(nil, 10, 2) != nil {
		t.Error("expected nil chart for no values")
	}
	rows := RenderBrailleChart([]float64{0, 100}, 4, 2)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if n := len([]rune(r)); n != 4 {
			t.Errorf("expected 4 cells per row, got %d", n)
		}
	}
	// 100 plots on the top row, 0 on the bottom row, both in the last cell.
	if []rune(rows[0])[3] == 0x2800 || []rune(rows[1])[3] == 0x2800 {
		t.Errorf("expected dots in the rightmost cell: %q", rows)
	}
	if []rune(rows[0])[0] != 0x2800 {
		t.Error("expected leftmost cell to stay empty")
	}
}
