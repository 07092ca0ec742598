package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/metrics"
)

func TestMetricsModel_UpdateMemStats(t *testing.T) {
	m := NewMetricsModel()

	msg := MemStatsMsg{
		MemorySnapshot: metrics.MemorySnapshot{
			HeapAlloc: 1024 * 1024 * 50, // 50 MiB
			HeapSys:   1024 * 1024 * 80,
			NumGC:     10,
		},
		NumGoroutine: 8,
	}
	m.UpdateMemStats(msg)

	if m.alloc != msg.HeapAlloc {
		t.Errorf("expected alloc %d, got %d", msg.HeapAlloc, m.alloc)
	}
	if m.heapSys != msg.HeapSys {
		t.Errorf("expected heapSys %d, got %d", msg.HeapSys, m.heapSys)
	}
	if m.numGC != msg.NumGC {
		t.Errorf("expected numGC %d, got %d", msg.NumGC, m.numGC)
	}
	if m.numGoroutine != msg.NumGoroutine {
		t.Errorf("expected numGoroutine %d, got %d", msg.NumGoroutine, m.numGoroutine)
	}
}

func TestMetricsModel_UpdateProgress(t *testing.T) {
	m := NewMetricsModel()
	// Force the lastUpdate back in time to ensure dt > 0.05
	m.lastUpdate = time.Now().Add(-1 * time.Second)

	m.UpdateProgress(0.5)
	if m.speed <= 0 {
		t.Error("expected positive speed after progress update")
	}
	if m.lastProgress != 0.5 {
		t.Errorf("expected lastProgress 0.5, got %f", m.lastProgress)
	}
}

func TestMetricsModel_UpdateProgress_Smoothing(t *testing.T) {
	m := NewMetricsModel()
	m.lastUpdate = time.Now().Add(-1 * time.Second)

	m.UpdateProgress(0.3)
	firstSpeed := m.speed
	if firstSpeed <= 0 {
		t.Fatal("precondition: first speed should be positive")
	}

	m.lastUpdate = time.Now().Add(-500 * time.Millisecond)
	m.UpdateProgress(0.8)

	if m.speed == firstSpeed {
		t.Error("expected speed to change after second update with different rate")
	}
}

func TestMetricsModel_UpdateProgress_TooFast(t *testing.T) {
	m := NewMetricsModel()
	// lastUpdate is now, so dt < 0.05 and the speed is left alone
	m.UpdateProgress(0.5)

	if m.speed != 0 {
		t.Errorf("expected speed to remain 0 when dt < 0.05, got %f", m.speed)
	}
}

func TestMetricsModel_RecordCase(t *testing.T) {
	m := NewMetricsModel()
	m.RecordCase(0, 3, benchmark.CaseResult{Case: benchmark.Case{Strategy: "shared", Jobs: 2}, Throughput: 1e6, Speedup: 1.8})
	m.RecordCase(1, 3, benchmark.CaseResult{Case: benchmark.Case{Strategy: "shared", Jobs: 4}, Throughput: 2e6, Speedup: 3.1})
	m.RecordCase(2, 3, benchmark.CaseResult{Case: benchmark.Case{Strategy: "isolated", Jobs: 4}, Err: errors.New("boom")})

	if m.done != 3 || m.total != 3 || m.failed != 1 {
		t.Errorf("counts = %d/%d failed %d", m.done, m.total, m.failed)
	}
	if m.bestSpeedup != 3.1 || m.bestCase.Jobs != 4 {
		t.Errorf("best = %v at %+v", m.bestSpeedup, m.bestCase)
	}
	if m.lastThroughput != 2e6 {
		t.Errorf("failed cases should not overwrite the throughput, got %v", m.lastThroughput)
	}
}

func TestMetricsModel_View(t *testing.T) {
	m := NewMetricsModel()
	m.SetSize(70, 6)
	m.UpdateMemStats(MemStatsMsg{MemorySnapshot: metrics.MemorySnapshot{HeapAlloc: 2 << 20, HeapSys: 4 << 20}, NumGoroutine: 5})
	m.RecordCase(0, 2, benchmark.CaseResult{Case: benchmark.Case{Strategy: "native", Jobs: 4}, Throughput: 5e7, Speedup: 3.9})

	view := m.View()
	for _, want := range []string{"Heap:", "2.0 MiB", "1/2", "50.00 M/s", "3.90x native j=4", "Goroutines:"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}
}
