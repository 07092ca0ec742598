package tui

import (
	"time"

	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/metrics"
)

// CaseStartedMsg is sent when the driver begins a case.
type CaseStartedMsg struct {
	Index, Total int
	Case         benchmark.Case
	Generation   uint64
}

// CaseFinishedMsg is sent when the driver has measured a case.
type CaseFinishedMsg struct {
	Index, Total int
	Result       benchmark.CaseResult
	Generation   uint64
}

// RunCompleteMsg is sent when the benchmark run returns.
type RunCompleteMsg struct {
	Results    []benchmark.CaseResult
	Elapsed    time.Duration
	Err        error
	Generation uint64
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory reading.
type MemStatsMsg struct {
	metrics.MemorySnapshot
	NumGoroutine int
}

// SysStatsMsg carries a system-wide CPU and memory reading.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
