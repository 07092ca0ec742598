package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot is a reading of the Go runtime's memory statistics.
//
// HeapAlloc, HeapSys and Sys are levels. TotalAlloc, NumGC and GCPause are
// cumulative counters; in a snapshot returned by Since they cover only the
// interval between the two readings.
type MemorySnapshot struct {
	HeapAlloc  uint64        `json:"heap_alloc"`
	HeapSys    uint64        `json:"heap_sys"`
	Sys        uint64        `json:"sys"`
	TotalAlloc uint64        `json:"total_alloc"`
	NumGC      uint32        `json:"num_gc"`
	GCPause    time.Duration `json:"gc_pause_ns"`
}

// Since returns s with its cumulative counters reduced by those of before.
func (s MemorySnapshot) Since(before MemorySnapshot) MemorySnapshot {
	d := s
	d.TotalAlloc = sub(s.TotalAlloc, before.TotalAlloc)
	d.NumGC = uint32(sub(uint64(s.NumGC), uint64(before.NumGC)))
	d.GCPause = max(s.GCPause-before.GCPause, 0)
	return d
}

func sub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// MemoryCollector reads runtime memory statistics relative to the moment
// it was created, so that a benchmark run can report what it allocated.
type MemoryCollector struct {
	start MemorySnapshot
	read  func(*runtime.MemStats)
}

// NewMemoryCollector returns a collector whose baseline is the current reading.
func NewMemoryCollector() *MemoryCollector {
	mc := &MemoryCollector{read: runtime.ReadMemStats}
	mc.start = mc.Snapshot()
	return mc
}

// Snapshot reads the current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	mc.read(&m)
	return MemorySnapshot{
		HeapAlloc:  m.HeapAlloc,
		HeapSys:    m.HeapSys,
		Sys:        m.Sys,
		TotalAlloc: m.TotalAlloc,
		NumGC:      m.NumGC,
		GCPause:    time.Duration(m.PauseTotalNs),
	}
}

// SinceStart is Snapshot with its counters measured from the baseline.
func (mc *MemoryCollector) SinceStart() MemorySnapshot {
	return mc.Snapshot().Since(mc.start)
}
