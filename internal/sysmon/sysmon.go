// Package sysmon samples system-wide CPU and memory usage around benchmark
// cases.
package sysmon

import (
	"errors"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

var errNoCPUTimes = errors.New("no aggregate CPU times reported")

// Stats holds one reading of system-wide resource usage.
type Stats struct {
	// CPUPercent is the busy share of all CPUs since the sampler's previous
	// reading, 0..100.
	CPUPercent float64
	// MemPercent is the used share of physical memory at the reading, 0..100.
	MemPercent float64
}

// Sampler measures CPU utilisation over the window between two of its own
// readings. Each consumer owns a Sampler, so the driver's per-case windows
// are not shortened by the dashboard polling on another goroutine.
type Sampler struct {
	mu       sync.Mutex
	prev     cpu.TimesStat
	havePrev bool

	readCPU func() (cpu.TimesStat, error)
	readMem func() (float64, error)
}

// NewSampler returns a sampler reading the host through gopsutil.
func NewSampler() *Sampler {
	return &Sampler{readCPU: hostCPUTimes, readMem: hostMemPercent}
}

// Sample returns CPU usage since the previous call and the current memory
// usage. The first call only sets the baseline and reports 0 CPU. Read
// errors yield zero values.
func (s *Sampler) Sample() Stats {
	var st Stats
	if pct, err := s.readMem(); err == nil {
		st.MemPercent = pct
	}
	cur, err := s.readCPU()
	if err != nil {
		return st
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.havePrev {
		st.CPUPercent = busyPercent(s.prev, cur)
	}
	s.prev, s.havePrev = cur, true
	return st
}

// busyPercent is the non-idle share of the CPU time elapsed between two
// cumulative readings.
func busyPercent(prev, cur cpu.TimesStat) float64 {
	total := totalTime(cur) - totalTime(prev)
	if total <= 0 {
		return 0
	}
	idle := (cur.Idle + cur.Iowait) - (prev.Idle + prev.Iowait)
	busy := (total - idle) / total * 100
	return min(max(busy, 0), 100)
}

// totalTime excludes Guest and GuestNice, which the kernel already counts in User and Nice.
func totalTime(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
}

func hostCPUTimes() (cpu.TimesStat, error) {
	times, err := cpu.Times(false)
	if err != nil {
		return cpu.TimesStat{}, err
	}
	if len(times) == 0 {
		return cpu.TimesStat{}, errNoCPUTimes
	}
	return times[0], nil
}

func hostMemPercent() (float64, error) {
	vmem, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vmem.UsedPercent, nil
}
