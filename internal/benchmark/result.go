package benchmark

import "time"

// CaseResult is the measurement of one case.
type CaseResult struct {
	Case
	// Value is the integral computed by the last repetition.
	Value float64 `json:"value"`
	// Exact is the closed-form integral, when the integrand has a primitive.
	Exact    float64 `json:"exact,omitempty"`
	HasExact bool    `json:"has_exact"`
	AbsError float64 `json:"abs_error,omitempty"`
	// Duration is the average wall-clock time of one repetition.
	Duration time.Duration `json:"duration_ns"`
	// Throughput is rectangles per second.
	Throughput float64 `json:"throughput"`
	// Speedup is relative to the sequential case with the same Iters;
	// zero when no such baseline was measured.
	Speedup    float64 `json:"speedup,omitempty"`
	Efficiency float64 `json:"efficiency,omitempty"`
	// Dropped is the number of rectangles lost to the partition remainder.
	Dropped int `json:"dropped"`
	// CPUPercent is the system-wide CPU utilisation while the case ran.
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"mem_percent"`
	Repeats    int     `json:"repeats"`

	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// OK reports whether every repetition of the case succeeded.
func (r CaseResult) OK() bool { return r.Err == nil }

// Failed returns the number of failed cases in results.
func Failed(results []CaseResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
