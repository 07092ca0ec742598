package config

import "runtime"

// DefaultJobCounts returns the job counts benchmarked when --jobs is not
// given: powers of two up to the CPU count, plus the CPU count itself and
// one oversubscribed point at twice the CPU count.
func DefaultJobCounts() []int {
	return jobCountsFor(runtime.NumCPU())
}

func jobCountsFor(numCPU int) []int {
	if numCPU < 1 {
		numCPU = 1
	}
	var jobs []int
	for n := 2; n < numCPU; n *= 2 {
		jobs = append(jobs, n)
	}
	jobs = append(jobs, numCPU)
	if numCPU == 1 {
		// Still measure some contention on a single core.
		return []int{1, 2}
	}
	return append(jobs, 2*numCPU)
}
