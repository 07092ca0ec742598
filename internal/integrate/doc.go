// Package integrate computes definite integrals with the left-endpoint
// rectangle rule and provides the execution strategies that the benchmark
// harness compares: sequential, shared-memory goroutines, isolated worker
// processes and goroutines running a specialized closed-form kernel.
//
// Every strategy partitions [a, b] into n_jobs contiguous sub-intervals with
// n_iter/n_jobs rectangles each. The integer-division remainder is dropped,
// not redistributed; see Partition and Dropped.
package integrate
