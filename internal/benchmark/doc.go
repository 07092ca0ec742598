// Package benchmark runs integration strategies over a grid of iteration and
// job counts, times them, and derives speedup, parallel efficiency and an
// Amdahl serial-fraction fit from the measurements.
//
// The driver makes no correctness assertions: a failing case is recorded in
// its CaseResult and the run moves on to the next case.
package benchmark
