// Package parallel provides the fan-out/fan-in primitive shared by the
// parallel integration strategies.
package parallel
