// Package metrics exposes benchmark measurements as Prometheus metrics and
// reads Go runtime memory statistics.
package metrics
