// Package logging provides a unified logging interface for the benchmark harness.
// It abstracts the underlying logging implementation (zerolog by default, slog
// with tint for colorized console output, or the standard library logger),
// allowing consistent structured logging across components.
package logging
