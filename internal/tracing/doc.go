// Package tracing installs the OpenTelemetry SDK for a benchmark run and
// exports its spans as JSON lines.
package tracing
