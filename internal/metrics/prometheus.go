package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records benchmark cases in a private Prometheus registry.
// Each Collector owns its registry, so several can coexist in one process.
type Collector struct {
	registry   *prometheus.Registry
	cases      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	throughput *prometheus.GaugeVec
	speedup    *prometheus.GaugeVec
	running    prometheus.Gauge
	handler    http.Handler
}

// NewCollector creates a Collector with Go runtime and process collectors
// registered alongside the benchmark metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		cases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "integbench",
			Name:      "cases_total",
			Help:      "Benchmark cases run, by strategy and outcome.",
		}, []string{"strategy", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "integbench",
			Name:      "case_duration_seconds",
			Help:      "Average wall-clock time of one repetition of a case.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"strategy", "jobs"}),
		throughput: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "integbench",
			Name:      "throughput_rectangles_per_second",
			Help:      "Rectangles evaluated per second in the last case.",
		}, []string{"strategy", "iters", "jobs"}),
		speedup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "integbench",
			Name:      "speedup_ratio",
			Help:      "Speedup over the sequential case with the same iteration count.",
		}, []string{"strategy", "iters", "jobs"}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "integbench",
			Name:      "cases_running",
			Help:      "Cases currently being measured.",
		}),
	}
	reg.MustRegister(
		c.cases, c.duration, c.throughput, c.speedup, c.running,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// CaseStarted marks a case as running.
func (c *Collector) CaseStarted() { c.running.Inc() }

// RecordCase stores the measurement of one finished case.
func (c *Collector) RecordCase(strategy string, iters, jobs int, d time.Duration, throughput, speedup float64, failed bool) {
	c.running.Dec()
	if failed {
		c.cases.WithLabelValues(strategy, "error").Inc()
		return
	}
	c.cases.WithLabelValues(strategy, "ok").Inc()
	j, n := strconv.Itoa(jobs), strconv.Itoa(iters)
	c.duration.WithLabelValues(strategy, j).Observe(d.Seconds())
	c.throughput.WithLabelValues(strategy, n, j).Set(throughput)
	if speedup > 0 {
		c.speedup.WithLabelValues(strategy, n, j).Set(speedup)
	}
}

// WritePrometheus writes the metrics in the Prometheus exposition format.
func (c *Collector) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	c.handler.ServeHTTP(w, r)
}
