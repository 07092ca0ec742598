package benchmark

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/integbench/internal/errors"
	"github.com/agbru/integbench/internal/integrate"
	"github.com/agbru/integbench/internal/sysmon"
)

// TracerName names the tracer of the run, case and repetition spans.
const TracerName = "github.com/agbru/integbench/internal/benchmark"

// StrategySource resolves strategies by name. *integrate.StrategyFactory
// satisfies it.
type StrategySource interface {
	Get(name string) (integrate.Strategy, error)
}

// Driver runs benchmark configurations.
type Driver struct {
	Strategies StrategySource
	Registry   *integrate.Registry
	Observer   Observer
	// Sample reads system CPU and memory usage. It is called once before
	// and once after every case; the second reading covers the case.
	Sample func() sysmon.Stats
	// Tracer receives one span per run, per case and per repetition. The
	// default delegates to the global provider.
	Tracer trace.Tracer
}

// NewDriver returns a driver over the built-in strategies and integrands.
func NewDriver(observer Observer) *Driver {
	return &Driver{
		Strategies: integrate.NewDefaultFactory(),
		Registry:   integrate.DefaultRegistry(),
		Observer:   observer,
		Sample:     sysmon.NewSampler().Sample,
		Tracer:     otel.Tracer(TracerName),
	}
}

func (d *Driver) withDefaults() *Driver {
	c := *d
	if c.Strategies == nil {
		c.Strategies = integrate.NewDefaultFactory()
	}
	if c.Registry == nil {
		c.Registry = integrate.DefaultRegistry()
	}
	if c.Observer == nil {
		c.Observer = NoOpObserver{}
	}
	if c.Sample == nil {
		c.Sample = func() sysmon.Stats { return sysmon.Stats{} }
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer(TracerName)
	}
	return &c
}

// Run executes every case of cfg in Plan order.
//
// Configuration problems (invalid values, unknown integrand or strategy) are
// returned before any case runs. Case failures are recorded in the results
// and do not stop the run. Cancellation of ctx stops the run between cases;
// the results gathered so far are returned with the context error.
func (d *Driver) Run(ctx context.Context, cfg Config) ([]CaseResult, error) {
	d = d.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f, err := d.Registry.Get(cfg.Integrand)
	if err != nil {
		return nil, apperrors.NewConfigError("%v (available: %v)", err, d.Registry.List())
	}
	strategies := make(map[string]integrate.Strategy, len(cfg.Strategies))
	for _, name := range cfg.Strategies {
		s, err := d.Strategies.Get(name)
		if err != nil {
			return nil, apperrors.NewConfigError("%v", err)
		}
		strategies[name] = s
	}

	ctx, span := d.Tracer.Start(ctx, "benchmark.run", trace.WithAttributes(
		attribute.String("integrand", cfg.Integrand),
		attribute.Int("repeats", cfg.Repeats),
	))
	defer span.End()

	cases := Plan(cfg)
	results := make([]CaseResult, 0, len(cases))
	baselines := make(map[int]time.Duration)
	start := time.Now()

	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "canceled")
			d.Observer.RunFinished(results, time.Since(start))
			return results, err
		}
		d.Observer.CaseStarted(i, len(cases), c)
		r := d.runCase(ctx, strategies[c.Strategy], f, cfg, c)
		if r.Err == nil && c.Strategy == integrate.StrategySequential {
			baselines[c.Iters] = r.Duration
		}
		if base, ok := baselines[c.Iters]; ok && r.Err == nil {
			annotate(&r, base)
		}
		results = append(results, r)
		d.Observer.CaseFinished(i, len(cases), r)
	}

	span.SetAttributes(attribute.Int("cases", len(results)), attribute.Int("failed", Failed(results)))
	d.Observer.RunFinished(results, time.Since(start))
	return results, nil
}

func (d *Driver) runCase(ctx context.Context, s integrate.Strategy, f integrate.Integrand, cfg Config, c Case) CaseResult {
	ctx, span := d.Tracer.Start(ctx, "benchmark.case", trace.WithAttributes(
		attribute.String("strategy", c.Strategy),
		attribute.Int("iters", c.Iters),
		attribute.Int("jobs", c.Jobs),
	))
	defer span.End()

	r := CaseResult{Case: c, Repeats: cfg.Repeats}
	if c.Jobs > 0 && c.Strategy != integrate.StrategySequential {
		r.Dropped = c.Iters % c.Jobs
	}
	if exact, ok := f.Exact(cfg.A, cfg.B); ok {
		r.Exact, r.HasExact = exact, true
	}

	d.Sample()
	var total time.Duration
	for rep := 0; rep < cfg.Repeats; rep++ {
		v, elapsed, err := d.repeat(ctx, s, f, cfg, c, rep)
		total += elapsed
		if err != nil {
			r.Err = err
			r.Error = err.Error()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			break
		}
		r.Value = v
	}
	stats := d.Sample()
	r.CPUPercent, r.MemPercent = stats.CPUPercent, stats.MemPercent

	if r.Err != nil {
		return r
	}
	r.Duration = total / time.Duration(cfg.Repeats)
	if r.Duration > 0 {
		// Remainder rectangles are never evaluated.
		r.Throughput = float64(c.Iters-r.Dropped) / r.Duration.Seconds()
	}
	if r.HasExact {
		r.AbsError = math.Abs(r.Value - r.Exact)
	}
	span.SetAttributes(attribute.Float64("value", r.Value), attribute.Int64("duration_ns", r.Duration.Nanoseconds()))
	return r
}

// repeat times one strategy call under its own span.
func (d *Driver) repeat(ctx context.Context, s integrate.Strategy, f integrate.Integrand, cfg Config, c Case, rep int) (float64, time.Duration, error) {
	ctx, span := d.Tracer.Start(ctx, "strategy.integrate", trace.WithAttributes(
		attribute.String("strategy", c.Strategy),
		attribute.Int("repetition", rep),
	))
	defer span.End()

	t0 := time.Now()
	v, err := s.Integrate(ctx, f, cfg.A, cfg.B, c.Jobs, c.Iters)
	elapsed := time.Since(t0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return v, elapsed, err
}
