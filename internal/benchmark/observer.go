package benchmark

import (
	"time"

	"github.com/agbru/integbench/internal/logging"
)

// Observer receives driver events. Calls are made from the driver goroutine,
// one at a time, in case order.
type Observer interface {
	CaseStarted(index, total int, c Case)
	CaseFinished(index, total int, r CaseResult)
	RunFinished(results []CaseResult, elapsed time.Duration)
}

// NoOpObserver ignores every event.
type NoOpObserver struct{}

func (NoOpObserver) CaseStarted(int, int, Case)              {}
func (NoOpObserver) CaseFinished(int, int, CaseResult)       {}
func (NoOpObserver) RunFinished([]CaseResult, time.Duration) {}

// MultiObserver fans every event out to its members in order.
type MultiObserver []Observer

func (m MultiObserver) CaseStarted(index, total int, c Case) {
	for _, o := range m {
		o.CaseStarted(index, total, c)
	}
}

func (m MultiObserver) CaseFinished(index, total int, r CaseResult) {
	for _, o := range m {
		o.CaseFinished(index, total, r)
	}
}

func (m MultiObserver) RunFinished(results []CaseResult, elapsed time.Duration) {
	for _, o := range m {
		o.RunFinished(results, elapsed)
	}
}

// LogObserver writes one structured log line per event.
type LogObserver struct {
	Logger logging.Logger
}

func (o LogObserver) CaseStarted(index, total int, c Case) {
	o.Logger.Debug("case started",
		logging.Int("index", index+1),
		logging.Int("total", total),
		logging.String("strategy", c.Strategy),
		logging.Int("iters", c.Iters),
		logging.Int("jobs", c.Jobs),
	)
}

func (o LogObserver) CaseFinished(_, _ int, r CaseResult) {
	if r.Err != nil {
		o.Logger.Error("case failed", r.Err,
			logging.String("strategy", r.Strategy),
			logging.Int("iters", r.Iters),
			logging.Int("jobs", r.Jobs),
		)
		return
	}
	o.Logger.Info("case finished",
		logging.String("strategy", r.Strategy),
		logging.Int("iters", r.Iters),
		logging.Int("jobs", r.Jobs),
		logging.Duration("duration", r.Duration),
		logging.Float64("value", r.Value),
		logging.Float64("speedup", r.Speedup),
	)
}

func (o LogObserver) RunFinished(results []CaseResult, elapsed time.Duration) {
	o.Logger.Info("benchmark finished",
		logging.Int("cases", len(results)),
		logging.Int("failed", Failed(results)),
		logging.Duration("elapsed", elapsed),
	)
}

// Recorder stores case measurements, typically as metrics. Every
// CaseStarted is followed by exactly one RecordCase.
type Recorder interface {
	CaseStarted()
	RecordCase(strategy string, iters, jobs int, d time.Duration, throughput, speedup float64, failed bool)
}

// RecorderObserver forwards case events to a Recorder.
type RecorderObserver struct {
	NoOpObserver
	Recorder Recorder
}

func (o RecorderObserver) CaseStarted(int, int, Case) {
	o.Recorder.CaseStarted()
}

func (o RecorderObserver) CaseFinished(_, _ int, r CaseResult) {
	o.Recorder.RecordCase(r.Strategy, r.Iters, r.Jobs, r.Duration, r.Throughput, r.Speedup, r.Err != nil)
}
