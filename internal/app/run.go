package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/integbench/internal/accuracy"
	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/cli"
	apperrors "github.com/agbru/integbench/internal/errors"
	"github.com/agbru/integbench/internal/logging"
	"github.com/agbru/integbench/internal/metrics"
)

func (a *Application) newDriver(observers benchmark.MultiObserver) *benchmark.Driver {
	d := benchmark.NewDriver(observers)
	d.Strategies = a.Strategies
	d.Registry = a.Registry
	if a.tracer != nil {
		d.Tracer = a.tracer
	}
	return d
}

// runBenchmark runs the configured cases in CLI mode and prints the results.
func (a *Application) runBenchmark(ctx context.Context, cfg benchmark.Config, observers benchmark.MultiObserver, logger logging.Logger, out io.Writer) int {
	if !a.Config.Quiet {
		cli.PrintRunConfig(cfg, a.Config.Timeout, out)
		observers = append(observers, cli.NewSpinnerObserver(out))
	}
	observers = append(observers, benchmark.LogObserver{Logger: logger})

	memory := metrics.NewMemoryCollector()
	start := time.Now()
	results, err := a.newDriver(observers).Run(ctx, cfg)
	elapsed := time.Since(start)

	if err != nil && len(results) == 0 {
		logger.Error("benchmark aborted", err)
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	var rows []accuracy.Row
	if a.Config.Accuracy && err == nil {
		rows, err = a.analyzeAccuracy(ctx, cfg)
		if err != nil {
			logger.Error("accuracy analysis failed", err)
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitCodeFor(err)
		}
	}

	if a.Config.Quiet {
		cli.DisplayQuietResults(results, out)
	} else {
		cli.PresentResults(results, elapsed, out)
		if rows != nil {
			cli.PresentAccuracy(cfg.Integrand, rows, out)
		}
		if a.Config.Verbose {
			cli.DisplayMemoryStats(memory.SinceStart(), out)
		}
	}

	if werr := a.writeReport(cfg, results, elapsed, rows, a.Config.Quiet, out); werr != nil {
		return apperrors.ExitErrorGeneric
	}

	if err != nil {
		// The run was interrupted between cases; partial results were shown.
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", apperrors.WrapError(err, "benchmark interrupted after %d cases", len(results)))
		return apperrors.ExitCodeFor(err)
	}
	if benchmark.Failed(results) > 0 {
		return apperrors.ExitErrorFailed
	}
	return apperrors.ExitSuccess
}

// analyzeAccuracy runs the accuracy analysis at the configured iteration
// counts. It is not cancellable mid-way, so it is skipped once ctx is done.
func (a *Application) analyzeAccuracy(ctx context.Context, cfg benchmark.Config) ([]accuracy.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := a.Registry.Get(cfg.Integrand)
	if err != nil {
		return nil, apperrors.NewConfigError("%v", err)
	}
	return accuracy.Analyze(f, cfg.A, cfg.B, cfg.Iters)
}

func (a *Application) writeReport(cfg benchmark.Config, results []benchmark.CaseResult, elapsed time.Duration, rows []accuracy.Row, quiet bool, out io.Writer) error {
	if a.Config.OutputFile == "" {
		return nil
	}
	report := cli.NewReport(Version, cfg, results, elapsed, rows)
	if err := cli.WriteReport(a.Config.OutputFile, report, quiet, out); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving report: %v\n", err)
		return err
	}
	return nil
}
