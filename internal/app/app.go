package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/config"
	apperrors "github.com/agbru/integbench/internal/errors"
	"github.com/agbru/integbench/internal/integrate"
	"github.com/agbru/integbench/internal/logging"
	"github.com/agbru/integbench/internal/metrics"
	"github.com/agbru/integbench/internal/tracing"
	"github.com/agbru/integbench/internal/tui"
	"github.com/agbru/integbench/internal/ui"
)

// Application represents the integbench application instance.
type Application struct {
	Config     config.AppConfig
	Strategies *integrate.StrategyFactory
	Registry   *integrate.Registry
	ErrWriter  io.Writer
	// Logger overrides the logger built from the configuration.
	Logger logging.Logger

	tracer trace.Tracer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithStrategies sets a custom strategy factory for the application.
func WithStrategies(f *integrate.StrategyFactory) AppOption {
	return func(a *Application) { a.Strategies = f }
}

// WithRegistry sets a custom integrand registry for the application.
//
// The isolated strategy is the exception: its workers are fresh processes
// that only know integrate.DefaultRegistry, so it keeps resolving names
// there. An integrand registered only in r fails every isolated case with a
// TransferError naming the worker registry. Register such integrands in
// DefaultRegistry from an init function to run them isolated.
func WithRegistry(r *integrate.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithLogger sets the application logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Strategies == nil {
		app.Strategies = integrate.NewDefaultFactory()
	}
	if app.Registry == nil {
		app.Registry = integrate.DefaultRegistry()
	}

	programName := "integbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Strategies.List(), benchmark.SuiteNames())
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// BenchmarkConfig translates the application configuration into a driver
// configuration. Explicit strategies take precedence over the suite.
func (a *Application) BenchmarkConfig() (benchmark.Config, error) {
	base := benchmark.Config{
		Integrand: a.Config.Integrand,
		A:         a.Config.A,
		B:         a.Config.B,
		Jobs:      a.Config.Jobs,
		Iters:     a.Config.Iters,
		Repeats:   a.Config.Repeats,
	}
	if len(a.Config.Strategies) > 0 {
		base.Strategies = a.Config.Strategies
	} else {
		var err error
		if base, err = benchmark.ApplySuite(a.Config.Suite, base); err != nil {
			return benchmark.Config{}, err
		}
	}
	if err := base.Validate(); err != nil {
		return benchmark.Config{}, err
	}
	return base, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)
	logger := a.logger()

	bcfg, err := a.BenchmarkConfig()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.TraceFile != "" {
		tp, err := tracing.NewFile(a.Config.TraceFile, Version)
		if err != nil {
			err = apperrors.NewConfigError("cannot write traces to %s: %v", a.Config.TraceFile, err)
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Error("flushing traces failed", err)
			}
		}()
		a.tracer = tp.Tracer(benchmark.TracerName)
	}

	var observers benchmark.MultiObserver
	if a.Config.MetricsAddr != "" {
		collector := metrics.NewCollector()
		if _, err := metrics.NewServer(a.Config.MetricsAddr, collector, logger).Start(ctx); err != nil {
			err = apperrors.NewConfigError("cannot serve metrics on %s: %v", a.Config.MetricsAddr, err)
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		observers = append(observers, benchmark.RecorderObserver{Recorder: collector})
	}

	if a.Config.TUI {
		return a.runTUI(ctx, bcfg, observers, out)
	}
	return a.runBenchmark(ctx, bcfg, observers, logger, out)
}

// logger returns the configured logger. Logs go to the error writer so that
// the result tables on stdout stay parseable.
func (a *Application) logger() logging.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	level := a.Config.LogLevel
	if a.Config.Verbose {
		level = "debug"
	}
	return logging.New(a.Config.LogFormat, level, a.ErrWriter, "integbench", a.Config.NoColor)
}

// runTUI launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context, cfg benchmark.Config, observers benchmark.MultiObserver, out io.Writer) int {
	run := func(ctx context.Context, o benchmark.Observer) ([]benchmark.CaseResult, error) {
		d := a.newDriver(append(observers, o))
		return d.Run(ctx, cfg)
	}
	start := time.Now()
	code, results := tui.Run(ctx, cfg, run, Version)
	if results != nil {
		if err := a.writeReport(cfg, results, time.Since(start), nil, true, out); err != nil {
			return apperrors.ExitErrorGeneric
		}
	}
	return code
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
