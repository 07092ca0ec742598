// Package config parses the command line and INTEGBENCH_* environment
// variables into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/integbench/internal/errors"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "INTEGBENCH_"

// Defaults.
const (
	DefaultSuite     = "parallel"
	DefaultIntegrand = "sin"
	DefaultIters     = 2_000_000
	DefaultRepeats   = 3
	DefaultTimeout   = 10 * time.Minute
	DefaultLogFormat = "console"
	DefaultLogLevel  = "info"
)

// AppConfig holds every user-facing setting of a run.
type AppConfig struct {
	// Suite selects a predefined strategy set; Strategies, when non-empty,
	// replaces it.
	Suite      string
	Strategies []string
	Integrand  string
	A          float64
	B          float64
	Jobs       []int
	Iters      []int
	Repeats    int
	Timeout    time.Duration

	OutputFile  string
	Accuracy    bool
	TUI         bool
	MetricsAddr string
	// TraceFile receives one JSON-encoded span per line when set.
	TraceFile   string
	LogFormat   string
	LogLevel    string
	NoColor     bool
	Quiet       bool
	Verbose     bool
	ShowVersion bool
}

// IntList is a flag.Value holding a comma-separated list of positive integers.
// Underscores are accepted as digit separators ("2_000_000").
type IntList []int

func (l *IntList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value.
func (l *IntList) Set(s string) error {
	values, err := ParseIntList(s)
	if err != nil {
		return err
	}
	*l = values
	return nil
}

// ParseIntList parses "2,4,6" into a slice of positive integers.
func ParseIntList(s string) ([]int, error) {
	var values []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(strings.ReplaceAll(field, "_", ""))
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", field)
		}
		if v <= 0 {
			return nil, fmt.Errorf("value must be positive, got %d", v)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return values, nil
}

// ParseNameList splits a comma-separated list of names, dropping blanks.
func ParseNameList(s string) []string {
	var names []string
	for _, field := range strings.Split(s, ",") {
		if field = strings.TrimSpace(field); field != "" {
			names = append(names, strings.ToLower(field))
		}
	}
	return names
}

// ParseConfig parses args into an AppConfig.
//
// Priority is flags, then INTEGBENCH_* environment variables, then defaults.
// availableStrategies and availableSuites are used for validation and help
// text. The returned error wraps flag.ErrHelp when -h or --help was given.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableStrategies, availableSuites []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{
		Jobs:  DefaultJobCounts(),
		Iters: []int{DefaultIters},
	}
	var strategies string
	jobs := IntList(config.Jobs)
	iters := IntList(config.Iters)

	fs.StringVar(&config.Suite, "suite", DefaultSuite, fmt.Sprintf("Benchmark suite (%s).", strings.Join(availableSuites, ", ")))
	fs.StringVar(&strategies, "strategies", "", fmt.Sprintf("Comma-separated strategies, overriding --suite (%s).", strings.Join(availableStrategies, ", ")))
	fs.StringVar(&config.Integrand, "func", DefaultIntegrand, "Registered integrand to integrate.")
	fs.Float64Var(&config.A, "a", 0, "Lower bound of the interval.")
	fs.Float64Var(&config.B, "b", math.Pi, "Upper bound of the interval.")
	fs.Var(&jobs, "jobs", "Comma-separated job counts for parallel strategies.")
	fs.Var(&iters, "iters", "Comma-separated iteration counts.")
	fs.IntVar(&config.Repeats, "repeats", DefaultRepeats, "Timed repetitions per case.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of the whole run.")
	fs.StringVar(&config.OutputFile, "output", "", "Write a JSON report to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Write a JSON report to this file (shorthand).")
	fs.BoolVar(&config.Accuracy, "accuracy", false, "Also report rule and rounding error per iteration count.")
	fs.BoolVar(&config.TUI, "tui", false, "Run with the interactive dashboard.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090).")
	fs.StringVar(&config.TraceFile, "trace", "", "Write OpenTelemetry spans (run, case, repetition) as JSON lines to this file.")
	fs.StringVar(&config.LogFormat, "log-format", DefaultLogFormat, "Log format: console, json or tint.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn or error.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the result table.")
	fs.BoolVar(&config.Quiet, "q", false, "Print only the result table (shorthand).")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose output (per-case logs and Amdahl fits).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Verbose output (per-case logs and Amdahl fits).")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version information and exit.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	config.Jobs = jobs
	config.Iters = iters
	if strategies != "" {
		config.Strategies = ParseNameList(strategies)
	}

	applyEnvOverrides(&config, fs)
	config.Suite = strings.ToLower(config.Suite)

	if err := config.Validate(availableStrategies, availableSuites); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks semantic constraints that the flag package cannot express.
func (c AppConfig) Validate(availableStrategies, availableSuites []string) error {
	if c.Repeats <= 0 {
		return apperrors.NewConfigError("--repeats must be greater than zero, got %d", c.Repeats)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if math.IsNaN(c.A) || math.IsNaN(c.B) || math.IsInf(c.A, 0) || math.IsInf(c.B, 0) {
		return apperrors.NewConfigError("interval bounds must be finite, got [%g, %g]", c.A, c.B)
	}
	if len(c.Strategies) == 0 && !slices.Contains(availableSuites, c.Suite) {
		return apperrors.NewConfigError("unknown suite %q (available: %s)", c.Suite, strings.Join(availableSuites, ", "))
	}
	for _, s := range c.Strategies {
		if !slices.Contains(availableStrategies, s) {
			return apperrors.NewConfigError("unknown strategy %q (available: %s)", s, strings.Join(availableStrategies, ", "))
		}
	}
	switch c.LogFormat {
	case "console", "json", "tint":
	default:
		return apperrors.NewConfigError("unknown --log-format %q (want console, json or tint)", c.LogFormat)
	}
	if c.TUI && c.Quiet {
		return apperrors.NewConfigError("--tui and --quiet cannot be combined")
	}
	return nil
}
