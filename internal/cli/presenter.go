// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Print* and Present* functions write formatted output to an [io.Writer].
//     Examples: [PrintRunConfig], [PresentResults].
//
//   - Render* functions return a formatted string without performing I/O.
//     Examples: [RenderResultsTable].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteReport].

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/sys/cpu"

	"github.com/agbru/integbench/internal/accuracy"
	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/format"
	"github.com/agbru/integbench/internal/metrics"
	"github.com/agbru/integbench/internal/ui"
)

// PrintRunConfig displays the benchmark configuration and the environment it
// runs in.
//
// Parameters:
//   - cfg: The benchmark configuration.
//   - timeout: The run timeout.
//   - out: The writer for standard output.
func PrintRunConfig(cfg benchmark.Config, timeout time.Duration, out io.Writer) {
	cases := len(benchmark.Plan(cfg))
	fmt.Fprintf(out, "--- Benchmark Configuration ---\n")
	fmt.Fprintf(out, "Integrating %s%s%s over [%g, %g], %s%d cases%s x %d repeats, timeout %s%s%s.\n",
		ui.ColorMagenta(), cfg.Integrand, ui.ColorReset(), cfg.A, cfg.B,
		ui.ColorCyan(), cases, ui.ColorReset(), cfg.Repeats,
		ui.ColorYellow(), timeout, ui.ColorReset())
	fmt.Fprintf(out, "Strategies: %s%s%s.\n", ui.ColorGreen(), strings.Join(cfg.Strategies, ", "), ui.ColorReset())
	fmt.Fprintf(out, "Iterations: %s; jobs: %s.\n", joinInts(cfg.Iters, format.FormatInt), joinInts(cfg.Jobs, strconv.Itoa))
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %s/%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(), runtime.GOOS, runtime.GOARCH)
	if features := CPUFeatures(); len(features) > 0 {
		fmt.Fprintf(out, "CPU features: %s.\n", strings.Join(features, " "))
	}
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// CPUFeatures lists the vector extensions relevant to floating-point loops.
func CPUFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE41, "sse4.1")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasFPHP, "fphp")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return features
}

func joinInts(ns []int, f func(int) string) string {
	if len(ns) == 0 {
		return "-"
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = f(n)
	}
	return strings.Join(parts, ", ")
}

// cellColor picks the foreground of a body cell, or nil for the default.
type cellColor func(row, col int) lipgloss.TerminalColor

func newTable(color cellColor, headers ...string) *table.Table {
	theme := ui.GetCurrentTUITheme()
	header := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if color != nil {
				if c := color(row, col); c != nil {
					return cell.Foreground(c)
				}
			}
			return cell
		})
}

const (
	efficiencyCol = 6
	statusCol     = 8
)

// resultColor grades the efficiency column and flags failed cases.
func resultColor(results []benchmark.CaseResult, theme ui.TUITheme) cellColor {
	return func(row, col int) lipgloss.TerminalColor {
		if row < 0 || row >= len(results) {
			return nil
		}
		r := results[row]
		switch {
		case col == efficiencyCol && r.Err == nil && r.Jobs > 0:
			return theme.EfficiencyColor(r.Efficiency)
		case col == statusCol && r.Err != nil:
			return theme.Error
		}
		return nil
	}
}

// RenderResultsTable renders one row per case.
func RenderResultsTable(results []benchmark.CaseResult) string {
	t := newTable(resultColor(results, ui.GetCurrentTUITheme()), "Strategy", "Iters", "Jobs", "Time", "Throughput", "Speedup", "Efficiency", "CPU", "Status")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "FAILED: " + r.Err.Error()
		} else if r.HasExact {
			status = fmt.Sprintf("ok (err %.2e)", r.AbsError)
		}
		jobs := strconv.Itoa(r.Jobs)
		if r.Jobs == 0 {
			jobs = "-"
		}
		t.Row(r.Strategy, format.FormatInt(r.Iters), jobs,
			format.FormatExecutionDuration(r.Duration), format.FormatThroughput(r.Throughput),
			format.FormatSpeedup(r.Speedup), format.FormatPercent(r.Efficiency),
			fmt.Sprintf("%.0f%%", r.CPUPercent), status)
	}
	return t.String()
}

// RenderSummaryTable renders the best job count and Amdahl fit per strategy.
func RenderSummaryTable(summaries []benchmark.Summary) string {
	t := newTable(nil, "Strategy", "Iters", "Best jobs", "Best time", "Speedup", "Serial fraction", "Max speedup", "R²")
	for _, s := range summaries {
		serial, limit, r2 := "-", "-", "-"
		if s.Fit != nil {
			serial = fmt.Sprintf("%.3f", s.Fit.SerialFraction)
			limit = format.FormatSpeedup(s.Fit.MaxSpeedup)
			if s.Fit.SerialFraction == 0 {
				limit = "∞"
			}
			r2 = fmt.Sprintf("%.3f", s.Fit.RSquared)
		}
		t.Row(s.Strategy, format.FormatInt(s.Iters), strconv.Itoa(s.BestJobs),
			format.FormatExecutionDuration(s.BestTime), format.FormatSpeedup(s.BestSpeedup),
			serial, limit, r2)
	}
	return t.String()
}

// RenderAccuracyTable renders the error breakdown of an accuracy analysis.
func RenderAccuracyTable(rows []accuracy.Row) string {
	t := newTable(nil, "Iters", "Naive sum", "Exact Riemann sum", "Rule error", "Rounding error")
	for _, r := range rows {
		rule := "-"
		if r.HasExact {
			rule = fmt.Sprintf("%+.3e", r.RuleError)
		}
		t.Row(format.FormatInt(r.Iters), fmt.Sprintf("%.15g", r.Naive), fmt.Sprintf("%.15g", r.Riemann),
			rule, fmt.Sprintf("%+.3e", r.RoundingError))
	}
	return t.String()
}

// PresentResults prints the case table, the scaling summary and a status line.
func PresentResults(results []benchmark.CaseResult, elapsed time.Duration, out io.Writer) {
	fmt.Fprintf(out, "\n--- Results ---\n%s\n", RenderResultsTable(results))
	if summaries := benchmark.Summarize(results); len(summaries) > 0 {
		fmt.Fprintf(out, "\n--- Scaling ---\n%s\n", RenderSummaryTable(summaries))
	}
	if failed := benchmark.Failed(results); failed > 0 {
		fmt.Fprintf(out, "\n%s%d of %d cases failed%s in %s.\n",
			ui.ColorRed(), failed, len(results), ui.ColorReset(), format.FormatExecutionDuration(elapsed))
		return
	}
	fmt.Fprintf(out, "\n%sAll %d cases succeeded%s in %s.\n",
		ui.ColorGreen(), len(results), ui.ColorReset(), format.FormatExecutionDuration(elapsed))
}

// PresentAccuracy prints the accuracy table under its own heading.
func PresentAccuracy(integrand string, rows []accuracy.Row, out io.Writer) {
	fmt.Fprintf(out, "\n--- Accuracy of %s (%s accumulator) ---\n%s\n", integrand, accuracy.Backend, RenderAccuracyTable(rows))
}

// DisplayQuietResults prints one tab-separated line per case, for scripting:
// strategy, iters, jobs, seconds per repetition, value, status.
func DisplayQuietResults(results []benchmark.CaseResult, out io.Writer) {
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "error"
		}
		fmt.Fprintf(out, "%s\t%d\t%d\t%.6f\t%.15g\t%s\n",
			r.Strategy, r.Iters, r.Jobs, r.Duration.Seconds(), r.Value, status)
	}
}

// DisplayMemoryStats shows what the run allocated, from a snapshot taken
// with MemoryCollector.SinceStart.
func DisplayMemoryStats(s metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Allocated by run: %s\n", format.FormatBytes(s.TotalAlloc))
	fmt.Fprintf(out, "  Heap in use:      %s\n", format.FormatBytes(s.HeapAlloc))
	fmt.Fprintf(out, "  Obtained from OS: %s\n", format.FormatBytes(s.Sys))
	fmt.Fprintf(out, "  GC cycles:        %d\n", s.NumGC)
	fmt.Fprintf(out, "  GC pause:         %.2fms\n", float64(s.GCPause)/float64(time.Millisecond))
}
