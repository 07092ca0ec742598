package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/format"
)

// LogsModel is the scrollable event log on the left of the dashboard.
type LogsModel struct {
	lines  []string
	offset int
	follow bool
	width  int
	height int
	now    func() time.Time
}

// NewLogsModel creates an empty log that follows new entries.
func NewLogsModel() LogsModel {
	return LogsModel{follow: true, now: time.Now}
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
	l.clampOffset()
}

// Reset clears the log.
func (l *LogsModel) Reset() {
	l.lines = nil
	l.offset = 0
	l.follow = true
}

// AddConfig logs the run configuration.
func (l *LogsModel) AddConfig(cfg benchmark.Config) {
	l.add(fmt.Sprintf("%s over [%g, %g], %d cases x %d repeats",
		logCaseStyle.Render(cfg.Integrand), cfg.A, cfg.B, len(benchmark.Plan(cfg)), cfg.Repeats))
	l.add("strategies: " + strings.Join(cfg.Strategies, ", "))
}

// AddCaseStarted logs the start of a case.
func (l *LogsModel) AddCaseStarted(msg CaseStartedMsg) {
	l.add(fmt.Sprintf("%s %s",
		logProgressStyle.Render(fmt.Sprintf("[%d/%d]", msg.Index+1, msg.Total)),
		logCaseStyle.Render(msg.Case.String())))
}

// AddCaseFinished logs a measured case.
func (l *LogsModel) AddCaseFinished(msg CaseFinishedMsg) {
	r := msg.Result
	if r.Err != nil {
		l.add(logErrorStyle.Render(fmt.Sprintf("  ✗ %s: %v", r.Case, r.Err)))
		return
	}
	line := fmt.Sprintf("  ✓ %s  %s", format.FormatExecutionDuration(r.Duration), format.FormatThroughput(r.Throughput))
	if r.Speedup > 0 {
		line += "  " + format.FormatSpeedup(r.Speedup)
	}
	l.add(logSuccessStyle.Render(line))
}

// AddRunComplete logs the end of the run.
func (l *LogsModel) AddRunComplete(msg RunCompleteMsg) {
	if msg.Err != nil {
		l.AddError(msg.Err)
		return
	}
	failed := benchmark.Failed(msg.Results)
	text := fmt.Sprintf("run complete: %d cases, %d failed, %s",
		len(msg.Results), failed, format.FormatExecutionDuration(msg.Elapsed))
	if failed > 0 {
		l.add(logErrorStyle.Render(text))
		return
	}
	l.add(logSuccessStyle.Render(text))
	for _, s := range benchmark.Summarize(msg.Results) {
		line := fmt.Sprintf("  %s iters=%s best jobs=%d %s", s.Strategy, format.FormatInt(s.Iters), s.BestJobs, format.FormatSpeedup(s.BestSpeedup))
		if s.Fit != nil {
			line += fmt.Sprintf(" serial=%.3f", s.Fit.SerialFraction)
		}
		l.add(line)
	}
}

// AddError logs an error.
func (l *LogsModel) AddError(err error) {
	l.add(logErrorStyle.Render("error: " + err.Error()))
}

// Scroll moves the view by delta lines. Scrolling to the bottom resumes
// following new entries.
func (l *LogsModel) Scroll(delta int) {
	l.offset = max(0, min(l.offset+delta, l.maxOffset()))
	l.follow = l.offset == l.maxOffset()
}

// PageSize is the number of visible log lines.
func (l LogsModel) PageSize() int {
	return max(1, l.height-2)
}

func (l *LogsModel) add(text string) {
	stamp := logTimeStyle.Render(l.now().Format(time.TimeOnly))
	l.lines = append(l.lines, stamp+" "+text)
	if l.follow {
		l.offset = l.maxOffset()
	}
}

func (l LogsModel) maxOffset() int {
	return max(0, len(l.lines)-l.PageSize())
}

func (l *LogsModel) clampOffset() {
	l.offset = max(0, min(l.offset, l.maxOffset()))
	if l.follow {
		l.offset = l.maxOffset()
	}
}

// renderToHeight renders the panel at exactly h rows including borders.
func (l LogsModel) renderToHeight(h int) string {
	visible := max(1, h-2)
	start := l.offset
	if l.follow || start > len(l.lines)-visible {
		start = max(0, len(l.lines)-visible)
	}
	end := min(len(l.lines), start+visible)

	inner := max(1, l.width-4)
	clip := lipgloss.NewStyle().MaxWidth(inner)
	rows := make([]string, 0, visible)
	for _, line := range l.lines[start:end] {
		rows = append(rows, " "+clip.Render(line))
	}
	return panelStyle.
		Width(max(0, l.width-2)).
		Height(visible).
		Render(strings.Join(rows, "\n"))
}

// View renders the panel at its configured height.
func (l LogsModel) View() string {
	return l.renderToHeight(l.height)
}
