package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/format"
)

// HeaderModel renders the top bar: title, elapsed time and the running case.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	width     int

	current      benchmark.Case
	index, total int
	running      bool
}

// NewHeaderModel creates a header whose timer starts now.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
}

// SetCase shows c as the case in progress.
func (h *HeaderModel) SetCase(c benchmark.Case, index, total int) {
	h.current = c
	h.index = index
	h.total = total
	h.running = true
}

// SetDone freezes the elapsed timer and clears the running case.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
	h.running = false
}

// Reset restarts the elapsed timer for a new run.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
	h.running = false
}

func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

func (h HeaderModel) elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// caseLabel describes the running case, e.g. "[2/6] shared ×4 jobs, 1,000,000 iters".
func (h HeaderModel) caseLabel() string {
	if !h.running {
		return ""
	}
	jobs := fmt.Sprintf(" ×%d jobs", h.current.Jobs)
	if h.current.Jobs <= 1 {
		jobs = ""
	}
	return fmt.Sprintf("[%d/%d] %s%s, %s iters",
		h.index+1, h.total, h.current.Strategy, jobs, format.FormatInt(h.current.Iters))
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "integbench"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")
	row := titleStyle.Render(titleText) + pipe +
		elapsedStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.elapsed()))
	if label := h.caseLabel(); label != "" {
		row += pipe + metricValueStyle.Render(label)
	}

	innerWidth := max(0, h.width-2)
	row += spaces(innerWidth - lipgloss.Width(row))
	return headerStyle.Width(h.width).Render(row)
}

// spaces returns n blanks, or "" when n is not positive.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
