package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/format"
)

// MetricsModel displays runtime memory statistics and run indicators.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	gcPause      time.Duration
	numGoroutine int

	speed        float64 // progress per second
	lastProgress float64
	lastUpdate   time.Time

	done, total, failed int
	lastThroughput      float64
	bestSpeedup         float64
	bestCase            benchmark.Case

	width  int
	height int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		lastUpdate: time.Now(),
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.HeapAlloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.gcPause = msg.GCPause
	m.numGoroutine = msg.NumGoroutine
}

// UpdateProgress updates the smoothed progress rate.
func (m *MetricsModel) UpdateProgress(progress float64) {
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt > 0.05 {
		dp := progress - m.lastProgress
		if dp > 0 {
			instantSpeed := dp / dt
			if m.speed > 0 {
				m.speed = 0.7*m.speed + 0.3*instantSpeed
			} else {
				m.speed = instantSpeed
			}
		}
		m.lastProgress = progress
		m.lastUpdate = now
	}
}

// RecordCase updates the run indicators from a finished case.
func (m *MetricsModel) RecordCase(index, total int, r benchmark.CaseResult) {
	m.done = index + 1
	m.total = total
	if r.Err != nil {
		m.failed++
		return
	}
	m.lastThroughput = r.Throughput
	if r.Speedup > m.bestSpeedup {
		m.bestSpeedup = r.Speedup
		m.bestCase = r.Case
	}
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder

	heapStr := metricValueStyle.Render(format.FormatBytes(m.alloc) + " / " + format.FormatBytes(m.heapSys))
	gcPauseStr := metricValueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.gcPause)/float64(time.Millisecond)))
	pipe := metricLabelStyle.Render(" | ")
	topLine := fmt.Sprintf("  %s %s%s%s %s",
		metricLabelStyle.Render("Heap:"), heapStr,
		pipe,
		metricLabelStyle.Render("GC:"), gcPauseStr)
	rows.WriteString(topLine)

	colWidth := (m.width - 6) / 2

	perCase := "-"
	if m.speed > 0 && m.total > 0 {
		perCase = format.FormatETA(time.Duration(float64(time.Second) / (m.speed * float64(m.total))))
	}
	best := "-"
	if m.bestSpeedup > 0 {
		best = fmt.Sprintf("%s %s j=%d", format.FormatSpeedup(m.bestSpeedup), m.bestCase.Strategy, m.bestCase.Jobs)
	}

	leftCol := []string{
		formatMetricCol("Cases:", fmt.Sprintf("%d/%d", m.done, m.total), colWidth),
		formatMetricCol("Throughput:", format.FormatThroughput(m.lastThroughput), colWidth),
	}
	rightCol := []string{
		formatMetricCol("Failed:", fmt.Sprintf("%d", m.failed), colWidth),
		formatMetricCol("Best:", best, colWidth),
	}
	leftCol = append(leftCol, formatMetricCol("Per case:", perCase, colWidth))
	rightCol = append(rightCol, formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), colWidth))

	for i := range leftCol {
		rows.WriteString("\n")
		rows.WriteString(leftCol[i])
		rows.WriteString(rightCol[i])
	}

	return panelStyle.
		Width(max(0, m.width-2)).
		Height(max(0, m.height-2)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	// Pad to fixed column width using lipgloss-aware width
	visible := lipgloss.Width(cell)
	if visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
