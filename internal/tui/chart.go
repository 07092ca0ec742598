package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/format"
)

// sysHistorySize bounds the samples kept for each sparkline.
const sysHistorySize = 120

// ChartModel shows run progress and system load history.
type ChartModel struct {
	averageProgress float64
	eta             time.Duration
	elapsed         time.Duration
	done            bool
	cpuHistory      *RingBuffer
	memHistory      *RingBuffer
	rateHistory     *RingBuffer
	width           int
	height          int
}

// NewChartModel creates an empty chart.
func NewChartModel() ChartModel {
	return ChartModel{
		cpuHistory:  NewRingBuffer(sysHistorySize),
		memHistory:  NewRingBuffer(sysHistorySize),
		rateHistory: NewRingBuffer(sysHistorySize),
	}
}

// SetSize updates dimensions and resizes the history to the plot width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	if cols := c.plotWidth(); cols > 0 {
		c.cpuHistory.Resize(cols * 2)
		c.memHistory.Resize(cols)
		c.rateHistory.Resize(cols)
	}
}

// UpdateProgress records the completed fraction and the time left.
func (c *ChartModel) UpdateProgress(progress float64, eta time.Duration) {
	c.averageProgress = progress
	c.eta = eta
}

// UpdateSysStats appends a system load sample.
func (c *ChartModel) UpdateSysStats(cpuPercent, memPercent float64) {
	c.cpuHistory.Push(cpuPercent)
	c.memHistory.Push(memPercent)
}

// RecordCase appends the throughput of a successful case.
func (c *ChartModel) RecordCase(r benchmark.CaseResult) {
	if r.Err == nil && r.Throughput > 0 {
		c.rateHistory.Push(r.Throughput)
	}
}

// SetDone freezes the chart at the final elapsed time.
func (c *ChartModel) SetDone(elapsed time.Duration) {
	c.done = true
	c.elapsed = elapsed
	c.averageProgress = 1
	c.eta = 0
}

// Reset clears progress and history.
func (c *ChartModel) Reset() {
	c.averageProgress = 0
	c.eta = 0
	c.elapsed = 0
	c.done = false
	c.cpuHistory.Reset()
	c.memHistory.Reset()
	c.rateHistory.Reset()
}

func (c ChartModel) plotWidth() int {
	return c.width - 12
}

func (c ChartModel) renderProgressBar() string {
	barWidth := max(10, c.width-30)
	filled := int(max(0, min(c.averageProgress, 1)) * float64(barWidth))
	styled := chartBarStyle.Render(strings.Repeat("█", filled)) + chartEmptyStyle.Render(strings.Repeat("░", barWidth-filled))

	status := "ETA: " + format.FormatETA(c.eta)
	if c.done {
		status = "Done in " + format.FormatExecutionDuration(c.elapsed)
	}
	return fmt.Sprintf("  %s %5.1f%%  %s", styled, c.averageProgress*100, status)
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(metricLabelStyle.Render("  Progress Chart"))
	b.WriteString("\n")
	b.WriteString(c.renderProgressBar())

	plotRows := c.height - 7
	if cols := c.plotWidth(); plotRows > 0 && cols > 0 {
		for _, row := range RenderBrailleChart(c.cpuHistory.Slice(), cols, plotRows) {
			b.WriteString("\n  ")
			b.WriteString(cpuSparklineStyle.Render(row))
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s %s",
		metricLabelStyle.Render("CPU"),
		cpuSparklineStyle.Render(RenderSparkline(lastN(c.cpuHistory.Slice(), max(0, c.plotWidth())))),
		metricValueStyle.Render(fmt.Sprintf("%3.0f%%", c.cpuHistory.Last()))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s %s",
		metricLabelStyle.Render("MEM"),
		memSparklineStyle.Render(RenderSparkline(c.memHistory.Slice())),
		metricValueStyle.Render(fmt.Sprintf("%3.0f%%", c.memHistory.Last()))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s %s",
		metricLabelStyle.Render("EVAL"),
		rateSparklineStyle.Render(RenderSparkline(Normalize(c.rateHistory.Slice()))),
		metricValueStyle.Render(format.FormatThroughput(c.rateHistory.Last()))))

	return panelStyle.
		Width(max(0, c.width-2)).
		Height(max(0, c.height-2)).
		Render(b.String())
}

func lastN(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
