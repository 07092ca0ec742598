package tui

import (
	"context"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/integbench/internal/benchmark"
	apperrors "github.com/agbru/integbench/internal/errors"
	"github.com/agbru/integbench/internal/format"
	"github.com/agbru/integbench/internal/metrics"
	"github.com/agbru/integbench/internal/sysmon"
)

// RunFunc executes one benchmark run, reporting to observer.
type RunFunc func(ctx context.Context, observer benchmark.Observer) ([]benchmark.CaseResult, error)

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
	results    []benchmark.CaseResult
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	h := l.height - headerHeight - footerHeight
	if h < minBodyHeight {
		h = minBodyHeight
	}
	return h
}

// logsWidth returns the width allocated to the logs panel.
func (l LayoutManager) logsWidth() int {
	return l.width * LogsPanelWidthPercent / 100
}

// rightWidth returns the width allocated to the right column (metrics + chart).
func (l LayoutManager) rightWidth() int {
	return l.width - l.logsWidth()
}

// metricsHeight returns the height allocated to the metrics panel.
func (l LayoutManager) metricsHeight() int {
	body := l.bodyHeight()
	h := MetricsPanelHeight
	if h > body/2 {
		h = body / 2
	}
	return h
}

// chartHeight returns the height allocated to the chart panel.
func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header  HeaderModel
	logs    LogsModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    benchmark.Config
	run       RunFunc
	progress  *format.Progress
	memory    *metrics.MemoryCollector
	sample    func() sysmon.Stats
	ref       *programRef
	paused    bool
}

// NewModel creates a new TUI model for cfg, measured by run.
func NewModel(parentCtx context.Context, cfg benchmark.Config, run RunFunc, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)

	logs := NewLogsModel()
	logs.AddConfig(cfg)

	return Model{
		header:  NewHeaderModel(version),
		logs:    logs,
		metrics: NewMetricsModel(),
		chart:   NewChartModel(),
		footer:  NewFooterModel(),
		keymap:  DefaultKeyMap(),
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		config:    cfg,
		run:       run,
		progress:  format.NewProgress(len(benchmark.Plan(cfg))),
		memory:    metrics.NewMemoryCollector(),
		sample:    sysmon.NewSampler().Sample,
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.ref, m.ctx, m.run, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case CaseStartedMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.logs.AddCaseStarted(msg)
		m.header.SetCase(msg.Case, msg.Index, msg.Total)
		return m, nil

	case CaseFinishedMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.logs.AddCaseFinished(msg)
		m.metrics.RecordCase(msg.Index, msg.Total, msg.Result)
		m.chart.RecordCase(msg.Result)
		frac, eta := m.progress.Update(msg.Index + 1)
		if !m.paused {
			m.chart.UpdateProgress(frac, eta)
			m.metrics.UpdateProgress(frac)
		}
		return m, nil

	case RunCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.done = true
		m.results = msg.Results
		m.exitCode = exitCodeFor(msg)
		m.logs.AddRunComplete(msg)
		m.header.SetDone()
		m.chart.SetDone(msg.Elapsed)
		m.footer.SetDone(true)
		m.footer.SetError(m.exitCode != apperrors.ExitSuccess)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(m.memory), sampleSysStatsCmd(m.sample), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if !m.done {
			m.exitCode = apperrors.ExitCodeFor(msg.Err)
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func exitCodeFor(msg RunCompleteMsg) int {
	if msg.Err != nil {
		return apperrors.ExitCodeFor(msg.Err)
	}
	if benchmark.Failed(msg.Results) > 0 {
		return apperrors.ExitErrorFailed
	}
	return apperrors.ExitSuccess
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		// Cancel the current run; its late events carry the old generation.
		if m.cancel != nil {
			m.cancel()
		}

		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel

		m.header.Reset()
		m.logs.Reset()
		m.logs.AddConfig(m.config)
		m.chart.Reset()
		m.metrics = NewMetricsModel()
		m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
		m.progress = format.NewProgress(len(benchmark.Plan(m.config)))
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.done = false
		m.paused = false
		m.results = nil
		m.exitCode = apperrors.ExitSuccess

		return m, tea.Batch(
			tickCmd(),
			startRunCmd(m.ref, m.ctx, m.run, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)

	case key.Matches(msg, m.keymap.Up):
		m.logs.Scroll(-1)
	case key.Matches(msg, m.keymap.Down):
		m.logs.Scroll(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.logs.Scroll(-m.logs.PageSize())
	case key.Matches(msg, m.keymap.PageDown):
		m.logs.Scroll(m.logs.PageSize())
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	header := m.header.View()
	footer := m.footer.View()

	metrics := m.metrics.View()
	chart := m.chart.View()

	// Right column: metrics on top, chart on bottom
	rightCol := lipgloss.JoinVertical(lipgloss.Left, metrics, chart)

	// Render logs panel to match the right column's actual height
	logs := m.logs.renderToHeight(lipgloss.Height(rightCol))

	body := lipgloss.JoinHorizontal(lipgloss.Top, logs, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Layout constants for the TUI dashboard.
const (
	headerHeight          = 1
	footerHeight          = 1
	minBodyHeight         = 4
	LogsPanelWidthPercent = 55
	MetricsPanelHeight    = 6 // top line + 3 indicator rows + borders
)

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.logs.SetSize(m.logsWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// Run is the public entry point for the TUI mode. It runs the dashboard
// until the user quits and returns the exit code of the last run together
// with its results.
func Run(ctx context.Context, cfg benchmark.Config, run RunFunc, version string) (int, []benchmark.CaseResult) {
	// Rebuild styles from the current ui theme (set by the app via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, cfg, run, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so the observer can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric, nil
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode, m.results
	}
	return apperrors.ExitSuccess, nil
}

// startRunCmd returns a tea.Cmd that runs the benchmark.
func startRunCmd(ref *programRef, ctx context.Context, run RunFunc, gen uint64) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		results, err := run(ctx, &Observer{ref: ref, generation: gen})
		return RunCompleteMsg{Results: results, Elapsed: time.Since(start), Err: err, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd(mc *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg{MemorySnapshot: mc.SinceStart(), NumGoroutine: runtime.NumGoroutine()}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd(sample func() sysmon.Stats) tea.Cmd {
	return func() tea.Msg {
		s := sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
