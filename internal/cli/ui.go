//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/format"
	"github.com/agbru/integbench/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the spinner.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows the progress display to be decoupled from a specific spinner
// implementation, facilitating easier testing and maintenance.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(out io.Writer, options ...spinner.Option) Spinner {
	options = append([]spinner.Option{spinner.WithWriter(out)}, options...)
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// SpinnerObserver shows a spinner with a progress bar, an ETA and the case
// being measured while a benchmark runs.
type SpinnerObserver struct {
	benchmark.NoOpObserver

	out      io.Writer
	mu       sync.Mutex
	spinner  Spinner
	progress *format.Progress
}

// NewSpinnerObserver creates an observer writing its spinner to out.
func NewSpinnerObserver(out io.Writer) *SpinnerObserver {
	return &SpinnerObserver{out: out}
}

// CaseStarted starts the spinner on the first case and describes the case.
func (o *SpinnerObserver) CaseStarted(index, total int, c benchmark.Case) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.spinner == nil {
		o.spinner = newSpinner(o.out)
		o.progress = format.NewProgress(total)
		o.spinner.Start()
	}
	frac, eta := o.progress.Update(index)
	o.spinner.UpdateSuffix(fmt.Sprintf(" %s %s(%d/%d)%s %s",
		format.FormatProgressBarWithETA(frac, eta, ProgressBarWidth),
		ui.ColorCyan(), index+1, total, ui.ColorReset(), c))
}

// CaseFinished records the finished case.
func (o *SpinnerObserver) CaseFinished(index, _ int, _ benchmark.CaseResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.progress != nil {
		o.progress.Update(index + 1)
	}
}

// RunFinished stops the spinner.
func (o *SpinnerObserver) RunFinished([]benchmark.CaseResult, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.spinner != nil {
		o.spinner.Stop()
		o.spinner = nil
	}
}
