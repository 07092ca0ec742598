package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxETA caps ETA estimates; early extrapolations are unreliable.
const maxETA = 24 * time.Hour

// Progress tracks completed cases of a run and extrapolates the time left
// from the average duration of the finished ones. It is safe for concurrent use.
type Progress struct {
	mu        sync.Mutex
	total     int
	done      int
	startTime time.Time
	now       func() time.Time
}

// NewProgress starts tracking a run of total cases.
func NewProgress(total int) *Progress {
	return &Progress{total: total, startTime: time.Now(), now: time.Now}
}

// Update records done finished cases and returns the completed fraction and
// the estimated time left. done is clamped to [0, total].
func (p *Progress) Update(done int) (float64, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = max(0, min(done, p.total))
	return p.fraction(), p.eta()
}

// Fraction returns the completed fraction in [0, 1].
func (p *Progress) Fraction() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fraction()
}

// ETA returns the estimated time left, or 0 before the first case finished.
func (p *Progress) ETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eta()
}

func (p *Progress) fraction() float64 {
	if p.total <= 0 {
		return 0
	}
	return float64(p.done) / float64(p.total)
}

func (p *Progress) eta() time.Duration {
	if p.done == 0 || p.done >= p.total {
		return 0
	}
	elapsed := p.now().Sub(p.startTime)
	perCase := elapsed / time.Duration(p.done)
	return min(perCase*time.Duration(p.total-p.done), maxETA)
}

// ProgressBar renders a bar of length cells for a fraction in [0, 1].
func ProgressBar(progress float64, length int) string {
	progress = max(0, min(progress, 1))
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 1m5s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), max(0, min(progress, 1))*100, FormatETA(eta))
}
