package benchmark

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/agbru/integbench/internal/integrate"
)

// annotate fills Speedup and Efficiency of r against the sequential
// duration for the same iteration count.
func annotate(r *CaseResult, baseline time.Duration) {
	if r.Duration <= 0 || baseline <= 0 {
		return
	}
	r.Speedup = float64(baseline) / float64(r.Duration)
	if r.Jobs > 0 {
		r.Efficiency = r.Speedup / float64(r.Jobs)
	}
}

// ScalingPoint is one measured speedup at a job count.
type ScalingPoint struct {
	Jobs    int
	Speedup float64
}

// AmdahlFit is the result of fitting Amdahl's law, S(N) = 1 / (s + (1-s)/N),
// to measured speedups.
type AmdahlFit struct {
	// SerialFraction is s, clamped to [0, 1].
	SerialFraction float64 `json:"serial_fraction"`
	// MaxSpeedup is the asymptotic speedup 1/s; +Inf when s is 0, which
	// JSON cannot encode.
	MaxSpeedup float64 `json:"-"`
	// RSquared is the coefficient of determination of the predicted speedups.
	RSquared float64 `json:"r_squared"`
	Points   int     `json:"points"`
}

// Predict returns the fitted speedup at n jobs.
func (f AmdahlFit) Predict(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 1 / (f.SerialFraction + (1-f.SerialFraction)/float64(n))
}

// FitAmdahl estimates the serial fraction from speedup measurements.
//
// Amdahl's law rearranges to 1/S - 1/N = s·(1 - 1/N), a line through the
// origin in x = 1 - 1/N. The slope is solved by least squares. Points with
// N = 1 carry no information about s and are ignored, as are non-positive
// speedups.
func FitAmdahl(points []ScalingPoint) (AmdahlFit, error) {
	var sumXY, sumXX float64
	used := make([]ScalingPoint, 0, len(points))
	for _, p := range points {
		if p.Jobs <= 1 || p.Speedup <= 0 {
			continue
		}
		n := float64(p.Jobs)
		x := 1 - 1/n
		y := 1/p.Speedup - 1/n
		sumXY += x * y
		sumXX += x * x
		used = append(used, p)
	}
	if len(used) == 0 {
		return AmdahlFit{}, fmt.Errorf("need at least one point with more than one job, got %d points", len(points))
	}

	s := sumXY / sumXX
	s = math.Max(0, math.Min(1, s))
	fit := AmdahlFit{SerialFraction: s, Points: len(used), MaxSpeedup: math.Inf(1)}
	if s > 0 {
		fit.MaxSpeedup = 1 / s
	}

	var mean float64
	for _, p := range used {
		mean += p.Speedup
	}
	mean /= float64(len(used))
	var ssRes, ssTot float64
	for _, p := range used {
		d := p.Speedup - fit.Predict(p.Jobs)
		ssRes += d * d
		m := p.Speedup - mean
		ssTot += m * m
	}
	if ssTot > 0 {
		fit.RSquared = 1 - ssRes/ssTot
	} else if ssRes < 1e-12 {
		// All speedups equal and matched by the model.
		fit.RSquared = 1
	}
	return fit, nil
}

// Summary condenses the cases of one strategy at one iteration count.
type Summary struct {
	Strategy    string        `json:"strategy"`
	Iters       int           `json:"iters"`
	BestJobs    int           `json:"best_jobs"`
	BestTime    time.Duration `json:"best_time_ns"`
	BestSpeedup float64       `json:"best_speedup"`
	Fit         *AmdahlFit    `json:"amdahl,omitempty"`
}

// Summarize groups successful parallel cases by strategy and iteration count,
// picks the fastest job count and fits Amdahl's law where speedups are known.
// Summaries are ordered by strategy then iteration count.
func Summarize(results []CaseResult) []Summary {
	type key struct {
		strategy string
		iters    int
	}
	groups := make(map[key][]CaseResult)
	for _, r := range results {
		if r.Err != nil || r.Strategy == integrate.StrategySequential {
			continue
		}
		k := key{r.Strategy, r.Iters}
		groups[k] = append(groups[k], r)
	}

	summaries := make([]Summary, 0, len(groups))
	for k, rs := range groups {
		s := Summary{Strategy: k.strategy, Iters: k.iters}
		points := make([]ScalingPoint, 0, len(rs))
		for _, r := range rs {
			if s.BestTime == 0 || r.Duration < s.BestTime {
				s.BestJobs, s.BestTime, s.BestSpeedup = r.Jobs, r.Duration, r.Speedup
			}
			points = append(points, ScalingPoint{Jobs: r.Jobs, Speedup: r.Speedup})
		}
		if fit, err := FitAmdahl(points); err == nil {
			s.Fit = &fit
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Strategy != summaries[j].Strategy {
			return summaries[i].Strategy < summaries[j].Strategy
		}
		return summaries[i].Iters < summaries[j].Iters
	})
	return summaries
}
