package integrate

import apperrors "github.com/agbru/integbench/internal/errors"

// SubJob is one unit of partitioned work: the half-open sub-interval [A, B)
// and the number of rectangles to sum over it.
type SubJob struct {
	Index int
	A     float64
	B     float64
	Iters int
}

// Partition splits [a, b] into nJobs contiguous sub-intervals of equal width
// and assigns nIter/nJobs rectangles to each.
//
// The remainder nIter%nJobs is dropped: the sub-jobs sum to Dropped(nJobs,
// nIter) fewer rectangles than requested. This is a known approximation kept
// so that every strategy computes the same work.
//
// Both counts must be positive and nIter must be at least nJobs, otherwise
// some sub-job would be left with no rectangles; violations return an error
// matching apperrors.ErrInvalidArgument.
func Partition(a, b float64, nJobs, nIter int) ([]SubJob, error) {
	if err := checkCounts(nJobs, nIter); err != nil {
		return nil, err
	}

	stepJob := (b - a) / float64(nJobs)
	itersPerJob := nIter / nJobs

	jobs := make([]SubJob, nJobs)
	for i := range jobs {
		jobs[i] = SubJob{
			Index: i,
			A:     a + float64(i)*stepJob,
			B:     a + float64(i+1)*stepJob,
			Iters: itersPerJob,
		}
	}
	// Pin the outer edge so rounding in stepJob cannot leave a gap at b.
	jobs[nJobs-1].B = b
	return jobs, nil
}

// Dropped returns the number of rectangles Partition discards for the given
// counts. It assumes the counts are valid.
func Dropped(nJobs, nIter int) int {
	return nIter % nJobs
}

// checkCounts validates a job/iteration pair the way every strategy does,
// including Sequential, which does not split the work.
func checkCounts(nJobs, nIter int) error {
	if err := checkJobs(nJobs); err != nil {
		return err
	}
	if err := checkIters(nIter); err != nil {
		return err
	}
	if nIter < nJobs {
		return apperrors.NewInvalidArgument("n_iter", "must be at least n_jobs (%d), got %d", nJobs, nIter)
	}
	return nil
}
