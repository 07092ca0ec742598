package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Collect runs fn(ctx, i) for every i in [0, n) on its own goroutine and
// returns the produced values in completion order.
//
// If any call fails, Collect waits for the calls already running, discards
// every value, and returns the first error observed. The context passed to fn
// is canceled as soon as the first error occurs; fn may ignore it.
func Collect[T any](ctx context.Context, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	done := make(chan T, n)

	for i := 0; i < n; i++ {
		g.Go(func() error {
			v, err := fn(gctx, i)
			if err != nil {
				return err
			}
			done <- v
			return nil
		})
	}

	err := g.Wait()
	close(done)
	if err != nil {
		return nil, err
	}

	values := make([]T, 0, n)
	for v := range done {
		values = append(values, v)
	}
	return values, nil
}

// Sum is Collect followed by a left-to-right sum of the values in completion order.
func Sum(ctx context.Context, n int, fn func(ctx context.Context, i int) (float64, error)) (float64, error) {
	values, err := Collect(ctx, n, fn)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total, nil
}
