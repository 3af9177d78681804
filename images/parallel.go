package images

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minRowsPerWorker keeps small images on a single goroutine where the fan-out
// overhead would dominate.
const minRowsPerWorker = 16

// workerCount resolves the requested worker count for an image with the given rows.
//
// Arguments:
//   - requested: 0 selects runtime.NumCPU(), 1 forces serial execution.
//   - rows: The number of output rows.
//
// Returns:
//   - int: The number of goroutines that will compute rows, at least 1.
func workerCount(requested, rows int) int {
	n := requested
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if limit := rows / minRowsPerWorker; n > limit {
		n = limit
	}
	if n < 1 {
		n = 1
	}
	return n
}

// parallelRows runs fn for every row in [0, rows) using a fixed pool of workers.
// Each worker owns a contiguous, disjoint row range, so fn may write its row of
// the output without synchronization. The context is checked before every row;
// on cancellation the remaining rows are skipped and the context error returned.
//
// Arguments:
//   - ctx: Cancellation for the whole operation.
//   - rows: Total number of rows.
//   - workers: Number of workers (already resolved by workerCount).
//   - fn: Computes one row.
//
// Returns:
//   - error: ctx.Err() if the operation was cancelled, otherwise nil.
//
// @example
//
//	err := parallelRows(ctx, dst.Height, 4, func(y int) {
//	    // write row y of dst
//	})
func parallelRows(ctx context.Context, rows, workers int, fn func(y int)) error {
	if workers <= 1 {
		for y := 0; y < rows; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(y)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	part := (rows + workers - 1) / workers
	for start := 0; start < rows; start += part {
		start := start
		end := min(start+part, rows)
		g.Go(func() error {
			for y := start; y < end; y++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				fn(y)
			}
			return nil
		})
	}
	return g.Wait()
}
