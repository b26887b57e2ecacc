package miner

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ctxCheckInterval is how many transactions a worker scans between
// cancellation checks.
const ctxCheckInterval = 4096

// progressBatch is how many candidates a worker counts between progress
// reports.
const progressBatch = 32

// counter scans the shared transaction list. Workers split the work into
// disjoint ranges and write only to their own slots, so no locking is needed
// and the totals do not depend on scheduling.
type counter struct {
	// progress, when set, receives the number of candidates just counted.
	progress     func(n int)
	transactions [][]int
	workers      int
}

// countItems returns the support count of every item id.
func (c counter) countItems(ctx context.Context, items int) ([]int, error) {
	chunks := split(len(c.transactions), c.workers)
	partials := make([][]int, len(chunks))

	err := c.run(ctx, chunks, func(ctx context.Context, idx int, lo, hi int) error {
		local := make([]int, items)
		for i := lo; i < hi; i++ {
			if (i-lo)%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			for _, id := range c.transactions[i] {
				local[id]++
			}
		}
		partials[idx] = local
		return nil
	})
	if err != nil {
		return nil, err
	}

	counts := make([]int, items)
	for _, local := range partials {
		for id, n := range local {
			counts[id] += n
		}
	}
	return counts, nil
}

// countCandidates fills in the count of every candidate.
func (c counter) countCandidates(ctx context.Context, candidates []candidate) error {
	chunks := split(len(candidates), c.workers)

	return c.run(ctx, chunks, func(ctx context.Context, _ int, lo, hi int) error {
		pending := 0
		for i := lo; i < hi; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids := candidates[i].ids
			count := 0
			for _, row := range c.transactions {
				if containsAll(row, ids) {
					count++
				}
			}
			candidates[i].count = count

			pending++
			if pending == progressBatch {
				c.report(pending)
				pending = 0
			}
		}
		c.report(pending)
		return nil
	})
}

func (c counter) report(n int) {
	if c.progress != nil && n > 0 {
		c.progress(n)
	}
}

// run executes fn once per chunk. A single chunk runs on the calling
// goroutine.
func (c counter) run(ctx context.Context, chunks [][2]int, fn func(ctx context.Context, idx, lo, hi int) error) error {
	if len(chunks) == 1 {
		return fn(ctx, 0, chunks[0][0], chunks[0][1])
	}

	g, gctx := errgroup.WithContext(ctx)
	for idx, chunk := range chunks {
		idx, chunk := idx, chunk
		g.Go(func() error {
			return fn(gctx, idx, chunk[0], chunk[1])
		})
	}
	return g.Wait()
}

// split divides n units of work into at most workers contiguous ranges.
// It always returns at least one range.
func split(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return [][2]int{{0, n}}
	}

	chunks := make([][2]int, 0, workers)
	size := n / workers
	extra := n % workers
	lo := 0
	for w := 0; w < workers; w++ {
		hi := lo + size
		if w < extra {
			hi++
		}
		chunks = append(chunks, [2]int{lo, hi})
		lo = hi
	}
	return chunks
}
