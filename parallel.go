package succinct

import "golang.org/x/sync/errgroup"

// spanChunk is the number of sampled spans handed to one goroutine.
const spanChunk = 1024

// forEachSpan calls fn over [lo, hi) chunks covering [0, n) using at most
// workers goroutines. Chunks are disjoint, so fn may write to
// per-span slots without synchronization.
func forEachSpan(n uint64, workers int, fn func(lo, hi uint64)) error {
	if workers <= 1 || n <= spanChunk {
		fn(0, n)
		return nil
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := uint64(0); lo < n; lo += spanChunk {
		hi := min(lo+spanChunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
