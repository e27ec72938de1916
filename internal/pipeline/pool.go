package pipeline

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// ProgressFunc is called during loading to report progress.
// current is the number of items processed so far, total is the total count.
type ProgressFunc func(current, total int)

// workerCount returns the pool size for n items. requested <= 0 means one
// worker per available CPU.
func workerCount(requested, n int) int {
	numWorkers := requested
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > n {
		numWorkers = n
	}
	return numWorkers
}

// parallel applies fn to every item with a bounded worker pool. Results keep
// the order of items. done is added to the progress count so callers can
// report progress over a larger total.
func parallel[T, R any](items []T, workers int, fn func(T) R, progressFn ProgressFunc, done, total int) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}

	numWorkers := workerCount(workers, len(items))
	work := make(chan int, len(items))
	var wg sync.WaitGroup
	var processed atomic.Int64

	// Feed work
	for i := range items {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = fn(items[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+done, total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}
