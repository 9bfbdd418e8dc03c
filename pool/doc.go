// Package pool provides a fixed-size pool of persistent workers for data-parallel
// ForEach and Map over slices.
//
// A Pool starts its workers once, each locked to its own OS thread, and reuses them
// for every batch. A batch call splits the slice with a shared atomic cursor: every
// worker repeatedly claims the next unclaimed index until none are left, so faster
// workers naturally take more elements. The calling goroutine then waits on a barrier
// shared with all workers, and the call returns only when every element has been
// processed and every write is visible to the caller.
//
// # Basic Usage
//
//	p, err := pool.New(4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	data := []int{1, 2, 3, 4}
//	doubled := pool.Map(p, data, func(x int) int { return x * 2 })
//	pool.ForEach(p, data, func(x *int) { *x += 10 })
//
// # Sizing
//
//   - New(n): exactly n workers (n must be positive)
//   - NewMaxParallelism(): one worker per CPU the process may run on
//
// # Per-Worker State
//
// ForEach and Map share one function between all workers. ForEachWith and MapWith
// take a factory instead and give each worker its own instance, which is useful for
// per-worker scratch buffers or accumulators.
//
// # Configuration Options
//
//   - WithGrain(n): indices reserved per claim (default: 1)
//   - WithLockedThreads(bool): lock each worker to an OS thread (default: true)
//   - WithCPUAffinity(): pin worker i to the i-th core the process may run on
//   - WithLogger(zerolog.Logger): structured logging (default: discard)
//   - WithOnBatchEnd(fn): hook called with BatchStats after each batch
//   - WithBatchLogInterval(d): minimum spacing of per-batch debug logs (default: 1s)
//
// # Error Handling
//
// A pool has no recoverable batch errors. A panic inside a user function is recovered
// on the worker, stops the batch and is re-panicked on the calling goroutine as a
// *PanicError. Running a batch on a closed pool, or two batches at once on the same
// pool, panics with ErrPoolClosed or ErrConcurrentBatch.
//
// A user function that calls runtime.Goexit ends its worker goroutine. The batch
// still completes its barrier and re-panics a *PanicError matching ErrWorkerExited,
// and the pool is closed since it has lost a worker.
package pool
