package pool

import (
	"fmt"

	"github.com/utkarsh5026/barrierpool/internal/slots"
)

// ForEach calls fn on a pointer to every element of buf, in place, using all workers
// of p. It returns once every element has been visited exactly once.
//
// fn is shared by all workers and may run concurrently on different elements; it must
// not touch elements other than the one it is given. Use ForEachWith when each worker
// needs its own closure state.
//
// If fn panics, the batch stops and ForEach re-panics with a *PanicError.
func ForEach[T any](p *Pool, buf []T, fn func(*T)) {
	ForEachWith(p, buf, func(int) func(*T) { return fn })
}

// ForEachWith is ForEach with one function instance per worker. newFn is called once
// per worker, on the calling goroutine, before any work starts.
//
// Example:
//
//	sums := make([]int, p.Workers())
//	pool.ForEachWith(p, data, func(worker int) func(*int) {
//	    return func(x *int) { sums[worker] += *x }
//	})
func ForEachWith[T any](p *Pool, buf []T, newFn func(worker int) func(*T)) {
	p.dispatch(BatchForEach, len(buf), func(b *batch, workerID int) job {
		return &foreachJob[T]{batch: b, buf: buf, fn: newFn(workerID)}
	})
}

// Map returns a new slice holding fn(in[i]) at index i, computed by all workers of p.
// The result has the same length as in and is never nil.
//
// fn is shared by all workers; see MapWith for per-worker instances.
// If fn panics, the batch stops and Map re-panics with a *PanicError.
func Map[T, R any](p *Pool, in []T, fn func(T) R) []R {
	return MapWith(p, in, func(int) func(T) R { return fn })
}

// MapWith is Map with one function instance per worker. newFn is called once per
// worker, on the calling goroutine, before any work starts.
func MapWith[T, R any](p *Pool, in []T, newFn func(worker int) func(T) R) []R {
	out := make([]R, len(in))
	ledger := slots.New(len(in))

	p.dispatch(BatchMap, len(in), func(b *batch, workerID int) job {
		return &mapJob[T, R]{batch: b, in: in, out: out, ledger: ledger, fn: newFn(workerID)}
	})

	if missing := ledger.Missing(); missing != -1 {
		panic(fmt.Errorf("%w: index %d of %d", ErrSlotUnfilled, missing, len(in)))
	}
	return out
}
