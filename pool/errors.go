package pool

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWorkerCount = errors.New("worker count must be positive")
	ErrAffinity           = errors.New("failed to pin worker thread")

	// The errors below are raised as panics: they mean the pool or its caller broke an
	// invariant, not that a batch failed in a recoverable way.

	ErrPoolClosed      = errors.New("pool is closed")
	ErrConcurrentBatch = errors.New("another batch is already running on this pool")
	ErrWorkerPanicked  = errors.New("worker panicked")
	ErrWorkerExited    = errors.New("user function called runtime.Goexit on a worker")
	ErrSlotRewritten   = errors.New("map output slot written twice")
	ErrSlotUnfilled    = errors.New("map output slot left unfilled")
)

// PanicError is the value re-panicked on the calling goroutine when a user function
// panics inside a worker. It matches ErrWorkerPanicked with errors.Is, and also
// matches the panic value itself when that value is an error.
type PanicError struct {
	Worker int    // id of the worker that panicked
	Index  int    // element index being processed
	Value  any    // value passed to panic
	Stack  []byte // worker stack at the time of the panic
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker %d panicked at index %d: %v", e.Worker, e.Index, e.Value)
}

func (e *PanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrWorkerPanicked, err}
	}
	return []error{ErrWorkerPanicked}
}
