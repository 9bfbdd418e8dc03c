package pool

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/barrierpool/internal/barrier"
	"github.com/utkarsh5026/barrierpool/internal/cursor"
)

// BatchKind identifies the operation a batch performed.
type BatchKind uint8

const (
	BatchForEach BatchKind = iota
	BatchMap
)

func (k BatchKind) String() string {
	switch k {
	case BatchForEach:
		return "foreach"
	case BatchMap:
		return "map"
	default:
		return fmt.Sprintf("BatchKind(%d)", uint8(k))
	}
}

// BatchStats describes one completed batch. It is passed to the WithOnBatchEnd hook.
type BatchStats struct {
	Kind     BatchKind
	Length   int
	Grain    int
	Workers  int
	Claims   []int64 // elements processed by each worker, indexed by worker id
	Duration time.Duration
}

// batch is the coordination state shared by every job of one ForEach/Map call:
// a fresh cursor, a fresh barrier sized workers+1, and the first failure, if any.
// It is never reused across calls.
type batch struct {
	kind    BatchKind
	cursor  *cursor.Cursor
	barrier *barrier.Barrier
	claims  []atomic.Int64
	failure atomic.Pointer[PanicError]
	started time.Time
}

func newBatch(kind BatchKind, length, workers, grain int) *batch {
	return &batch{
		kind:    kind,
		cursor:  cursor.New(length, grain),
		barrier: barrier.New(workers + 1),
		claims:  make([]atomic.Int64, workers),
		started: time.Now(),
	}
}

// drain claims ranges until the cursor is exhausted and calls apply for every
// claimed index. A panic in apply is recorded as the batch failure and stops
// further claims by every worker; it never escapes the worker goroutine.
// A runtime.Goexit in apply is recorded the same way with ErrWorkerExited.
func (b *batch) drain(workerID int, apply func(i int)) {
	i := -1
	completed := false
	defer func() {
		if r := recover(); r != nil {
			b.fail(&PanicError{Worker: workerID, Index: i, Value: r, Stack: debug.Stack()})
		} else if !completed {
			b.fail(&PanicError{Worker: workerID, Index: i, Value: ErrWorkerExited, Stack: debug.Stack()})
		}
	}()

	for b.failure.Load() == nil {
		start, end, ok := b.cursor.Claim()
		if !ok {
			break
		}
		for i = start; i < end; i++ {
			apply(i)
		}
		b.claims[workerID].Add(int64(end - start))
	}
	completed = true
}

func (b *batch) fail(pe *PanicError) {
	if b.failure.CompareAndSwap(nil, pe) {
		b.cursor.Exhaust()
	}
}

// arrive is the participant side of the dispatch barrier.
func (b *batch) arrive() { b.barrier.Wait() }

func (b *batch) stats(workers int) BatchStats {
	claims := make([]int64, len(b.claims))
	for i := range b.claims {
		claims[i] = b.claims[i].Load()
	}
	return BatchStats{
		Kind:     b.kind,
		Length:   b.cursor.Len(),
		Grain:    b.cursor.Grain(),
		Workers:  workers,
		Claims:   claims,
		Duration: time.Since(b.started),
	}
}
