package pool

import (
	"fmt"

	"github.com/utkarsh5026/barrierpool/internal/slots"
)

// job is one worker's share of a batch: everything that worker needs to drain the
// shared cursor against the caller's slice. The slice is borrowed from the caller;
// the batch barrier guarantees no job touches it after the batch call returns.
type job interface {
	run(workerID int)
}

// foreachJob applies fn in place to every element the worker claims.
type foreachJob[T any] struct {
	batch *batch
	buf   []T
	fn    func(*T)
}

func (j *foreachJob[T]) run(workerID int) {
	j.batch.drain(workerID, func(i int) {
		j.fn(&j.buf[i])
	})
}

// mapJob writes fn(in[i]) into out[i] for every index the worker claims.
// The ledger asserts each output slot is written exactly once.
type mapJob[T, R any] struct {
	batch  *batch
	in     []T
	out    []R
	ledger *slots.Ledger
	fn     func(T) R
}

func (j *mapJob[T, R]) run(workerID int) {
	j.batch.drain(workerID, func(i int) {
		if !j.ledger.Mark(i) {
			panic(fmt.Errorf("%w: index %d", ErrSlotRewritten, i))
		}
		j.out[i] = j.fn(j.in[i])
	})
}
