package pool

import (
	"fmt"
	"sync/atomic"

	"github.com/utkarsh5026/barrierpool/internal/cpu"
)

// WorkerState is the lifecycle state of one pool worker.
type WorkerState int32

const (
	// WorkerIdle means the worker is blocked on its inbox waiting for a batch.
	WorkerIdle WorkerState = iota
	// WorkerRunning means the worker is draining the cursor of a batch.
	WorkerRunning
	// WorkerStopped is terminal: the pool was closed and the worker goroutine exited.
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerRunning:
		return "running"
	case WorkerStopped:
		return "stopped"
	default:
		return fmt.Sprintf("WorkerState(%d)", int32(s))
	}
}

type messageKind uint8

const (
	msgRun messageKind = iota
	msgStop
)

// message is what travels over a worker inbox: either one batch share to execute, or shutdown.
type message struct {
	kind  messageKind
	job   job
	batch *batch
}

type worker struct {
	id      int
	inbox   chan message
	state   atomic.Int32
	binding cpu.Binding
}

func newWorker(id int) *worker {
	// capacity 1: a worker never holds more than one pending message
	return &worker{id: id, inbox: make(chan message, 1)}
}

// run is the persistent worker loop. It reports the thread binding result on ready
// before accepting any message, and exits only on msgStop or a closed inbox.
func (w *worker) run(p *Pool, ready chan<- error) {
	defer p.wg.Done()

	binding, release, err := cpu.Bind(w.id, p.conf.lockThreads, p.conf.pinCPUs)
	defer release()
	w.binding = binding
	ready <- err

	p.log.Debug().
		Int("worker", w.id).
		Bool("locked", binding.Locked).
		Int("cpu", binding.CPU).
		Msg("worker started")

	defer func() {
		w.setState(WorkerStopped)
		p.log.Debug().Int("worker", w.id).Msg("worker stopped")
	}()

	for msg := range w.inbox {
		switch msg.kind {
		case msgStop:
			return

		case msgRun:
			w.execute(msg)
		}
	}
}

// execute runs one job and always reaches the batch barrier, even when the job
// ends the goroutine with runtime.Goexit.
func (w *worker) execute(msg message) {
	w.setState(WorkerRunning)
	defer func() {
		// Idle must be visible before the barrier releases the caller.
		w.setState(WorkerIdle)
		msg.batch.arrive()
	}()
	msg.job.run(w.id)
}

// send hands one message to the worker. A closed inbox means the pool invariant is
// broken, which is fatal.
func (w *worker) send(msg message) {
	defer func() {
		if r := recover(); r != nil {
			panic(fmt.Errorf("%w: worker %d inbox is gone: %v", ErrPoolClosed, w.id, r))
		}
	}()
	w.inbox <- msg
}

func (w *worker) setState(s WorkerState) { w.state.Store(int32(s)) }

func (w *worker) State() WorkerState { return WorkerState(w.state.Load()) }
