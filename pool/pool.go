package pool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/utkarsh5026/barrierpool/internal/cpu"
)

// Pool is a fixed set of persistent workers that execute ForEach and Map batches.
// Workers are started once by New and live until Close.
//
// A Pool runs one batch at a time. Callers that share a pool between goroutines
// must serialize their batch calls; overlapping calls panic with ErrConcurrentBatch.
type Pool struct {
	conf    *poolConfig
	log     zerolog.Logger
	workers []*worker
	wg      sync.WaitGroup

	busy      atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once

	batches atomic.Int64
	items   atomic.Int64

	logGate rate.Sometimes
}

// Stats is a snapshot of pool-wide counters.
type Stats struct {
	Workers int
	Batches int64 // completed batches, including empty ones
	Items   int64 // elements processed by completed batches
}

// New starts a pool of n workers and returns once every worker is running.
//
// Returns ErrInvalidWorkerCount if n <= 0. With WithCPUAffinity, a worker that cannot
// be pinned makes New close the partially started pool and return an error wrapping
// ErrAffinity.
//
// Example:
//
//	p, err := pool.New(4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
func New(n int, opts ...Option) (*Pool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, n)
	}

	cfg := createConfig(opts...)
	p := &Pool{
		conf:    cfg,
		log:     cfg.logger.With().Str("component", "barrierpool").Logger(),
		workers: make([]*worker, n),
		logGate: rate.Sometimes{First: 1, Interval: cfg.logInterval},
	}

	var g errgroup.Group
	for i := range n {
		w := newWorker(i)
		p.workers[i] = w

		ready := make(chan error, 1)
		p.wg.Add(1)
		go w.run(p, ready)

		g.Go(func() error {
			if err := <-ready; err != nil {
				p.log.Warn().Err(err).Int("worker", w.id).Msg("worker thread binding failed")
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.Close()
		return nil, fmt.Errorf("%w: %w", ErrAffinity, err)
	}

	p.log.Debug().
		Int("workers", n).
		Int("grain", cfg.grain).
		Bool("locked_threads", cfg.lockThreads).
		Bool("cpu_affinity", cfg.pinCPUs).
		Msg("pool started")

	return p, nil
}

// NewMaxParallelism starts a pool with one worker per CPU available to the process.
// Detection falls back to runtime.NumCPU and never yields fewer than one worker.
func NewMaxParallelism(opts ...Option) (*Pool, error) {
	return New(cpu.AvailableParallelism(), opts...)
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int { return len(p.workers) }

// WorkerStates returns the current state of every worker, indexed by worker id.
func (p *Pool) WorkerStates() []WorkerState {
	states := make([]WorkerState, len(p.workers))
	for i, w := range p.workers {
		states[i] = w.State()
	}
	return states
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers: len(p.workers),
		Batches: p.batches.Load(),
		Items:   p.items.Load(),
	}
}

// Close stops every worker and waits for their goroutines to exit.
// It is safe to call more than once. Any batch call after Close panics with ErrPoolClosed.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		for _, w := range p.workers {
			w.inbox <- message{kind: msgStop}
			close(w.inbox)
		}
		p.wg.Wait()
		p.log.Debug().Int("workers", len(p.workers)).Msg("pool closed")
	})
}

// dispatch runs one batch: it builds one job per worker, sends each job to its
// worker's inbox and then waits on the batch barrier as the last participant.
// When dispatch returns, every job has finished and all writes are visible.
func (p *Pool) dispatch(kind BatchKind, length int, newJob func(b *batch, workerID int) job) {
	if p.closed.Load() {
		panic(fmt.Errorf("%w: cannot run %s batch", ErrPoolClosed, kind))
	}
	if !p.busy.CompareAndSwap(false, true) {
		panic(ErrConcurrentBatch)
	}
	defer p.busy.Store(false)

	b := newBatch(kind, length, len(p.workers), p.conf.grain)
	if length == 0 {
		p.finish(b)
		return
	}

	// Build every job before sending any, so a panicking factory leaves no worker
	// waiting on a barrier the caller will never reach.
	jobs := make([]job, len(p.workers))
	for i := range p.workers {
		jobs[i] = newJob(b, i)
	}

	for i, w := range p.workers {
		w.send(message{kind: msgRun, job: jobs[i], batch: b})
	}
	b.arrive()

	p.finish(b)
}

// finish records a completed batch, or re-panics the first worker failure on the caller.
func (p *Pool) finish(b *batch) {
	if pe := b.failure.Load(); pe != nil {
		p.log.Error().
			Str("kind", b.kind.String()).
			Int("worker", pe.Worker).
			Int("index", pe.Index).
			Interface("panic", pe.Value).
			Msg("batch aborted by panicking user function")
		if errors.Is(pe, ErrWorkerExited) {
			// the worker goroutine is gone, so the pool can never complete another batch
			p.Close()
		}
		panic(pe)
	}

	stats := b.stats(len(p.workers))
	p.batches.Add(1)
	p.items.Add(int64(stats.Length))

	p.logGate.Do(func() {
		p.log.Debug().
			Str("kind", stats.Kind.String()).
			Int("length", stats.Length).
			Dur("duration", stats.Duration).
			Msg("batch complete")
	})

	if p.conf.onBatchEnd != nil {
		p.conf.onBatchEnd(stats)
	}
}
