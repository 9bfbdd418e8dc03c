package pool

import (
	"time"

	"github.com/rs/zerolog"
)

// Option is a functional option for configuring a Pool.
type Option func(*poolConfig)

type poolConfig struct {
	logger      zerolog.Logger
	grain       int
	lockThreads bool
	pinCPUs     bool
	onBatchEnd  func(BatchStats)
	logInterval time.Duration
}

// WithLogger sets the structured logger used for worker lifecycle and batch events.
// The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *poolConfig) {
		cfg.logger = logger
	}
}

// WithGrain sets how many consecutive indices a worker reserves per claim.
// The default of 1 claims one element at a time, which balances load best;
// larger grains trade balance for fewer atomic operations on cheap per-element work.
func WithGrain(n int) Option {
	return func(cfg *poolConfig) {
		if n > 0 {
			cfg.grain = n
		}
	}
}

// WithCPUAffinity pins worker i to the i-th core of the process affinity mask,
// wrapping around when there are more workers than allowed cores.
// Pinning implies locked threads. If any worker cannot be pinned, New fails.
//
// Pinning is supported on Linux and Windows.
func WithCPUAffinity() Option {
	return func(cfg *poolConfig) {
		cfg.pinCPUs = true
		cfg.lockThreads = true
	}
}

// WithLockedThreads controls whether each worker goroutine is locked to its own
// OS thread for the lifetime of the pool. Enabled by default.
func WithLockedThreads(locked bool) Option {
	return func(cfg *poolConfig) {
		cfg.lockThreads = locked
		if !locked {
			cfg.pinCPUs = false
		}
	}
}

// WithOnBatchEnd registers a hook that runs on the calling goroutine after every
// successful batch, once all workers have passed the barrier.
//
// Example:
//
//	WithOnBatchEnd(func(s BatchStats) {
//	    log.Printf("%s over %d items took %s", s.Kind, s.Length, s.Duration)
//	})
func WithOnBatchEnd(fn func(BatchStats)) Option {
	return func(cfg *poolConfig) {
		cfg.onBatchEnd = fn
	}
}

// WithBatchLogInterval sets the minimum spacing between per-batch debug log lines.
// Defaults to one second.
func WithBatchLogInterval(d time.Duration) Option {
	return func(cfg *poolConfig) {
		if d > 0 {
			cfg.logInterval = d
		}
	}
}

func createConfig(opts ...Option) *poolConfig {
	cfg := &poolConfig{
		logger:      zerolog.Nop(),
		grain:       1,
		lockThreads: true,
		logInterval: time.Second,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	return cfg
}
