// Package cpu detects usable hardware parallelism and binds worker goroutines
// to OS threads, optionally pinned to a single core.
package cpu

import (
	"errors"
	"fmt"
	"runtime"
)

var errEmptyAffinityMask = errors.New("affinity mask has no cores")

// Binding describes the OS thread a worker goroutine is running on.
type Binding struct {
	// CPU is the core the thread was pinned to, or -1 when the thread is unpinned.
	CPU int
	// Locked reports whether the goroutine is locked to its OS thread.
	Locked bool
}

// AvailableParallelism returns the number of CPUs this process may run on.
// It never returns less than 1.
func AvailableParallelism() int {
	n := availableParallelism()
	if n < 1 {
		n = runtime.NumCPU()
	}
	return max(n, 1)
}

// Bind locks the calling goroutine to its OS thread when lock is set and, when pin is
// also set, pins that thread to one of the cores the process may run on: worker i gets
// the i-th allowed core, wrapping around the allowed set. The returned
// release function undoes the lock and must run on the same goroutine.
//
// A pinning failure leaves the goroutine locked and is returned as an error; the
// caller decides whether that is fatal. After a successful pin, release is a no-op and
// the thread ends with the goroutine.
func Bind(workerID int, lock, pin bool) (Binding, func(), error) {
	if !lock {
		return Binding{CPU: -1}, func() {}, nil
	}

	runtime.LockOSThread()
	b := Binding{CPU: -1, Locked: true}
	release := func() { runtime.UnlockOSThread() }

	if !pin {
		return b, release, nil
	}

	cpuID, err := pinToAllowedCore(workerID)
	if err != nil {
		return b, release, fmt.Errorf("pin worker %d: %w", workerID, err)
	}
	b.CPU = cpuID

	// A pinned thread keeps its one-core mask after unlocking, so it is never handed
	// back to the scheduler: the goroutine exits locked and the runtime terminates it.
	return b, func() {}, nil
}

// nthSetBit returns the position of the (n mod popcount)-th set bit among the first
// size bits reported by isSet, or -1 when none are set.
func nthSetBit(size, n int, isSet func(bit int) bool) int {
	var allowed []int
	for bit := range size {
		if isSet(bit) {
			allowed = append(allowed, bit)
		}
	}
	if len(allowed) == 0 {
		return -1
	}
	return allowed[n%len(allowed)]
}
