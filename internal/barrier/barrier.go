// Package barrier provides the single-use rendezvous that closes out one batch.
package barrier

import "sync/atomic"

// Barrier releases every waiter once exactly parties goroutines have called Wait.
// It is single-use: a batch allocates a fresh Barrier and discards it afterwards.
//
// The last arrival closes the release channel. Every write a participant made before
// calling Wait therefore happens-before any participant returns from Wait.
type Barrier struct {
	parties int64
	arrived atomic.Int64
	release chan struct{}
}

// New creates a barrier for the given number of parties. parties must be >= 1.
func New(parties int) *Barrier {
	if parties < 1 {
		panic("barrier: parties must be >= 1")
	}
	return &Barrier{
		parties: int64(parties),
		release: make(chan struct{}),
	}
}

// Wait blocks until all parties have arrived. It returns true for exactly one
// caller, the last to arrive.
//
// Calling Wait more than parties times panics.
func (b *Barrier) Wait() bool {
	n := b.arrived.Add(1)
	switch {
	case n == b.parties:
		close(b.release)
		return true
	case n > b.parties:
		panic("barrier: more arrivals than parties")
	}
	<-b.release
	return false
}

// Parties returns the number of participants the barrier was created for.
func (b *Barrier) Parties() int { return int(b.parties) }

// Arrived reports how many parties have reached the barrier so far.
func (b *Barrier) Arrived() int { return int(b.arrived.Load()) }
