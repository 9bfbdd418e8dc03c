// Package slots tracks which output slots of a map batch have been written.
package slots

import (
	"math/bits"
	"sync/atomic"
)

const wordBits = 64

// Ledger is a fixed-size bitmask with one bit per output slot: 1 = filled, 0 = unfilled.
// Marking uses an atomic OR, so concurrent writers of different slots never contend on a lock.
type Ledger struct {
	words []atomic.Uint64
	n     int
}

// New returns a ledger for n slots, all unfilled.
func New(n int) *Ledger {
	return &Ledger{
		words: make([]atomic.Uint64, (n+wordBits-1)/wordBits),
		n:     n,
	}
}

// Mark flips slot i to filled. It returns false if the slot was already filled.
func (l *Ledger) Mark(i int) bool {
	bit := uint64(1) << (uint(i) % wordBits)
	old := l.words[i/wordBits].Or(bit)
	return old&bit == 0
}

// Filled reports whether slot i has been marked.
func (l *Ledger) Filled(i int) bool {
	bit := uint64(1) << (uint(i) % wordBits)
	return l.words[i/wordBits].Load()&bit != 0
}

// Count returns the number of filled slots.
func (l *Ledger) Count() int {
	total := 0
	for i := range l.words {
		total += bits.OnesCount64(l.words[i].Load())
	}
	return total
}

// Missing returns the lowest unfilled slot, or -1 when every slot is filled.
func (l *Ledger) Missing() int {
	for w := range l.words {
		mask := l.words[w].Load()
		if w == len(l.words)-1 && l.n%wordBits != 0 {
			// bits past n are never marked
			mask |= ^uint64(0) << (uint(l.n) % wordBits)
		}
		if mask != ^uint64(0) {
			return w*wordBits + bits.TrailingZeros64(^mask)
		}
	}
	return -1
}

// Len returns the number of slots.
func (l *Ledger) Len() int { return l.n }
