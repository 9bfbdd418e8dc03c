// Package cursor implements the shared claim counter that partitions a batch.
package cursor

import "sync/atomic"

// Cursor hands out disjoint index ranges over [0, length) to concurrent claimers.
// Each Claim is a single atomic fetch-and-add; there are no locks and no queues of ranges.
type Cursor struct {
	next   atomic.Int64
	length int64
	grain  int64
}

// New returns a cursor over length indices that reserves grain indices per claim.
// A grain below 1 is treated as 1 and a grain above length is clamped to length,
// which keeps the counter far from overflow however many claimers race past the end.
func New(length, grain int) *Cursor {
	grain = min(max(grain, 1), max(length, 1))
	return &Cursor{length: int64(length), grain: int64(grain)}
}

// Claim reserves the next unclaimed range [start, end). ok is false once the
// cursor is exhausted; every claimer observes exhaustion independently.
func (c *Cursor) Claim() (start, end int, ok bool) {
	s := c.next.Add(c.grain) - c.grain
	if s < 0 || s >= c.length {
		return 0, 0, false
	}
	return int(s), int(min(s+c.grain, c.length)), true
}

// Exhaust moves the cursor past the end so that every later Claim fails.
// It is used to stop a batch early after a failure.
func (c *Cursor) Exhaust() {
	c.next.Store(c.length)
}

// Len returns the number of indices the cursor partitions.
func (c *Cursor) Len() int { return int(c.length) }

// Grain returns the number of indices reserved per claim.
func (c *Cursor) Grain() int { return int(c.grain) }
