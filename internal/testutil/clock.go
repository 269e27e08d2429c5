// Package testutil provides deterministic helpers for tests: a stepping
// clock and entity-id constructors.
package testutil

import "github.com/roach88/gtaf/internal/atom"

// DeterministicClock is a Clock for tests: every Now call returns the base
// time advanced by one fixed step, so append timestamps - and therefore
// saved files and golden traces - are byte-stable across runs.
type DeterministicClock struct {
	base atom.Timestamp
	step atom.Timestamp
	n    uint64
}

// NewDeterministicClock creates a clock starting at base, advancing by step
// microseconds per Now call.
func NewDeterministicClock(base, step atom.Timestamp) *DeterministicClock {
	return &DeterministicClock{base: base, step: step}
}

// Now returns the next timestamp in the sequence.
func (c *DeterministicClock) Now() atom.Timestamp {
	ts := c.base + atom.Timestamp(c.n)*c.step
	c.n++
	return ts
}

// Reset rewinds the clock so a scenario can be replayed with identical
// timestamps.
func (c *DeterministicClock) Reset() {
	c.n = 0
}
