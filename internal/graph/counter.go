// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import "sync"

// Counter hands out monotonically increasing node ids. It is safe for
// concurrent use; an export reserves its whole range in one call so ids
// from two exports never interleave.
type Counter struct {
	mu   sync.Mutex
	last int64
}

// NewCounter returns a counter whose first id is last+1. Seed it with the
// store's largest node id to keep ids unique across runs.
func NewCounter(last int64) *Counter {
	if last < 0 {
		last = 0
	}
	return &Counter{last: last}
}

// Next returns the next id.
func (c *Counter) Next() int64 {
	return c.Reserve(1)
}

// Reserve claims n consecutive ids and returns the first.
func (c *Counter) Reserve(n int) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	first := c.last + 1
	if n > 0 {
		c.last += int64(n)
	}
	return first
}

// Last returns the most recently issued id, or the seed if none was issued.
func (c *Counter) Last() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
