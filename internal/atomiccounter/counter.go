// Package atomiccounter provides the compare-exchange-free 32-bit counter
// primitive used to track how many goroutines are currently executing
// inside a wrapped blocking call site.
//
// The only memory location accessed through this package is a Counter's own
// value; callers must not otherwise touch it.
package atomiccounter

import "sync/atomic"

// Counter is a cache-line padded 32-bit signed cell with full-barrier
// increment/decrement; an unmatched Dec takes it below zero. Padding
// avoids false sharing when many counters are packed into a single array,
// as the root package's Engine does for blocking call sites.
type Counter struct {
	_ [64]byte
	v atomic.Int32
	_ [60]byte
}

// Inc atomically increments the counter and returns the new value.
func (c *Counter) Inc() int32 {
	return c.v.Add(1)
}

// Dec atomically decrements the counter and returns the new value.
func (c *Counter) Dec() int32 {
	return c.v.Add(-1)
}

// Load returns the current value.
func (c *Counter) Load() int32 {
	return c.v.Load()
}
