package search

import "sync/atomic"

// Canceler is a one-way stop signal polled by workers between work units.
//
// Done is a plain atomic load, cheap enough to call before every fingerprint.
// Propagation is not instantaneous: a worker that already passed the check
// finishes its current fingerprint.
type Canceler struct {
	done atomic.Bool
}

// Done reports whether Cancel has been called.
func (c *Canceler) Done() bool {
	return c.done.Load()
}

// Cancel trips the signal. Safe to call more than once.
func (c *Canceler) Cancel() {
	c.done.Store(true)
}
