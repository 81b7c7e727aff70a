package engine

import "sync/atomic"

// Clock is the monotonic logical clock that stamps engine events.
//
// Every Event carries a strictly increasing seq from this clock, so observers
// such as the journal order events without consulting wall time.
//
// Thread-safety: Clock is safe for concurrent use. Loop publishes snapshots
// from the writer goroutine while readers may inspect Current.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
