// Package monoclock exposes the host's monotonic clock as a nanosecond
// clock, for timing host tools against the same API as firmware.
package monoclock

import (
	"time"

	"embtime/clock"
	"embtime/duration"
)

// Clock counts nanoseconds since it was created. It never fails and does
// not wrap for centuries.
type Clock struct {
	epoch time.Time
}

// New starts a clock at zero.
func New() *Clock {
	return &Clock{epoch: time.Now()}
}

// TryNow implements clock.Clock.
func (c *Clock) TryNow() (clock.Instant[uint64, duration.Nanosecond], error) {
	return clock.NewInstant[duration.Nanosecond](uint64(time.Since(c.epoch))), nil
}

// Epoch returns the wall time the clock started at.
func (c *Clock) Epoch() time.Time {
	return c.epoch
}

var _ clock.Clock[uint64, duration.Nanosecond] = (*Clock)(nil)
