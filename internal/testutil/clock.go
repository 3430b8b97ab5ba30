package testutil

import "time"

// FixedTime is the first timestamp handed out by a Clock.
var FixedTime = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

// Clock is a deterministic clock that advances by a fixed step on every call.
type Clock struct {
	next time.Time
	step time.Duration
}

// NewClock creates a clock starting at FixedTime and stepping one minute per call.
func NewClock() *Clock {
	return &Clock{next: FixedTime, step: time.Minute}
}

// Now returns the current time and advances the clock.
func (c *Clock) Now() time.Time {
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}
