package clock

import "time"

// Clock stamps bookings and domain events.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return RealClock{}
}

// Now is truncated to microseconds so values round-trip through timestamptz unchanged.
func (RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// FixedClock returns the same instant until moved.
type FixedClock struct {
	at time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{at: t}
}

func (c *FixedClock) Now() time.Time {
	return c.at
}

func (c *FixedClock) Advance(d time.Duration) {
	c.at = c.at.Add(d)
}
