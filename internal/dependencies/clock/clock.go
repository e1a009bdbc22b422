package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	// Now returns the current time
	Now() time.Time

	// After returns a channel that fires once the given duration has elapsed
	After(d time.Duration) <-chan time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// After waits on the system timer
func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
