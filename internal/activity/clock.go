package activity

import "time"

// Clock provides the reference time used to decide whether a bucket belongs
// to "today" and to close sessions that are still open.
// This interface allows time to be mocked in tests.
type Clock interface {
	Now() time.Time
}

// RealClock provides actual system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock provides a fixed time for testing.
type FixedClock struct {
	CurrentTime time.Time
}

// Now returns the fixed time.
func (f FixedClock) Now() time.Time {
	return f.CurrentTime
}
