package services

import "time"

// SystemClock is the production Clock backed by the runtime timer
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// After waits for the duration to elapse
func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
