package data

import "time"

// TimeProvider supplies the clock used for timestamps written by repositories.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the system clock in UTC.
type RealTimeProvider struct{}

// Now returns the current time.
func (RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// FixedTimeProvider returns a settable instant. Used by tests.
type FixedTimeProvider struct {
	at time.Time
}

// NewFixedTimeProvider creates a FixedTimeProvider frozen at t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{at: t}
}

// Now returns the frozen instant.
func (f *FixedTimeProvider) Now() time.Time {
	return f.at
}

// Advance moves the frozen instant forward by d.
func (f *FixedTimeProvider) Advance(d time.Duration) {
	f.at = f.at.Add(d)
}
