package data

import "time"

// TimeProvider supplies timestamps written by repositories; tests substitute a fixed clock.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reports the system time in UTC.
type RealTimeProvider struct{}

// Now returns the current UTC time.
func (RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// FixedTimeProvider always reports the same instant until moved.
type FixedTimeProvider struct {
	fixedTime time.Time
}

// NewFixedTimeProvider creates a FixedTimeProvider at t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{fixedTime: t}
}

// Now returns the fixed time.
func (f *FixedTimeProvider) Now() time.Time {
	return f.fixedTime
}

// AddTime moves the clock forward by d.
func (f *FixedTimeProvider) AddTime(d time.Duration) {
	f.fixedTime = f.fixedTime.Add(d)
}
