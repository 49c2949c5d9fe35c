// Package clock provides the injected wall clock and the millisecond
// timestamp helpers used on session snapshots
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/rpg-session/internal/pkg/clock Clock

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Millis converts t to the millisecond timestamps stored on snapshots
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Remaining returns how much of limit is left at now for a span that
// started at startMillis. It never goes below zero.
func Remaining(now time.Time, startMillis int64, limit time.Duration) time.Duration {
	left := time.UnixMilli(startMillis).Add(limit).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}
