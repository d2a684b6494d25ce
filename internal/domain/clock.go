package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze "today" via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used to resolve report dates. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// DaysAgo returns midnight of the calendar day n days before today in loc.
func DaysAgo(n int, loc *time.Location) time.Time {
	return StartOfDay(clock.Now().In(loc)).AddDate(0, 0, -n)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}
