package season

import "time"

// Clock supplies the current instant. Handlers receive one so tests and QA
// previews can pin the date.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
func SystemClock() Clock { return ClockFunc(time.Now) }

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Today converts the clock's instant into a calendar day in loc. A nil loc
// keeps the instant's own location.
func Today(c Clock, loc *time.Location) Date {
	now := c.Now()
	if loc != nil {
		now = now.In(loc)
	}
	return DateOf(now)
}
