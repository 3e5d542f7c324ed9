package engine

import "time"

// SameDay reports whether a and b fall on the same calendar day in loc.
// Days are compared by (year, day-of-year), not by 24h windows.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	a = a.In(loc)
	b = b.In(loc)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// DayBounds returns local midnight of t's day and of the following day.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// NextMidnight returns the first local midnight strictly after now.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	_, end := DayBounds(now, loc)
	return end
}
