package domain

import "time"

// DateOnly truncates t to a calendar date (midnight UTC). All scheduling
// arithmetic in the fulfillment core operates on such normalized dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// WithinDates reports whether d lies in [from, to] inclusive, comparing
// calendar dates only. Nil bounds are open.
func WithinDates(d time.Time, from, to *time.Time) bool {
	day := DateOnly(d)
	if from != nil && day.Before(DateOnly(*from)) {
		return false
	}
	if to != nil && day.After(DateOnly(*to)) {
		return false
	}
	return true
}
