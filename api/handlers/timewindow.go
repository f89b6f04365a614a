package handlers

import "time"

// All rate-limit windows are computed on the UTC calendar. The week starts
// Monday 00:00 UTC everywhere a weekly window appears; submission caps and
// the verified-this-week count use the same rule.

// dayStartUTC returns midnight UTC of t's day
func dayStartUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStartUTC returns midnight UTC of the most recent Monday. On a Sunday
// that is six days prior.
func weekStartUTC(t time.Time) time.Time {
	t = t.UTC()
	shift := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		shift = 6
	}
	return dayStartUTC(t.AddDate(0, 0, -shift))
}
