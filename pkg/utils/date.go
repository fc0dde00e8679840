package utils

import (
	"time"
)

// TruncateToDay drops the time-of-day component. Daily bars carry calendar-day
// semantics only, so every date comparison in the engine goes through this.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CalendarDaysBetween returns the whole calendar days from earlier to later.
func CalendarDaysBetween(earlier, later time.Time) int {
	return int(TruncateToDay(later).Sub(TruncateToDay(earlier)).Hours() / 24)
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func FormatDay(t time.Time) string {
	return t.Format("2006-01-02")
}
