package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateToDay(t *testing.T) {
	in := time.Date(2024, 5, 7, 15, 30, 45, 123, time.UTC)
	got := TruncateToDay(in)

	assert.Equal(t, time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), got)
}

func TestCalendarDaysBetween(t *testing.T) {
	base := time.Date(2024, 5, 7, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, CalendarDaysBetween(base, base))
	assert.Equal(t, 1, CalendarDaysBetween(base, base.AddDate(0, 0, 1)))
	// Time of day never changes the count.
	assert.Equal(t, 1, CalendarDaysBetween(base, base.AddDate(0, 0, 1).Add(-8*time.Hour)))
	assert.Equal(t, 30, CalendarDaysBetween(base, base.AddDate(0, 0, 30)))
	assert.Equal(t, -1, CalendarDaysBetween(base.AddDate(0, 0, 1), base))
}

func TestIsWeekend(t *testing.T) {
	saturday := time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsWeekend(saturday))
	assert.True(t, IsWeekend(sunday))
	assert.False(t, IsWeekend(monday))
}

func TestFormatDay(t *testing.T) {
	assert.Equal(t, "2024-05-07", FormatDay(time.Date(2024, 5, 7, 23, 59, 0, 0, time.UTC)))
}
