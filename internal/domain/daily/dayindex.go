package daily

import "time"

// DateLayout is the calendar date format used for marker keys and notification tags.
const DateLayout = "2006-01-02"

// Epoch is day zero of the schedule.
var Epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// UTCDay truncates t to midnight of its UTC calendar day.
func UTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayIndex returns the number of whole UTC days between Epoch and t's UTC calendar day.
// Two instants on the same UTC day always share an index, whatever their location.
// Unix seconds are used because time.Time.Sub saturates about 292 years out.
func DayIndex(t time.Time) int {
	return int((UTCDay(t).Unix() - Epoch.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// DateForIndex is the inverse of DayIndex.
func DateForIndex(dayIndex int) time.Time {
	return Epoch.AddDate(0, 0, dayIndex)
}

// DateKey formats t's UTC calendar day as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return UTCDay(t).Format(DateLayout)
}

// ParseDateKey parses a YYYY-MM-DD string as a UTC date.
func ParseDateKey(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
