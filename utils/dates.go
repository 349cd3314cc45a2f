package utils

import "time"

// DayKeyFormat is the canonical layout for one local calendar day. Day keys
// are the join key between "today", stored completion history, and calendar
// cells.
const DayKeyFormat = "2006-01-02"

// DayKey projects a time to its local calendar day, discarding time-of-day.
// Two instants within the same local calendar day yield identical keys.
func DayKey(t time.Time) string {
	return t.Format(DayKeyFormat)
}

// ParseDayKey is the inverse of DayKey; the result is midnight local time.
func ParseDayKey(key string) (time.Time, error) {
	return time.ParseInLocation(DayKeyFormat, key, time.Local)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// MonthGrid produces every calendar cell needed to render a month view:
// leading filler days from the preceding month (count = weekday of the 1st,
// Sunday = 0) followed by every actual day of the target month. No trailing
// filler is added.
func MonthGrid(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	leading := int(first.Weekday())
	total := DaysInMonth(year, month)

	grid := make([]time.Time, 0, leading+total)
	for i := leading; i > 0; i-- {
		grid = append(grid, first.AddDate(0, 0, -i))
	}
	for day := 0; day < total; day++ {
		grid = append(grid, first.AddDate(0, 0, day))
	}
	return grid
}
