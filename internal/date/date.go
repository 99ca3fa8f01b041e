// Package date holds the calendar-day helpers shared by window resolution,
// validation and stores. Transactions carry day precision only; everything is
// normalized to UTC midnight so comparisons are exact.
package date

import "time"

// Day truncates t to its calendar day at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the inclusive day count between two normalized days.
func DaysBetween(start, end time.Time) int {
	return int(Day(end).Sub(Day(start))/(24*time.Hour)) + 1
}
