// src/utils/dates.go
package utils

import "time"

// ISODate is the layout used for due dates and day keys across the API.
const ISODate = "2006-01-02"

// Day truncates t to its calendar date at midnight UTC, so date arithmetic never crosses DST.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a calendar date at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseISODate parses a YYYY-MM-DD string (a trailing time part is ignored).
func ParseISODate(s string) (time.Time, bool) {
	if len(s) >= 10 {
		s = s[:10]
	}
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatISODate formats t as YYYY-MM-DD.
func FormatISODate(t time.Time) string {
	return t.Format(ISODate)
}

// DaysIn returns the number of days of the given month.
func DaysIn(year int, month time.Month) int {
	return Date(year, month+1, 0).Day()
}

// ClampDay returns the given day of the month, or the month's last day when it is shorter.
func ClampDay(year int, month time.Month, day int) time.Time {
	if day < 1 {
		day = 1
	}
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return Date(year, month, day)
}

// IsBusinessDay reports whether t falls on Monday to Friday. Holidays are not considered.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NthBusinessDay counts business days forward from the 1st of the month.
func NthBusinessDay(year int, month time.Month, n int) time.Time {
	d := Date(year, month, 1)
	count := 0
	for {
		if IsBusinessDay(d) {
			count++
			if count >= n {
				return d
			}
		}
		d = d.AddDate(0, 0, 1)
	}
}

// WeekStart returns the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}

// DaysBetween returns the whole number of days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// SameMonth reports whether a and b share year and month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// ParseMonth parses a YYYY-MM string into the first day of that month.
func ParseMonth(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
