// Package calendar provides the day-granularity date helpers used to classify
// axis ticks and lay out month labels.
package calendar

import (
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read format (allows single-digit month/day).

// DateFormat is the canonical ISO-8601 day format.
const DateFormat = "2006-01-02"

// DisplayFormat is the US style day format used in tooltips.
const DisplayFormat = "01/02/2006"

// Parse parses a day from a string. It is lenient and accepts "2024-1-5" as well
// as "2024-01-05". The result is midnight UTC.
func Parse(str string) (time.Time, error) {
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return Day(on), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) time.Time {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayOfMonth returns the day of the month, 1..31.
func DayOfMonth(t time.Time) int { return t.Day() }

// LastDayOfMonth returns the number of days in t's month.
func LastDayOfMonth(t time.Time) int {
	// day 0 of the next month normalises to the last day of this one
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsEndOfMonth reports whether t is the last calendar day of its month.
func IsEndOfMonth(t time.Time) bool {
	return t.Day() == LastDayOfMonth(t)
}

// IsMultipleOfFive reports whether t's day of month is divisible by five.
func IsMultipleOfFive(t time.Time) bool {
	return t.Day()%5 == 0
}

// MonthsBetween returns the English month names spanned by first..last, inclusive
// and in order. A range crossing a year boundary repeats names as needed.
func MonthsBetween(first, last time.Time) []string {
	if last.Before(first) {
		return nil
	}
	var names []string
	cur := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(end) {
		names = append(names, cur.Month().String())
		cur = cur.AddDate(0, 1, 0)
	}
	return names
}
