// Package workweek provides date arithmetic over Monday–Friday work weeks.
//
// All dates are treated as calendar dates: values are normalized to midnight
// UTC and compared by day. Saturday and Sunday are never work days.
package workweek

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

// DateLayout is the wire and map-key format for calendar dates.
const DateLayout = "2006-01-02"

// Normalize truncates t to midnight UTC of its calendar date.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) time.Time {
	return Normalize(now)
}

// ParseDate parses a yyyy-MM-dd date. Richer timestamps such as RFC 3339
// values or "2024-06-03 00:00:00+00" are truncated to their date part.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// MustParseDate is ParseDate for constants and tests.
func MustParseDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Key formats t as a yyyy-MM-dd map key.
func Key(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Key(a) == Key(b)
}

// IsWorkDay reports whether t is Monday through Friday.
func IsWorkDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// WorkDays yields the work days between start and end inclusive, in order.
// The sequence is finite and may be ranged over any number of times.
func WorkDays(start, end time.Time) iter.Seq[time.Time] {
	start, end = Normalize(start), Normalize(end)
	return func(yield func(time.Time) bool) {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !IsWorkDay(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// WorkDaysInRange returns the work days between start and end inclusive.
// It returns an empty slice when end is before start.
func WorkDaysInRange(start, end time.Time) []time.Time {
	days := []time.Time{}
	for d := range WorkDays(start, end) {
		days = append(days, d)
	}
	return days
}

// CountWorkDays returns len(WorkDaysInRange(start, end)).
func CountWorkDays(start, end time.Time) int {
	n := 0
	for range WorkDays(start, end) {
		n++
	}
	return n
}

// AddWorkDays moves date forward by n work days, skipping weekends.
// Negative n walks backwards. AddWorkDays(d, 0) returns d unchanged.
func AddWorkDays(date time.Time, n int) time.Time {
	d := Normalize(date)
	step := 1
	if n < 0 {
		step, n = -1, -n
	}
	for n > 0 {
		d = d.AddDate(0, 0, step)
		if IsWorkDay(d) {
			n--
		}
	}
	return d
}

// NextWorkDay returns the first work day strictly after t.
func NextWorkDay(t time.Time) time.Time {
	return AddWorkDays(t, 1)
}

// PrevWorkDay returns the last work day strictly before t.
func PrevWorkDay(t time.Time) time.Time {
	return AddWorkDays(t, -1)
}

// WeekStart returns the Monday of t's week. Weeks start on Monday, so a
// Sunday belongs to the week that began six days earlier.
func WeekStart(t time.Time) time.Time {
	d := Normalize(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekDays returns Monday through Friday of the week containing t.
func WeekDays(t time.Time) []time.Time {
	monday := WeekStart(t)
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// Weeks returns n consecutive week starts beginning with the week of from.
func Weeks(from time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	monday := WeekStart(from)
	weeks := make([]time.Time, n)
	for i := range weeks {
		weeks[i] = monday.AddDate(0, 0, 7*i)
	}
	return weeks
}
