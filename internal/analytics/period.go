// Package analytics turns expense and budget snapshots into derived values:
// aggregations, budget status, trend series, and insights. Every function is
// a pure transformation of its inputs; the caller captures "now" once per
// pass and threads it through.
package analytics

import (
	"strings"
	"time"

	"github.com/mbh206/aifinacker/internal/model"
)

// Window is an inclusive date range. A zero Start or End means unbounded
// on that side.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// Relative window resolvers. These are recomputed against the supplied now
// on every call so that two passes a day apart see different ranges.

// Today is the window covering the calendar day of now.
func Today(now time.Time) Window {
	return Window{Start: startOfDay(now), End: endOfDay(now)}
}

// Yesterday is the window covering the calendar day before now.
func Yesterday(now time.Time) Window {
	y := now.AddDate(0, 0, -1)
	return Window{Start: startOfDay(y), End: endOfDay(y)}
}

// ThisWeek is the window from the most recent Sunday through now's day.
func ThisWeek(now time.Time) Window {
	start := startOfDay(now.AddDate(0, 0, -int(now.Weekday())))
	return Window{Start: start, End: endOfDay(now)}
}

// LastWeek is the full Sunday-to-Saturday week before this one.
func LastWeek(now time.Time) Window {
	thisStart := startOfDay(now.AddDate(0, 0, -int(now.Weekday())))
	start := thisStart.AddDate(0, 0, -7)
	return Window{Start: start, End: endOfDay(thisStart.AddDate(0, 0, -1))}
}

// ThisMonth is the window from the first of now's month through now's day.
func ThisMonth(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: endOfDay(now)}
}

// LastMonth is the full calendar month before now's.
func LastMonth(now time.Time) Window {
	firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := firstOfThis.AddDate(0, -1, 0)
	return Window{Start: start, End: endOfDay(firstOfThis.AddDate(0, 0, -1))}
}

// ThisYear is the window from January 1 of now's year through now's day.
func ThisYear(now time.Time) Window {
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: endOfDay(now)}
}

// LastNMonths covers the n calendar months ending with now's month,
// from the first day of the earliest month through now's day.
func LastNMonths(now time.Time, n int) Window {
	if n < 1 {
		n = 1
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(n - 1), 0)
	return Window{Start: start, End: endOfDay(now)}
}

// FilterByWindow returns the expenses whose date falls inside w.
// The input slice is never mutated.
func FilterByWindow(expenses []model.ExpenseRecord, w Window) []model.ExpenseRecord {
	if w.Start.IsZero() && w.End.IsZero() {
		return expenses
	}
	var result []model.ExpenseRecord
	for _, e := range expenses {
		if w.Contains(e.Date) {
			result = append(result, e)
		}
	}
	return result
}

// FilterByCategory returns expenses matching the category substring.
func FilterByCategory(expenses []model.ExpenseRecord, category string) []model.ExpenseRecord {
	if category == "" {
		return expenses
	}
	var result []model.ExpenseRecord
	for _, e := range expenses {
		if containsIgnoreCase(e.Category, category) {
			result = append(result, e)
		}
	}
	return result
}

// FilterByAccount returns expenses belonging to the given account.
func FilterByAccount(expenses []model.ExpenseRecord, accountID string) []model.ExpenseRecord {
	if accountID == "" {
		return expenses
	}
	var result []model.ExpenseRecord
	for _, e := range expenses {
		if e.AccountID == accountID {
			result = append(result, e)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
