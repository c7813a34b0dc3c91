package journal

import (
	"strings"
	"time"
)

// Period enum untuk filter tanggal
type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParseFilter normalizes a query keyword. Anything unrecognised means all.
func ParseFilter(keyword string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(keyword))); p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return p
	default:
		return PeriodAll
	}
}

// PeriodStart returns the first instant of the calendar period containing now,
// in now's location. Weeks start on Sunday. ok is false for PeriodAll.
func PeriodStart(p Period, now time.Time) (start time.Time, ok bool) {
	y, m, d := now.Date()
	loc := now.Location()
	switch p {
	case PeriodWeek:
		return time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc), true
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), true
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), true
	default:
		return time.Time{}, false
	}
}

// Filter keeps the entries created strictly after the start of the selected period.
// Input order is preserved and the input slice is never modified.
func Filter(entries []*Entry, keyword string, now time.Time) []*Entry {
	start, ok := PeriodStart(ParseFilter(keyword), now)
	if !ok {
		return entries
	}
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e.CreatedAt.After(start) {
			out = append(out, e)
		}
	}
	return out
}
