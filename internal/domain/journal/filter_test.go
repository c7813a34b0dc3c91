package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func mk(id, created string) *Entry {
	return &Entry{ID: EntryID(id), UserID: "u1", Title: id, Content: id, CreatedAt: at(created)}
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, PeriodWeek, ParseFilter("week"))
	assert.Equal(t, PeriodMonth, ParseFilter(" Month "))
	assert.Equal(t, PeriodYear, ParseFilter("YEAR"))
	assert.Equal(t, PeriodAll, ParseFilter("all"))
	assert.Equal(t, PeriodAll, ParseFilter("decade"))
	assert.Equal(t, PeriodAll, ParseFilter(""))
}

func TestPeriodStart(t *testing.T) {
	// Wednesday
	now := at("2024-03-13T10:00:00Z")

	start, ok := PeriodStart(PeriodWeek, now)
	assert.True(t, ok)
	assert.Equal(t, at("2024-03-10T00:00:00Z"), start)
	assert.Equal(t, time.Sunday, start.Weekday())

	start, _ = PeriodStart(PeriodMonth, now)
	assert.Equal(t, at("2024-03-01T00:00:00Z"), start)

	start, _ = PeriodStart(PeriodYear, now)
	assert.Equal(t, at("2024-01-01T00:00:00Z"), start)

	_, ok = PeriodStart(PeriodAll, now)
	assert.False(t, ok)
}

func TestPeriodStartOnSunday(t *testing.T) {
	now := at("2024-03-10T23:59:00Z")
	start, _ := PeriodStart(PeriodWeek, now)
	assert.Equal(t, at("2024-03-10T00:00:00Z"), start)
}

func TestPeriodStartUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	now := time.Date(2024, time.January, 1, 3, 0, 0, 0, loc)
	start, _ := PeriodStart(PeriodYear, now)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, loc), start)
	assert.True(t, start.Equal(at("2023-12-31T17:00:00Z")))
}

func TestFilter(t *testing.T) {
	now := at("2024-03-13T10:00:00Z")
	entries := []*Entry{
		mk("today", "2024-03-13T08:00:00Z"),
		mk("sunday", "2024-03-10T00:00:01Z"),
		mk("lastweek", "2024-03-09T12:00:00Z"),
		mk("february", "2024-02-20T12:00:00Z"),
		mk("newyear", "2024-01-01T00:00:00Z"),
		mk("lastyear", "2023-12-31T23:00:00Z"),
	}

	ids := func(list []*Entry) []EntryID {
		var out []EntryID
		for _, e := range list {
			out = append(out, e.ID)
		}
		return out
	}

	t.Run("all is identity", func(t *testing.T) {
		got := Filter(entries, "all", now)
		assert.Equal(t, entries, got)
	})

	t.Run("unknown keyword behaves as all", func(t *testing.T) {
		assert.Equal(t, entries, Filter(entries, "fortnight", now))
	})

	t.Run("week", func(t *testing.T) {
		assert.Equal(t, []EntryID{"today", "sunday"}, ids(Filter(entries, "week", now)))
	})

	t.Run("month", func(t *testing.T) {
		assert.Equal(t, []EntryID{"today", "sunday", "lastweek"}, ids(Filter(entries, "month", now)))
	})

	t.Run("year excludes the exact start instant", func(t *testing.T) {
		assert.Equal(t, []EntryID{"today", "sunday", "lastweek", "february"}, ids(Filter(entries, "year", now)))
	})

	t.Run("result is a subset in input order", func(t *testing.T) {
		for _, kw := range []string{"week", "month", "year"} {
			got := Filter(entries, kw, now)
			assert.LessOrEqual(t, len(got), len(entries))
			for _, e := range got {
				assert.Contains(t, entries, e)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once := Filter(entries, "month", now)
		assert.Equal(t, once, Filter(once, "month", now))
	})

	t.Run("input untouched", func(t *testing.T) {
		before := ids(entries)
		_ = Filter(entries, "week", now)
		assert.Equal(t, before, ids(entries))
	})
}

func TestEntryWithAnalysis(t *testing.T) {
	e := Entry{ID: "a"}

	blank := e.WithAnalysis("   ")
	assert.False(t, blank.IsAnalyzed)
	assert.Nil(t, blank.AIAnalysis)

	done := e.WithAnalysis("Stay steady.")
	assert.True(t, done.IsAnalyzed)
	assert.Equal(t, "Stay steady.", done.Analysis())
	assert.False(t, e.IsAnalyzed)
}
