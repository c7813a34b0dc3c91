package mood

import "time"

// DayCounts is one bar of the weekly chart.
type DayCounts struct {
	Day     string `json:"day"`
	Good    int    `json:"good"`
	Neutral int    `json:"neutral"`
	Bad     int    `json:"bad"`
}

// WeekBounds returns Sunday 00:00 and Saturday 23:59:59.999999999 of the week containing now.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// LastSevenDays buckets entries into the seven days ending today, keyed by weekday
// label ("Mon", "Tue", ...). Entries are matched on the label only.
func LastSevenDays(entries []*Entry, now time.Time) []DayCounts {
	out := make([]DayCounts, 7)
	idx := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		label := dayLabel(now.AddDate(0, 0, i-6))
		out[i].Day = label
		idx[label] = i
	}
	for _, e := range entries {
		i, ok := idx[dayLabel(e.CreatedAt.In(now.Location()))]
		if !ok {
			continue
		}
		switch e.Mood {
		case Good:
			out[i].Good++
		case Neutral:
			out[i].Neutral++
		case Bad:
			out[i].Bad++
		}
	}
	return out
}

func dayLabel(t time.Time) string { return t.Format("Mon") }
