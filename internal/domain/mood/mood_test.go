package mood

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, s := range []string{"good", "Neutral", " BAD "} {
		m, err := Parse(s)
		require.NoError(t, err, s)
		assert.Contains(t, All, m)
	}
	_, err := Parse("ecstatic")
	assert.Error(t, err)
	_, err = Parse("")
	assert.Error(t, err)
}

func TestNormalizeNote(t *testing.T) {
	assert.Nil(t, NormalizeNote(""))
	assert.Nil(t, NormalizeNote("  \n\t"))
	n := NormalizeNote("  slept well ")
	require.NotNil(t, n)
	assert.Equal(t, "slept well", *n)
}

func TestWeekBounds(t *testing.T) {
	now := time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
	start, end := WeekBounds(now)
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.March, 16, 23, 59, 59, 999999999, time.UTC), end)
}

func TestLastSevenDays(t *testing.T) {
	now := time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC) // Wednesday
	entries := []*Entry{
		{Mood: Good, CreatedAt: now.Add(-time.Hour)},
		{Mood: Bad, CreatedAt: now.Add(-2 * time.Hour)},
		{Mood: Neutral, CreatedAt: now.AddDate(0, 0, -1)},
		{Mood: Good, CreatedAt: now.AddDate(0, 0, -6)},
	}

	got := LastSevenDays(entries, now)

	require.Len(t, got, 7)
	labels := make([]string, 0, 7)
	for _, d := range got {
		labels = append(labels, d.Day)
	}
	assert.Equal(t, []string{"Thu", "Fri", "Sat", "Sun", "Mon", "Tue", "Wed"}, labels)
	assert.Equal(t, DayCounts{Day: "Wed", Good: 1, Bad: 1}, got[6])
	assert.Equal(t, DayCounts{Day: "Tue", Neutral: 1}, got[5])
	assert.Equal(t, DayCounts{Day: "Thu", Good: 1}, got[0])
}

func TestLastSevenDaysEmpty(t *testing.T) {
	got := LastSevenDays(nil, time.Now())
	require.Len(t, got, 7)
	for _, d := range got {
		assert.Zero(t, d.Good+d.Neutral+d.Bad)
	}
}
