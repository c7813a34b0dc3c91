package mood

import (
	"fmt"
	"strings"
	"time"
)

// Mood enum
type Mood string

const (
	Good    Mood = "good"
	Neutral Mood = "neutral"
	Bad     Mood = "bad"
)

// All lists the moods in display order.
var All = []Mood{Good, Neutral, Bad}

// Parse accepts one of good, neutral or bad (case-insensitive).
func Parse(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case Good, Neutral, Bad:
		return m, nil
	}
	return "", fmt.Errorf("invalid mood: %q (allowed: good, neutral, bad)", s)
}

// Entry is an append-only mood record.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Mood      Mood      `json:"mood"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeNote trims the note; blank notes are stored as absent.
func NormalizeNote(note string) *string {
	n := strings.TrimSpace(note)
	if n == "" {
		return nil
	}
	return &n
}
