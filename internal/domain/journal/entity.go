package journal

import (
	"strings"
	"time"
)

// ID tipe untuk Entry
type EntryID string

// Aggregate Root: Entry
type Entry struct {
	ID         EntryID   `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	AIAnalysis *string   `json:"ai_analysis"`
	IsAnalyzed bool      `json:"is_analyzed"`
}

// Analysis returns the stored reflection, or "" when the entry was never analyzed.
func (e *Entry) Analysis() string {
	if e.AIAnalysis == nil {
		return ""
	}
	return *e.AIAnalysis
}

// WithAnalysis returns a copy carrying the reflection text.
// is_analyzed follows whether the text is non-empty.
func (e Entry) WithAnalysis(text string) Entry {
	if strings.TrimSpace(text) == "" {
		e.AIAnalysis = nil
		e.IsAnalyzed = false
		return e
	}
	e.AIAnalysis = &text
	e.IsAnalyzed = true
	return e
}
