package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Input validation and sanitization utilities

const (
	MaxTitleLen   = 200
	MaxContentLen = 20000
	MaxNoteLen    = 1000
	MaxNameLen    = 255
)

var userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateEntryID checks the journal entry id is a UUID
func ValidateEntryID(id string) error {
	if id == "" {
		return fmt.Errorf("entry ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid entry ID format")
	}
	return nil
}

// ValidateUserID validates user id format (alphanumeric, dash, underscore, max 64 chars)
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("invalid user ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateFilter accepts the date filter keywords; empty means all
func ValidateFilter(keyword string) error {
	switch strings.ToLower(keyword) {
	case "", "all", "week", "month", "year":
		return nil
	}
	return fmt.Errorf("invalid filter: %s (allowed: all, week, month, year)", keyword)
}

// ValidateLength rejects text longer than max runes
func ValidateLength(field, s string, max int) error {
	if utf8.RuneCountInString(s) > max {
		return fmt.Errorf("%s too long (max %d characters)", field, max)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
