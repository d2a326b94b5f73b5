package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidateText checks that text is present and at most max characters.
func ValidateText(text string, max int) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if utf8.RuneCountInString(text) > max {
		return fmt.Errorf("Text must be less than %d characters", max)
	}
	return nil
}

// ParseMatchDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseMatchDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("Invalid date")
}
