// Package dates works with calendar days encoded as "yyyy-MM-dd" strings.
//
// Habit completions, task calendar queries, and time summaries all key off
// whole days in the server's local time zone; time-of-day never matters.
package dates

import (
	"fmt"
	"time"

	internalstrings "github.com/tempoapp/tempo/internal/strings"
)

// Layout is the canonical day encoding.
const Layout = "2006-01-02"

// Normalize parses input as a day and returns the canonical encoding.
// Inputs carrying a time component (RFC 3339) are truncated to their day.
func Normalize(input string) (string, error) {
	value := internalstrings.TrimSpace(input)
	if value == "" {
		return "", fmt.Errorf("day is required")
	}
	if parsed, err := time.ParseInLocation(Layout, value, time.Local); err == nil {
		return parsed.Format(Layout), nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.Local().Format(Layout), nil
	}
	return "", fmt.Errorf("invalid day %q: expected yyyy-MM-dd", value)
}

// FromTime returns the day containing t in local time.
func FromTime(t time.Time) string {
	return t.Local().Format(Layout)
}

// Add steps a canonical day forward (or backward, for negative days).
func Add(day string, days int) string {
	parsed, err := time.ParseInLocation(Layout, day, time.Local)
	if err != nil {
		return day
	}
	return parsed.AddDate(0, 0, days).Format(Layout)
}

// Prev returns the day before a canonical day.
func Prev(day string) string {
	return Add(day, -1)
}

// Valid reports whether input is a canonical day string.
func Valid(input string) bool {
	parsed, err := time.ParseInLocation(Layout, input, time.Local)
	if err != nil {
		return false
	}
	return parsed.Format(Layout) == input
}
