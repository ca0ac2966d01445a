// Package strings provides small text normalization helpers shared across
// the tempo packages.
package strings

import (
	"strings"
	"unicode"
)

// TrimSpace removes surrounding Unicode whitespace.
func TrimSpace(value string) string {
	return strings.TrimFunc(value, unicode.IsSpace)
}

// IsBlank reports whether the value is empty or only whitespace.
func IsBlank(value string) bool {
	return TrimSpace(value) == ""
}

// NormalizeWhitespace collapses runs of whitespace into single spaces.
func NormalizeWhitespace(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

// NormalizeLower returns the input lowercased.
func NormalizeLower(value string) string {
	return strings.ToLower(value)
}

// NormalizeLowerTrimSpace trims surrounding whitespace and lowercases the input.
func NormalizeLowerTrimSpace(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// TrimTrailingSlash removes trailing '/' characters.
func TrimTrailingSlash(value string) string {
	return strings.TrimRight(value, "/")
}
