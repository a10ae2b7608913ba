// Package names implements the normalization rules for category and
// subcategory names. The normalized form is the uniqueness and lookup key;
// the display form preserves what the user typed.
package names

import "strings"

// Normalize trims surrounding whitespace and lower-cases the name.
// It is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Display trims surrounding whitespace but keeps the original casing.
func Display(raw string) string {
	return strings.TrimSpace(raw)
}

// IsEmpty reports whether the name is empty after normalization.
func IsEmpty(raw string) bool {
	return Normalize(raw) == ""
}
