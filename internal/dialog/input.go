package dialog

import (
	"strconv"
	"strings"
)

// isDigits reports whether s is non-empty and made only of ASCII digits.
// Signs, spaces and decimal points are rejected.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseCount parses digit-only text into a non-negative int that fits in
// an int32 column.
func parseCount(text string) (int, bool) {
	if !isDigits(text) {
		return 0, false
	}
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// maxPrice bounds a unit price in the smallest currency unit.
const maxPrice int64 = 1_000_000_000_000

// parseAmount parses a digit-only price in the smallest currency unit, up to
// maxPrice.
func parseAmount(text string) (int64, bool) {
	if !isDigits(text) {
		return 0, false
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil || n > maxPrice {
		return 0, false
	}
	return n, true
}

func cleanText(s string) string {
	return strings.TrimSpace(s)
}
