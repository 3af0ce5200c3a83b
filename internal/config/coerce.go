package config

import (
	"strconv"
	"strings"
)

// coerceValue infers a typed value from an INI string literal:
// case-insensitive "true"/"false" become booleans, digit strings become
// integers, everything else stays a string.
func coerceValue(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if isDigits(s) {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return s
}

// isDigits reports whether s is a non-empty run of ASCII digits. Signed or
// decimal literals stay strings, matching the coercion contract.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
