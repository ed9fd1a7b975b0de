// Package normalize canonicalizes free-text merchant descriptions from
// bank exports.
package normalize

import (
	"strings"
	"unicode"
)

// Merchant cleans a raw bank description into a canonical merchant string:
// every rune that is not an ASCII letter, digit, or whitespace is stripped,
// whitespace runs collapse to a single space, and the trimmed result is
// upper-cased. An empty input yields "" (merchant absent). Idempotent.
func Merchant(desc string) string {
	if desc == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, desc)
	return strings.ToUpper(strings.Join(strings.Fields(cleaned), " "))
}
