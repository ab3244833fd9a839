package utils

import "strings"

// NormalizePhone strips whitespace and common punctuation from a phone number
// so that "+7 701 111-22-33" and "+7(701)1112233" compare equal.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}
