package validators

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeString trims checkout contact input, drops control characters and
// truncates to maxLen runes so multi-byte names are never split mid-rune.
// maxLen <= 0 disables truncation.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))
	cleaned = strings.TrimSpace(cleaned)

	if maxLen <= 0 || utf8.RuneCountInString(cleaned) <= maxLen {
		return cleaned
	}
	return string([]rune(cleaned)[:maxLen])
}
