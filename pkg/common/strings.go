package common

import "strings"

// IsStringInSlice returns true if string `str` is found in `slice`.
func IsStringInSlice(str string, slice []string) bool {
	for _, s := range slice {
		if str == s {
			return true
		}
	}
	return false
}

// Truncate shortens `str` to at most `maxRunes` runes, appending an ellipsis if anything was cut. Used to keep
// log lines readable.
func Truncate(str string, maxRunes int) string {
	runes := []rune(str)
	if len(runes) <= maxRunes {
		return str
	}
	return strings.TrimSpace(string(runes[:maxRunes])) + "..."
}
