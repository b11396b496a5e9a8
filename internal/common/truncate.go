// truncate.go - Rune-safe string shortening

package common

// Truncate cuts s to at most max runes. Cutting by rune keeps
// multi-byte text (Hindi symptom descriptions, names) intact.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
