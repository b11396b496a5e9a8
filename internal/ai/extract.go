// extract.go - Recovering a JSON object from raw model output

package ai

import (
	"encoding/json"
	"strings"
)

const maxParseAttempts = 3

// ExtractJSON pulls the outermost JSON object out of raw model output
// and unmarshals it into v. Models wrap JSON in markdown fences and
// prose even when told not to, so the text is trimmed down to the
// first '{' .. last '}' span, then re-trimmed inward on parse failure
// up to a fixed number of attempts.
func ExtractJSON(raw string, v interface{}) error {
	text := stripFences(raw)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return &MalformedResponseError{Attempts: 0, Raw: raw}
	}
	candidate := text[start : end+1]

	for attempt := 1; attempt <= maxParseAttempts; attempt++ {
		if err := json.Unmarshal([]byte(candidate), v); err == nil {
			return nil
		}

		// Re-trim only the violated boundary: stray text before the
		// opening brace or after the closing one.
		trimmed := candidate
		if !strings.HasPrefix(trimmed, "{") {
			if i := strings.Index(trimmed, "{"); i >= 0 {
				trimmed = trimmed[i:]
			}
		}
		if !strings.HasSuffix(trimmed, "}") {
			if i := strings.LastIndex(trimmed, "}"); i >= 0 {
				trimmed = trimmed[:i+1]
			}
		}
		if trimmed == candidate {
			return &MalformedResponseError{Attempts: attempt, Raw: raw}
		}
		candidate = trimmed
	}

	return &MalformedResponseError{Attempts: maxParseAttempts, Raw: raw}
}

// stripFences removes markdown code fences ("```json" / "```") from
// model output.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
