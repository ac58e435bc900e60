package seance

import (
	"encoding/json"
	"strings"
)

// rawHistoryEntry tolerates arbitrary JSON in the content field so a
// malformed entry degrades to an empty or stringified content instead of
// failing the whole request.
type rawHistoryEntry struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// SanitizeHistory filters and normalizes raw history entries.
//
// Entries that are not objects, or whose role is not exactly "user" or
// "assistant", are dropped rather than rejected. Retained entries get
// their content coerced to text (empty for null/absent) and truncated to
// maxChars code points. Relative order is preserved: it becomes the
// conversation turn order fed to generation.
//
// Sanitization is idempotent: feeding the output back in yields the same
// sequence.
func SanitizeHistory(raw []json.RawMessage, maxChars int) []HistoryEntry {
	sanitized := make([]HistoryEntry, 0, len(raw))

	for _, entry := range raw {
		if isAbsent(entry) {
			continue
		}

		var parsed rawHistoryEntry
		if err := json.Unmarshal(entry, &parsed); err != nil {
			continue
		}
		if parsed.Role != "user" && parsed.Role != "assistant" {
			continue
		}

		sanitized = append(sanitized, HistoryEntry{
			Role:    parsed.Role,
			Content: truncate(coerceText(parsed.Content), maxChars),
		})
	}

	return sanitized
}

// coerceText converts a raw JSON content value to text. Strings decode
// normally, null/absent becomes empty, and any other scalar keeps its
// literal representation.
func coerceText(raw json.RawMessage) string {
	if isAbsent(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// truncate cuts s to at most max Unicode code points.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
