package seance

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func rawHistory(t *testing.T, entries ...any) []json.RawMessage {
	t.Helper()
	raw := make([]json.RawMessage, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			t.Fatalf("failed to marshal history entry: %v", err)
		}
		raw = append(raw, data)
	}
	return raw
}

func TestSanitizeHistory_DropsInvalidRoles(t *testing.T) {
	raw := rawHistory(t,
		map[string]any{"role": "user", "content": "one"},
		map[string]any{"role": "system", "content": "evil"},
		map[string]any{"role": "assistant", "content": "two"},
		map[string]any{"role": "ghost", "content": "boo"},
		nil,
	)

	got := SanitizeHistory(raw, 300)

	want := []HistoryEntry{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "two"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSanitizeHistory_ValidPlusInvalidKeepsAllValid(t *testing.T) {
	// 12 valid entries plus 3 invalid-role entries sanitize to 12.
	var entries []any
	for i := 0; i < 12; i++ {
		entries = append(entries, map[string]any{"role": "user", "content": "msg"})
	}
	entries = append(entries,
		map[string]any{"role": "system", "content": "a"},
		map[string]any{"role": "", "content": "b"},
		map[string]any{"content": "c"},
	)

	got := SanitizeHistory(rawHistory(t, entries...), 300)
	if len(got) != 12 {
		t.Errorf("Expected 12 sanitized entries, got %d", len(got))
	}
}

func TestSanitizeHistory_TruncatesContent(t *testing.T) {
	long := strings.Repeat("a", 301)
	exact := strings.Repeat("b", 300)

	got := SanitizeHistory(rawHistory(t,
		map[string]any{"role": "user", "content": long},
		map[string]any{"role": "user", "content": exact},
	), 300)

	if n := len([]rune(got[0].Content)); n != 300 {
		t.Errorf("Expected content truncated to 300 chars, got %d", n)
	}
	if got[1].Content != exact {
		t.Error("Expected content of exactly 300 chars to pass unchanged")
	}
}

func TestSanitizeHistory_CoercesContent(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  string
	}{
		{"null content", `{"role":"user","content":null}`, ""},
		{"missing content", `{"role":"user"}`, ""},
		{"numeric content", `{"role":"user","content":5}`, "5"},
		{"boolean content", `{"role":"user","content":true}`, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeHistory([]json.RawMessage{json.RawMessage(tt.entry)}, 300)
			if len(got) != 1 {
				t.Fatalf("Expected entry to be retained, got %d entries", len(got))
			}
			if got[0].Content != tt.want {
				t.Errorf("Expected content %q, got %q", tt.want, got[0].Content)
			}
		})
	}
}

func TestSanitizeHistory_DropsNonObjectEntries(t *testing.T) {
	got := SanitizeHistory([]json.RawMessage{
		json.RawMessage(`5`),
		json.RawMessage(`"text"`),
		json.RawMessage(`{"role":"user","content":"kept"}`),
	}, 300)

	if len(got) != 1 || got[0].Content != "kept" {
		t.Errorf("Expected only the object entry to survive, got %v", got)
	}
}

func TestSanitizeHistory_Idempotent(t *testing.T) {
	first := SanitizeHistory(rawHistory(t,
		map[string]any{"role": "user", "content": strings.Repeat("x", 500)},
		map[string]any{"role": "ghost", "content": "dropped"},
		map[string]any{"role": "assistant", "content": nil},
	), 300)

	// Feed the sanitized sequence back in.
	var again []any
	for _, e := range first {
		again = append(again, e)
	}
	second := SanitizeHistory(rawHistory(t, again...), 300)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Sanitization is not idempotent: %v vs %v", first, second)
	}
}

func TestSanitizeHistory_PreservesOrder(t *testing.T) {
	got := SanitizeHistory(rawHistory(t,
		map[string]any{"role": "user", "content": "1"},
		map[string]any{"role": "assistant", "content": "2"},
		map[string]any{"role": "user", "content": "3"},
	), 300)

	var contents []string
	for _, e := range got {
		contents = append(contents, e.Content)
	}
	if !reflect.DeepEqual(contents, []string{"1", "2", "3"}) {
		t.Errorf("Expected order preserved, got %v", contents)
	}
}

func TestSanitizeHistory_EmptyInput(t *testing.T) {
	if got := SanitizeHistory(nil, 300); len(got) != 0 {
		t.Errorf("Expected empty output for nil input, got %v", got)
	}
}
