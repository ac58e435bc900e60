package seance

import (
	"strings"
	"testing"
)

func TestBuildMessages_Order(t *testing.T) {
	history := []HistoryEntry{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "...greetings..."},
	}

	messages := BuildMessages(history, "Who is here?", "", false)

	if len(messages) != 4 {
		t.Fatalf("Expected 4 messages, got %d", len(messages))
	}
	if messages[0].Role != "system" {
		t.Errorf("Expected leading system message, got role %q", messages[0].Role)
	}
	if messages[1].Content != "hello" || messages[2].Content != "...greetings..." {
		t.Error("Expected history in original order after the system message")
	}
	if messages[3].Role != "user" || messages[3].Content != "Who is here?" {
		t.Errorf("Expected trailing user turn, got %+v", messages[3])
	}
}

func TestBuildMessages_NoAnnotationWithoutHints(t *testing.T) {
	messages := BuildMessages(nil, "hello", "", false)
	last := messages[len(messages)-1]
	if last.Content != "hello" {
		t.Errorf("Expected bare message without hints, got %q", last.Content)
	}
}

func TestBuildMessages_SeanceAudioAnnotation(t *testing.T) {
	messages := BuildMessages(nil, "hello", "", true)
	last := messages[len(messages)-1]

	if !strings.HasPrefix(last.Content, "[The user just recorded ambient audio during a séance.") {
		t.Errorf("Expected séance annotation prefix, got %q", last.Content)
	}
	if !strings.HasSuffix(last.Content, " hello") {
		t.Errorf("Expected literal message after annotation, got %q", last.Content)
	}
}

func TestBuildMessages_LocationBeforeSeanceNotice(t *testing.T) {
	messages := BuildMessages(nil, "hello", "old lighthouse", true)
	last := messages[len(messages)-1]

	locIdx := strings.Index(last.Content, "old lighthouse")
	audioIdx := strings.Index(last.Content, "ambient audio")
	msgIdx := strings.LastIndex(last.Content, "hello")

	if locIdx == -1 || audioIdx == -1 {
		t.Fatalf("Expected both annotations present, got %q", last.Content)
	}
	if !(locIdx < audioIdx && audioIdx < msgIdx) {
		t.Errorf("Expected location, then séance notice, then message; got %q", last.Content)
	}
}

func TestBuildMessages_AnnotationIsGenerationFacingOnly(t *testing.T) {
	// The annotation lives only in the outbound user turn; history
	// entries pass through untouched.
	history := []HistoryEntry{{Role: "user", Content: "earlier"}}
	messages := BuildMessages(history, "now", "somewhere", true)

	if messages[1].Content != "earlier" {
		t.Errorf("Expected history content untouched, got %q", messages[1].Content)
	}
}
