package seance

import "encoding/json"

// Limits contains the payload bounds applied by the validator and
// sanitizer. Values come from configuration.
type Limits struct {
	// MaxMessageChars is the maximum message length in Unicode code points.
	MaxMessageChars int

	// MaxHistoryMessages is the maximum number of history entries.
	MaxHistoryMessages int

	// MaxHistoryMessageChars is the truncation length for history content.
	MaxHistoryMessageChars int
}

// HistoryEntry is a sanitized conversation turn.
type HistoryEntry struct {
	// Role is exactly "user" or "assistant" after sanitization.
	Role string `json:"role"`

	// Content is the turn text, truncated to the configured bound.
	Content string `json:"content"`
}

// IncomingRequest is a validated chat request. ConversationHistory is kept
// loosely typed: the validator only vouches for it being a bounded
// sequence, and the sanitizer decides entry by entry what survives.
type IncomingRequest struct {
	Message             string
	ConversationHistory []json.RawMessage
	SeanceAudioRecorded bool
	Location            string
}

// rawRequest is the wire shape of a chat request before validation.
// Message and conversation_history stay raw so type errors surface as
// validation outcomes instead of decode failures.
type rawRequest struct {
	Message             json.RawMessage `json:"message"`
	ConversationHistory json.RawMessage `json:"conversation_history"`
	SeanceAudioRecorded bool            `json:"seance_audio_recorded"`
	Location            string          `json:"location"`
}

// ChatResponse is the success payload returned to the caller.
type ChatResponse struct {
	// Response is the generated spirit reply.
	Response string `json:"response"`

	// SessionID is a freshly generated opaque identifier (UUID).
	SessionID string `json:"session_id"`
}

// ErrorResponse is the error payload returned to the caller.
type ErrorResponse struct {
	Error string `json:"error"`
}
