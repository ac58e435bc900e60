package seance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// ParseRequest decodes and validates a request body against the limits.
//
// Validation failures return a *ValidationError with the exact user-facing
// reason; any other error means the body was not a JSON object at all and
// maps to the generic failure response, not a 400.
//
// Checks run in order and short-circuit on first failure:
//  1. message present and non-empty
//  2. message is text and within MaxMessageChars
//  3. conversation_history, if present, is a sequence
//  4. sequence length within MaxHistoryMessages
func ParseRequest(body []byte, limits Limits) (*IncomingRequest, error) {
	var raw rawRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("request body is not a JSON object: %w", err)
	}

	if isAbsent(raw.Message) {
		return nil, ErrMissingMessage
	}

	var message string
	if err := json.Unmarshal(raw.Message, &message); err != nil {
		// Present but not text. Clients depend on this folding into
		// the too-long rejection message.
		return nil, ErrMessageTooLong
	}
	if message == "" {
		return nil, ErrMissingMessage
	}
	if utf8.RuneCountInString(message) > limits.MaxMessageChars {
		return nil, ErrMessageTooLong
	}

	var history []json.RawMessage
	if !isAbsent(raw.ConversationHistory) {
		if err := json.Unmarshal(raw.ConversationHistory, &history); err != nil {
			return nil, ErrInvalidHistoryShape
		}
		if len(history) > limits.MaxHistoryMessages {
			return nil, ErrHistoryTooLong
		}
	}

	return &IncomingRequest{
		Message:             message,
		ConversationHistory: history,
		SeanceAudioRecorded: raw.SeanceAudioRecorded,
		Location:            raw.Location,
	}, nil
}

// isAbsent reports whether a raw JSON field was omitted or explicitly null.
func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
