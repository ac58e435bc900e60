package seance

// ValidationError describes a rejected request payload. The Message field
// is the exact user-facing text returned with HTTP 400.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// The four validation outcomes. These are the only errors that carry a
// precise reason back to the caller; everything else is deliberately
// generic so upstream detail never leaks.
var (
	ErrMissingMessage      = &ValidationError{Code: "missing_message", Message: "Message is required"}
	ErrMessageTooLong      = &ValidationError{Code: "message_too_long", Message: "Message too long"}
	ErrInvalidHistoryShape = &ValidationError{Code: "invalid_history", Message: "Invalid conversation history"}
	ErrHistoryTooLong      = &ValidationError{Code: "history_too_long", Message: "Conversation history too long"}
)

// User-facing messages for non-validation outcomes.
const (
	MsgUnauthorized     = "Unauthorized"
	MsgMethodNotAllowed = "Method not allowed"
	MsgRateLimited      = "The veil resists... slow down"
	MsgMisconfigured    = "Service misconfigured"
	MsgUpstreamFailure  = "Failed to communicate with spirit realm"
	MsgGenericFailure   = "The veil is too thick... try again"

	// fallbackResponse substitutes for a structurally empty generation
	// response on the success path.
	fallbackResponse = "...the connection fades..."
)
