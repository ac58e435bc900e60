package seance

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"spectral-hq/commune/pkg/identity"
	"spectral-hq/commune/pkg/limits/ratelimit"
	"spectral-hq/commune/pkg/providers/openai"
)

// maxBodyBytes bounds the request body read. The validated payload is at
// most a few KB; anything near this limit is abuse.
const maxBodyBytes = 1 << 20

// Generator is the outbound generation collaborator.
type Generator interface {
	// Complete sends the assembled messages and returns the generated
	// text. Empty text with nil error means the upstream response lacked
	// the expected structure.
	Complete(ctx context.Context, messages []openai.Message) (string, error)
}

// Handler orchestrates one chat request: resolve identity, rate limit,
// validate, sanitize, assemble the prompt, call generation, respond.
type Handler struct {
	limits      Limits
	requireAuth bool
	hasAPIKey   bool
	resolver    *identity.Resolver
	limiter     *ratelimit.Limiter
	generator   Generator
	logger      *slog.Logger
}

// HandlerConfig contains the handler's collaborators and settings.
type HandlerConfig struct {
	// Limits are the payload bounds for validation and sanitization.
	Limits Limits

	// RequireAuth rejects requests without a resolvable user identity.
	RequireAuth bool

	// APIKeyConfigured reports whether the generation credential is
	// present. When false every request gets the misconfigured response;
	// this is a per-request condition rather than a startup failure.
	APIKeyConfigured bool

	// Resolver maps request credentials to a caller identity.
	Resolver *identity.Resolver

	// Limiter admits or rejects callers.
	Limiter *ratelimit.Limiter

	// Generator performs the external generation call.
	Generator Generator

	// Logger records internal failure detail. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewHandler creates the chat request handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Handler{
		limits:      cfg.Limits,
		requireAuth: cfg.RequireAuth,
		hasAPIKey:   cfg.APIKeyConfigured,
		resolver:    cfg.Resolver,
		limiter:     cfg.Limiter,
		generator:   cfg.Generator,
		logger:      cfg.Logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == http.MethodOptions {
		// Preflight is normally short-circuited by the CORS middleware;
		// answering here keeps the handler correct on a bare mux too.
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	if !h.hasAPIKey {
		h.logger.Error("generation API key is missing")
		writeError(w, http.StatusInternalServerError, MsgMisconfigured)
		return
	}

	id := h.resolver.Resolve(ctx, r)
	if h.requireAuth && id.Anonymous() {
		writeError(w, http.StatusUnauthorized, MsgUnauthorized)
		return
	}

	// The attempt is recorded even when the caller ends up rejected, and
	// the unknown key is recorded but never rejected.
	admitted := h.limiter.Admit(ctx, id.Key)
	if !admitted && id.Key != identity.UnknownKey {
		writeError(w, http.StatusTooManyRequests, MsgRateLimited)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Error("failed to read request body", "error", err)
		writeError(w, http.StatusInternalServerError, MsgGenericFailure)
		return
	}

	req, err := ParseRequest(body, h.limits)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Message)
			return
		}
		h.logger.Error("failed to decode request body", "error", err)
		writeError(w, http.StatusInternalServerError, MsgGenericFailure)
		return
	}

	history := SanitizeHistory(req.ConversationHistory, h.limits.MaxHistoryMessageChars)
	messages := BuildMessages(history, req.Message, req.Location, req.SeanceAudioRecorded)

	text, err := h.generator.Complete(ctx, messages)
	if err != nil {
		var upstream *openai.UpstreamError
		if errors.As(err, &upstream) {
			h.logger.Error("generation service error", "status", upstream.StatusCode)
			writeError(w, http.StatusInternalServerError, MsgUpstreamFailure)
			return
		}
		h.logger.Error("generation call failed", "error", err)
		writeError(w, http.StatusInternalServerError, MsgGenericFailure)
		return
	}

	if text == "" {
		text = fallbackResponse
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:  text,
		SessionID: uuid.NewString(),
	})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeJSON writes a JSON response with the CORS header every response
// carries.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
