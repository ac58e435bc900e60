package identity

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// UnknownKey is the caller key used when no user identity or network
// origin can be determined. Callers under this key are recorded by the
// rate limiter but never rejected, so anonymous traffic behind an opaque
// proxy does not share one punished bucket.
const UnknownKey = "unknown"

// TokenVerifier exchanges a bearer token for a stable user identifier.
type TokenVerifier interface {
	// UserID returns the user identifier for a valid token, or an error
	// when the token cannot be verified.
	UserID(ctx context.Context, token string) (string, error)
}

// Identity is the outcome of resolving a request's credentials.
type Identity struct {
	// Key is the caller key used for rate limiting: the user id when the
	// token verified, otherwise a best-effort network origin, otherwise
	// UnknownKey.
	Key string

	// UserID is the verified user identifier. Empty for anonymous callers.
	UserID string
}

// Anonymous reports whether no user identity was resolved.
func (id Identity) Anonymous() bool {
	return id.UserID == ""
}

// Resolver maps request credentials to a caller identity.
type Resolver struct {
	verifier TokenVerifier
	logger   *slog.Logger
}

// NewResolver creates a resolver. verifier may be nil, in which case every
// caller resolves to a network-origin identity.
func NewResolver(verifier TokenVerifier, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		verifier: verifier,
		logger:   logger,
	}
}

// Resolve produces the caller identity for a request.
//
// A present bearer token is exchanged with the identity service; failure
// to verify is not an error here, the caller just resolves as anonymous.
// Whether anonymous callers are acceptable is the handler's decision.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) Identity {
	if token := bearerToken(req); token != "" && r.verifier != nil {
		userID, err := r.verifier.UserID(ctx, token)
		if err == nil && userID != "" {
			return Identity{Key: userID, UserID: userID}
		}
		if err != nil {
			r.logger.Debug("bearer token verification failed", "error", err)
		}
	}

	return Identity{Key: originKey(req)}
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(req *http.Request) string {
	auth := req.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// originKey derives a best-effort caller key from network-origin headers:
// the first X-Forwarded-For entry, then CF-Connecting-IP, then UnknownKey.
func originKey(req *http.Request) string {
	if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := req.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	return UnknownKey
}
