package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubVerifier struct {
	userID string
	err    error
	seen   string
}

func (s *stubVerifier) UserID(_ context.Context, token string) (string, error) {
	s.seen = token
	return s.userID, s.err
}

func request(headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestResolve_VerifiedToken(t *testing.T) {
	verifier := &stubVerifier{userID: "user-42"}
	resolver := NewResolver(verifier, nil)

	id := resolver.Resolve(context.Background(), request(map[string]string{
		"Authorization": "Bearer abc123",
	}))

	if id.Key != "user-42" || id.UserID != "user-42" {
		t.Errorf("Expected verified identity, got %+v", id)
	}
	if id.Anonymous() {
		t.Error("Expected verified identity to not be anonymous")
	}
	if verifier.seen != "abc123" {
		t.Errorf("Expected raw token passed to verifier, got %q", verifier.seen)
	}
}

func TestResolve_FailedVerificationFallsBackToOrigin(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("invalid token")}
	resolver := NewResolver(verifier, nil)

	id := resolver.Resolve(context.Background(), request(map[string]string{
		"Authorization":   "Bearer expired",
		"X-Forwarded-For": "203.0.113.5",
	}))

	if id.Key != "203.0.113.5" {
		t.Errorf("Expected origin key after failed verification, got %q", id.Key)
	}
	if !id.Anonymous() {
		t.Error("Expected anonymous identity after failed verification")
	}
}

func TestResolve_ForwardedForTakesFirstEntry(t *testing.T) {
	resolver := NewResolver(nil, nil)

	id := resolver.Resolve(context.Background(), request(map[string]string{
		"X-Forwarded-For":  " 198.51.100.7 , 10.0.0.1, 172.16.0.1",
		"CF-Connecting-IP": "203.0.113.9",
	}))

	if id.Key != "198.51.100.7" {
		t.Errorf("Expected first forwarded entry trimmed, got %q", id.Key)
	}
}

func TestResolve_CloudflareHeaderFallback(t *testing.T) {
	resolver := NewResolver(nil, nil)

	id := resolver.Resolve(context.Background(), request(map[string]string{
		"CF-Connecting-IP": "203.0.113.9",
	}))

	if id.Key != "203.0.113.9" {
		t.Errorf("Expected CF-Connecting-IP fallback, got %q", id.Key)
	}
}

func TestResolve_NoHeadersIsUnknown(t *testing.T) {
	resolver := NewResolver(nil, nil)

	id := resolver.Resolve(context.Background(), request(nil))

	if id.Key != UnknownKey {
		t.Errorf("Expected %q, got %q", UnknownKey, id.Key)
	}
}

func TestResolve_MalformedAuthorizationIgnored(t *testing.T) {
	verifier := &stubVerifier{userID: "user-42"}
	resolver := NewResolver(verifier, nil)

	tests := []string{"Basic abc123", "Bearer", ""}
	for _, auth := range tests {
		headers := map[string]string{"X-Forwarded-For": "192.0.2.1"}
		if auth != "" {
			headers["Authorization"] = auth
		}
		id := resolver.Resolve(context.Background(), request(headers))
		if id.Key != "192.0.2.1" {
			t.Errorf("Authorization %q: expected origin key, got %q", auth, id.Key)
		}
	}
}
