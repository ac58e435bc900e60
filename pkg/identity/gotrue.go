package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/supabase-community/gotrue-go"
)

// GoTrueVerifier verifies bearer tokens against a Supabase GoTrue
// identity service (GET <base>/auth/v1/user with the project API key).
type GoTrueVerifier struct {
	client gotrue.Client
}

// NewGoTrueVerifier creates a verifier for the given Supabase project.
// supabaseURL is the project base URL (https://<ref>.supabase.co); the
// auth path is appended here.
func NewGoTrueVerifier(supabaseURL, apiKey string) (*GoTrueVerifier, error) {
	if supabaseURL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	authURL := strings.TrimRight(supabaseURL, "/") + "/auth/v1"
	client := gotrue.New("", apiKey).WithCustomGoTrueURL(authURL)

	return &GoTrueVerifier{client: client}, nil
}

// UserID implements TokenVerifier. The underlying gotrue client does not
// accept a context; the ctx parameter satisfies the interface contract.
func (v *GoTrueVerifier) UserID(_ context.Context, token string) (string, error) {
	user, err := v.client.WithToken(token).GetUser()
	if err != nil {
		return "", fmt.Errorf("identity service rejected token: %w", err)
	}
	return user.ID.String(), nil
}
