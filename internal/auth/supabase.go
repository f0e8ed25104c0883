package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Supabase verifies tokens against a Supabase-style auth endpoint
// (GET /auth/v1/user with the caller's bearer token).
type Supabase struct {
	baseURL string
	anonKey string
	client  *http.Client
}

// NewSupabase creates a verifier for the given project URL and anon key.
func NewSupabase(baseURL, anonKey string) (*Supabase, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("auth provider url is required")
	}
	return &Supabase{
		baseURL: baseURL,
		anonKey: anonKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type supabaseUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verify asks the provider to resolve the token. Any non-OK answer maps to
// ErrInvalidToken; transport failures are reported as-is.
func (s *Supabase) Verify(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", s.anonKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling auth provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var user supabaseUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding auth response: %w", err)
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}
	return &User{ID: user.ID, Email: user.Email}, nil
}
