// Package auth delegates token verification to the managed auth provider.
// Token issuance, sessions and password flows live entirely outside this
// backend; all that happens here is asking the provider who a bearer token
// belongs to.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken means the provider rejected the bearer token.
var ErrInvalidToken = errors.New("invalid or expired token")

// User is the identity behind a verified token. The ID scopes every row
// the API reads or writes.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verifier validates a bearer token with the auth provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}
