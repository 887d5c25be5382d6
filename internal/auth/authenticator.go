// Package auth verifies credentials and issues access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/todo-app/internal/model"
	"github.com/iliyamo/todo-app/internal/repository"
	"github.com/iliyamo/todo-app/internal/security"
)

// ErrInvalidCredentials is returned for an unknown username and for a wrong
// password alike, so callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserLookup is the slice of the credential store the Authenticator needs.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// Authenticator checks username/password pairs and mints tokens.
type Authenticator struct {
	hasher *security.Hasher
	codec  *security.TokenCodec
	ttl    time.Duration

	// dummyHash is compared against when the username does not exist so
	// both failure paths pay for one bcrypt comparison.
	dummyHash string
}

// NewAuthenticator wires the hasher and codec. ttl is the lifetime of
// every issued token.
func NewAuthenticator(hasher *security.Hasher, codec *security.TokenCodec, ttl time.Duration) (*Authenticator, error) {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Authenticator{hasher: hasher, codec: codec, ttl: ttl, dummyHash: dummy}, nil
}

// TTL reports the token lifetime.
func (a *Authenticator) TTL() time.Duration { return a.ttl }

// Authenticate returns the stored user when password matches. Lookup and
// integrity failures are returned wrapped; both mismatch cases return
// ErrInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, users UserLookup, username, password string) (model.User, error) {
	u, err := users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		_, _ = a.hasher.Verify(password, a.dummyHash)
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := a.hasher.Verify(password, u.HashedPassword)
	if err != nil {
		return model.User{}, fmt.Errorf("verify password for user %d: %w", u.ID, err)
	}
	if !ok {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// IssueToken signs an access token for u.
func (a *Authenticator) IssueToken(u model.User) (string, error) {
	return a.codec.Encode(security.Claims{Subject: u.Username, UserID: u.ID, Role: u.Role}, a.ttl)
}
