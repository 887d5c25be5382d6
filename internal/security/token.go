package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every decode failure: bad signature, wrong
// algorithm, malformed input, missing or past expiry.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity carried by an access token.
type Claims struct {
	Subject   string // username
	UserID    uint64
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims is the wire layout: {"id", "role", "sub", "exp", "iat"}.
type tokenClaims struct {
	UserID uint64 `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies access tokens with a single symmetric key
// and a single algorithm. It holds no mutable state and is safe for
// concurrent use.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec builds a codec for secret. Only HS256 is supported; any
// other algorithm name is a configuration error.
func NewTokenCodec(secret, algorithm string, opts ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if algorithm != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	c := &TokenCodec{secret: []byte(secret), method: jwt.SigningMethodHS256, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Encode signs claims with an absolute expiry of iat+ttl. The issue time is
// truncated to whole seconds, the precision of the wire format, so the
// encoded exp is exactly iat+ttl for whole-second TTLs.
func (c *TokenCodec) Encode(claims Claims, ttl time.Duration) (string, error) {
	now := c.now().UTC().Truncate(time.Second)
	t := jwt.NewWithClaims(c.method, tokenClaims{
		UserID: claims.UserID,
		Role:   claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return t.SignedString(c.secret)
}

// Decode verifies raw and returns its claims. A token is rejected at or
// after its expiry instant.
func (c *TokenCodec) Decode(raw string) (Claims, error) {
	var tc tokenClaims
	tok, err := jwt.ParseWithClaims(raw, &tc, func(t *jwt.Token) (interface{}, error) {
		if t.Method != c.method {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{Subject: tc.Subject, UserID: tc.UserID, Role: tc.Role}
	if tc.IssuedAt != nil {
		out.IssuedAt = tc.IssuedAt.Time
	}
	out.ExpiresAt = tc.ExpiresAt.Time
	return out, nil
}
