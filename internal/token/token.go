// Package token implements the signed bearer token carried on authenticated
// requests. A token holds the session reference only; the session row in the
// database remains the source of truth for expiry.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenCreation is returned when signing fails
	ErrTokenCreation = errors.New("token creation error")
	// ErrInvalidToken is returned for malformed or unverifiable tokens
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when the embedded expiry has lapsed
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the bearer token payload: sub is the user id, jti the session id.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims builds claims for a session.
func NewClaims(userID, sessionID string, expires time.Time) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

// UserID returns the sub claim.
func (c *Claims) UserID() string { return c.Subject }

// SessionID returns the jti claim.
func (c *Claims) SessionID() string { return c.ID }

// Codec signs and verifies tokens with a symmetric key.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec for the given signing secret.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Encode signs the claims with HMAC-SHA256.
func (c *Codec) Encode(claims *Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", ErrTokenCreation
	}
	return signed, nil
}

// Decode verifies the signature and returns the claims. Expiry of the
// embedded exp is checked here as well; the session row check in the
// session package is the authoritative one, and both surface the same
// expired outcome to callers.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
