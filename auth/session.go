package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
)

// Signer is the wallet capability used to prove ownership of a public key.
// Its internals are never inspected.
type Signer interface {
	PublicKey() string
	SignMessage(ctx context.Context, message []byte) ([]byte, error)
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionFromToken reads the expiry out of a JWT issued by the backend.
// The signature is not checked, the backend does that on every call.
func SessionFromToken(token string) (*Session, error) {
	claims := &jwt.StandardClaims{}
	_, _, err := new(jwt.Parser).ParseUnverified(token, claims)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read session token")
	}

	session := &Session{Token: token}
	if claims.ExpiresAt > 0 {
		session.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
	}

	return session, nil
}

// Valid reports whether the session can still be used at now. A session
// without an expiry is valid until the backend rejects it.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}

	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}
