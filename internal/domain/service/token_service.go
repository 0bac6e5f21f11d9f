package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims defines the custom claims carried by a session token.
type SessionClaims struct {
	Email string
	Type  string
	jwt.RegisteredClaims
}

// SessionTokenService defines the interface for issuing and validating the
// signed, stateless session tokens handed out on successful login.
type SessionTokenService interface {
	// IssueSessionToken creates a signed session token bound to the given
	// account email with the configured validity window.
	IssueSessionToken(email string) (string, error)

	// ValidateSessionToken checks signature and expiry and returns the claims.
	// It fails closed: any malformed, mis-signed, or expired token is an error,
	// never a partial result.
	ValidateSessionToken(tokenString string) (*SessionClaims, error)

	// SessionTokenDuration returns the configured validity window.
	SessionTokenDuration() time.Duration
}

// VerificationTokenGenerator produces the opaque, unguessable tokens embedded
// in verification links. Tokens are URL-safe and carry no structure.
type VerificationTokenGenerator interface {
	NewVerificationToken() (string, error)
}
