// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"encoding/base64"

	"authd/internal/domain/service"
	"authd/internal/errors"
)

// verificationTokenBytes is the entropy of a verification token before
// encoding. 32 bytes keeps the token comfortably beyond guessing range.
const verificationTokenBytes = 32

// randomTokenGenerator mints opaque verification tokens from crypto/rand.
type randomTokenGenerator struct{}

// NewVerificationTokenGenerator is the constructor for randomTokenGenerator.
func NewVerificationTokenGenerator() service.VerificationTokenGenerator {
	return &randomTokenGenerator{}
}

// NewVerificationToken returns a fresh URL-safe token. The unpadded base64url
// alphabet keeps it safe to embed in a query string without escaping.
func (g *randomTokenGenerator) NewVerificationToken() (string, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes for verification token")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
