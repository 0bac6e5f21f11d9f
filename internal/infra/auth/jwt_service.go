// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authd/config"
	"authd/internal/domain/service"
	"authd/internal/errors"
)

// sessionTokenType marks a claim set as a session credential so tokens minted
// for other purposes can never pass validation here.
const sessionTokenType = "session"

// jwtService is a concrete implementation of the SessionTokenService interface using the JWT standard.
type jwtService struct {
	secret     []byte
	sessionTTL time.Duration
	clock      service.Clock
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config, clock service.Clock) (service.SessionTokenService, error) {
	if cfg.SecretKey.Session == "" {
		return nil, errors.New("session token secret must be provided")
	}

	return &jwtService{
		secret:     []byte(cfg.SecretKey.Session),
		sessionTTL: cfg.Auth.SessionTokenTTL,
		clock:      clock,
	}, nil
}

// IssueSessionToken creates a signed HS256 session token bound to the given email.
func (s *jwtService) IssueSessionToken(email string) (string, error) {
	now := s.clock.Now()
	claims := &service.SessionClaims{
		Email: email,
		Type:  sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// ValidateSessionToken checks the signature and expiry of a token string and
// returns its claims. Any defect fails closed.
func (s *jwtService) ValidateSessionToken(tokenString string) (*service.SessionClaims, error) {
	claims := &service.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Reject anything but HMAC to rule out alg-substitution tricks.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, errors.Wrap(err, "invalid session token")
	}

	if !token.Valid || claims.Type != sessionTokenType {
		return nil, errors.New("invalid session token")
	}

	return claims, nil
}

// SessionTokenDuration returns the configured validity window for session tokens.
func (s *jwtService) SessionTokenDuration() time.Duration {
	return s.sessionTTL
}
