// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"authd/config"
	"authd/internal/domain/service"
)

// dummyPassword feeds the hash generated at construction time for DummyCheck.
const dummyPassword = "timing-equalizer"

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
	// dummyHash is a valid bcrypt hash of dummyPassword at the configured
	// cost, compared against when no real hash exists for a login attempt.
	dummyHash string
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) (service.PasswordHasher, error) {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, err
	}

	return &bcryptHasher{
		cost:      cost,
		dummyHash: string(dummy),
	}, nil
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// DummyCheck runs a bcrypt comparison against a fixed hash so a login attempt
// for a nonexistent email costs the same as one against a real account.
func (h *bcryptHasher) DummyCheck(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(h.dummyHash), []byte(password))
}
