// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity of the system: one registered identity, keyed by
// email address, together with its verification state.
//
// VerificationToken and TokenExpiresAt are always both nil or both set; a
// verified account carries neither. LastNotifiedAt records the last time a
// verification mail was dispatched for this account and drives the resend
// cooldown.
type Account struct {
	ID                uuid.UUID  // Unique identifier for the account record.
	Email             string     // Login identifier; unique and immutable after creation.
	PasswordHash      string     // bcrypt hash of the password; the plaintext is never stored.
	Verified          bool       // Gates login: an unverified account cannot obtain a session token.
	VerificationToken *string    // The single active verification token, nil when none is pending.
	TokenExpiresAt    *time.Time // Expiry of the active verification token; paired with VerificationToken.
	LastNotifiedAt    *time.Time // When the last verification mail was dispatched; nil before the first one.
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// VerificationPending reports whether the account still has an active
// (possibly expired) verification token attached.
func (a *Account) VerificationPending() bool {
	return a.VerificationToken != nil
}

// TokenExpired reports whether the active verification token has passed its
// expiry at the given instant. It returns false when no token is pending.
func (a *Account) TokenExpired(now time.Time) bool {
	return a.TokenExpiresAt != nil && a.TokenExpiresAt.Before(now)
}

// MarkVerified flips the account to verified and discards the pending token,
// restoring the invariant that a verified account carries no token state.
func (a *Account) MarkVerified() {
	a.Verified = true
	a.VerificationToken = nil
	a.TokenExpiresAt = nil
}

// AttachVerificationToken replaces any pending token with a fresh one. The
// previous token, expired or not, becomes invalid the moment this runs.
func (a *Account) AttachVerificationToken(token string, expiresAt, notifiedAt time.Time) {
	a.VerificationToken = &token
	a.TokenExpiresAt = &expiresAt
	a.LastNotifiedAt = &notifiedAt
}
