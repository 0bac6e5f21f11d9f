package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccount_TokenExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	account := &Account{}
	assert.False(t, account.TokenExpired(now), "no pending token cannot be expired")

	account.AttachVerificationToken("token", now.Add(10*time.Minute), now)
	assert.False(t, account.TokenExpired(now))
	assert.False(t, account.TokenExpired(now.Add(10*time.Minute)), "expiry instant itself is still valid")
	assert.True(t, account.TokenExpired(now.Add(10*time.Minute).Add(time.Second)))
}

func TestAccount_MarkVerified(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	account := &Account{}
	account.AttachVerificationToken("token", now.Add(10*time.Minute), now)
	assert.True(t, account.VerificationPending())

	account.MarkVerified()

	assert.True(t, account.Verified)
	assert.False(t, account.VerificationPending())
	assert.Nil(t, account.TokenExpiresAt)
	assert.NotNil(t, account.LastNotifiedAt, "notification history survives verification")
}

func TestAccount_AttachVerificationTokenReplacesPrevious(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	account := &Account{}
	account.AttachVerificationToken("first", now.Add(10*time.Minute), now)

	later := now.Add(6 * time.Minute)
	account.AttachVerificationToken("second", later.Add(10*time.Minute), later)

	assert.Equal(t, "second", *account.VerificationToken)
	assert.Equal(t, later.Add(10*time.Minute), *account.TokenExpiresAt)
	assert.Equal(t, later, *account.LastNotifiedAt)
}
