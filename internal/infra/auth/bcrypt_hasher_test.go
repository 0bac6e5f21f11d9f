package auth

import (
	"testing"

	"authd/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hasherTestConfig() *config.Config {
	cfg := &config.Config{}
	// MinCost keeps the test fast; production uses the configured cost.
	cfg.Auth = &config.AuthConfig{BcryptCost: bcrypt.MinCost}

	return cfg
}

func TestBcryptHasher(t *testing.T) {
	hasher, err := NewBcryptHasher(hasherTestConfig())
	require.NoError(t, err)

	t.Run("hash and check round trip", func(t *testing.T) {
		hash, err := hasher.Hash("correct-horse")
		require.NoError(t, err)
		assert.NotEqual(t, "correct-horse", hash)

		assert.True(t, hasher.Check("correct-horse", hash))
		assert.False(t, hasher.Check("wrong-password", hash))
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		first, err := hasher.Hash("correct-horse")
		require.NoError(t, err)
		second, err := hasher.Hash("correct-horse")
		require.NoError(t, err)

		// bcrypt salts every hash.
		assert.NotEqual(t, first, second)
	})

	t.Run("dummy check does not panic on any input", func(t *testing.T) {
		hasher.DummyCheck("")
		hasher.DummyCheck("some-password")
	})
}
