package auth

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationTokenGenerator(t *testing.T) {
	gen := NewVerificationTokenGenerator()

	t.Run("tokens are URL-safe", func(t *testing.T) {
		token, err := gen.NewVerificationToken()
		require.NoError(t, err)
		require.NotEmpty(t, token)

		// Must survive a query string without escaping.
		assert.Equal(t, token, url.QueryEscape(token))
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			token, err := gen.NewVerificationToken()
			require.NoError(t, err)

			_, dup := seen[token]
			require.False(t, dup, "duplicate token generated")
			seen[token] = struct{}{}
		}
	})

	t.Run("tokens encode 32 bytes of entropy", func(t *testing.T) {
		token, err := gen.NewVerificationToken()
		require.NoError(t, err)

		// 32 bytes in unpadded base64url is 43 characters.
		assert.Len(t, token, 43)
	})
}
