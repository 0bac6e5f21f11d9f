package impl

import (
	"context"
	"testing"
	"time"

	domainerrors "authd/internal/domain/errors"
	"authd/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerAndVerify(t *testing.T, env *testEnv, email string) {
	t.Helper()

	register(t, env, email)
	event := env.publisher.waitEvent(t)

	_, err := env.accounts.Verify(context.Background(), event.Token)
	require.NoError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	t.Run("verified account receives a session token", func(t *testing.T) {
		env := newTestEnv(t)
		registerAndVerify(t, env, "alice@example.com")

		output, err := env.auth.Login(context.Background(), &usecase.LoginInput{
			Email:    "alice@example.com",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.Equal(t, "Login successful", output.Message)
		assert.Equal(t, "session-for-alice@example.com", output.AccessToken)
		assert.Equal(t, "Bearer", output.TokenType)
		assert.Equal(t, int64(900), output.ExpiresIn)
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newTestEnv(t)
		registerAndVerify(t, env, "alice@example.com")

		_, err := env.auth.Login(context.Background(), &usecase.LoginInput{
			Email:    "alice@example.com",
			Password: "wrong-password",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("unknown email burns a dummy hash check", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.auth.Login(context.Background(), &usecase.LoginInput{
			Email:    "ghost@example.com",
			Password: "whatever",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		assert.Equal(t, 1, env.hasher.DummyChecks())
		env.publisher.assertNoEvent(t)
	})

	t.Run("unverified account is refused and gets a fresh mail", func(t *testing.T) {
		env := newTestEnv(t)
		register(t, env, "bob@example.com")
		env.publisher.waitEvent(t)

		env.clock.Advance(6 * time.Minute)

		_, err := env.auth.Login(context.Background(), &usecase.LoginInput{
			Email:    "bob@example.com",
			Password: "correct-horse",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrAccountNotVerified))

		event := env.publisher.waitEvent(t)
		assert.Equal(t, "bob@example.com", event.Email)
	})

	t.Run("resend cooldown during unverified login is swallowed", func(t *testing.T) {
		env := newTestEnv(t)
		register(t, env, "bob@example.com")
		env.publisher.waitEvent(t)

		// Within the cooldown window: login still reports not-verified, the
		// cooldown hit never surfaces, and no second mail goes out.
		_, err := env.auth.Login(context.Background(), &usecase.LoginInput{
			Email:    "bob@example.com",
			Password: "correct-horse",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrAccountNotVerified))
		env.publisher.assertNoEvent(t)
	})

	t.Run("wrong password on unverified account sends nothing", func(t *testing.T) {
		env := newTestEnv(t)
		register(t, env, "bob@example.com")
		env.publisher.waitEvent(t)

		env.clock.Advance(6 * time.Minute)

		_, err := env.auth.Login(context.Background(), &usecase.LoginInput{
			Email:    "bob@example.com",
			Password: "wrong-password",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		env.publisher.assertNoEvent(t)
	})
}
