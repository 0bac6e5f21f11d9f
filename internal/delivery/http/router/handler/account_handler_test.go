package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domainerrors "authd/internal/domain/errors"
	httpmiddleware "authd/internal/delivery/http/middleware"
	"authd/internal/delivery/http/validator"
	"authd/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccountUsecase struct {
	registerOutput *usecase.RegisterOutput
	registerErr    error
	verifyOutput   *usecase.VerifyOutput
	verifyErr      error
	resendOutput   *usecase.ResendOutput
	resendErr      error
}

func (s *stubAccountUsecase) Register(_ context.Context, _ *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	return s.registerOutput, s.registerErr
}

func (s *stubAccountUsecase) Verify(_ context.Context, _ string) (*usecase.VerifyOutput, error) {
	return s.verifyOutput, s.verifyErr
}

func (s *stubAccountUsecase) ResendVerification(_ context.Context, _ string) (*usecase.ResendOutput, error) {
	return s.resendOutput, s.resendErr
}

type stubAuthUsecase struct {
	loginOutput *usecase.LoginOutput
	loginErr    error
}

func (s *stubAuthUsecase) Login(_ context.Context, _ *usecase.LoginInput) (*usecase.LoginOutput, error) {
	return s.loginOutput, s.loginErr
}

type handlerEnv struct {
	echo     *echo.Echo
	accounts *stubAccountUsecase
	auth     *stubAuthUsecase
}

func newHandlerEnv() *handlerEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accounts := &stubAccountUsecase{}
	auth := &stubAuthUsecase{}
	h := NewAccountHandler(accounts, auth, logger)

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = httpmiddleware.NewErrorMiddleware(logger).HandleHTTPError

	e.POST("/api/auth/register", h.Register)
	e.POST("/api/auth/login", h.Login)
	e.GET("/api/auth/verify", h.Verify)
	e.POST("/api/auth/resend-verification", h.ResendVerification)
	e.GET("/health", HealthCheck)

	return &handlerEnv{echo: e, accounts: accounts, auth: auth}
}

func (env *handlerEnv) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))

	return rec, parsed
}

func errorCode(t *testing.T, parsed map[string]any) string {
	t.Helper()

	errInfo, ok := parsed["error"].(map[string]any)
	require.True(t, ok, "expected error payload, got: %v", parsed)
	code, _ := errInfo["code"].(string)

	return code
}

func TestAccountHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newHandlerEnv()
		env.accounts.registerOutput = &usecase.RegisterOutput{
			Message: "Registered. Please verify email.",
		}

		rec, parsed := env.do(t, http.MethodPost, "/api/auth/register",
			`{"email":"alice@example.com","password":"correct-horse"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, true, parsed["success"])
		assert.Equal(t, "Registered. Please verify email.", parsed["message"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		env := newHandlerEnv()
		env.accounts.registerErr = domainerrors.ErrAlreadyRegistered

		rec, parsed := env.do(t, http.MethodPost, "/api/auth/register",
			`{"email":"alice@example.com","password":"correct-horse"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ALREADY_REGISTERED", errorCode(t, parsed))
	})

	t.Run("malformed email fails validation", func(t *testing.T) {
		env := newHandlerEnv()

		rec, parsed := env.do(t, http.MethodPost, "/api/auth/register",
			`{"email":"not-an-email","password":"correct-horse"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, parsed["success"])
	})

	t.Run("short password fails validation", func(t *testing.T) {
		env := newHandlerEnv()

		rec, _ := env.do(t, http.MethodPost, "/api/auth/register",
			`{"email":"alice@example.com","password":"short"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAccountHandler_Login(t *testing.T) {
	t.Run("success returns the session token", func(t *testing.T) {
		env := newHandlerEnv()
		env.auth.loginOutput = &usecase.LoginOutput{
			Message:     "Login successful",
			AccessToken: "token-abc",
			TokenType:   "Bearer",
			ExpiresIn:   int64((15 * time.Minute).Seconds()),
		}

		rec, parsed := env.do(t, http.MethodPost, "/api/auth/login",
			`{"email":"alice@example.com","password":"correct-horse"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		data, ok := parsed["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "token-abc", data["accessToken"])
		assert.Equal(t, "Bearer", data["tokenType"])
		assert.Equal(t, float64(900), data["expiresIn"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		env := newHandlerEnv()
		env.auth.loginErr = domainerrors.ErrInvalidCredentials

		rec, parsed := env.do(t, http.MethodPost, "/api/auth/login",
			`{"email":"alice@example.com","password":"wrong-password"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, parsed))
	})

	t.Run("unverified account", func(t *testing.T) {
		env := newHandlerEnv()
		env.auth.loginErr = domainerrors.ErrAccountNotVerified

		rec, parsed := env.do(t, http.MethodPost, "/api/auth/login",
			`{"email":"alice@example.com","password":"correct-horse"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "ACCOUNT_NOT_VERIFIED", errorCode(t, parsed))
	})
}

func TestAccountHandler_Verify(t *testing.T) {
	t.Run("verified", func(t *testing.T) {
		env := newHandlerEnv()
		env.accounts.verifyOutput = &usecase.VerifyOutput{
			Verified: true,
			Message:  "Account verified successfully",
		}

		rec, parsed := env.do(t, http.MethodGet, "/api/auth/verify?token=abc", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		data, ok := parsed["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, true, data["verified"])
		assert.Equal(t, false, data["expired"])
	})

	t.Run("expired token is a soft 200", func(t *testing.T) {
		env := newHandlerEnv()
		env.accounts.verifyOutput = &usecase.VerifyOutput{
			Expired: true,
			Message: "Verification token expired. Please request a new one.",
		}

		rec, parsed := env.do(t, http.MethodGet, "/api/auth/verify?token=abc", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		data, ok := parsed["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, false, data["verified"])
		assert.Equal(t, true, data["expired"])
	})

	t.Run("unknown token", func(t *testing.T) {
		env := newHandlerEnv()
		env.accounts.verifyErr = domainerrors.ErrInvalidVerificationToken

		rec, parsed := env.do(t, http.MethodGet, "/api/auth/verify?token=abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_VERIFICATION_TOKEN", errorCode(t, parsed))
	})

	t.Run("missing token", func(t *testing.T) {
		env := newHandlerEnv()

		rec, parsed := env.do(t, http.MethodGet, "/api/auth/verify", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_INPUT", errorCode(t, parsed))
	})
}

func TestAccountHandler_ResendVerification(t *testing.T) {
	t.Run("resent", func(t *testing.T) {
		env := newHandlerEnv()
		env.accounts.resendOutput = &usecase.ResendOutput{
			Message: "Verification email resent",
		}

		rec, parsed := env.do(t, http.MethodPost,
			"/api/auth/resend-verification?email=alice%40example.com", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Verification email resent", parsed["message"])
	})

	t.Run("cooldown active", func(t *testing.T) {
		env := newHandlerEnv()
		env.accounts.resendErr = domainerrors.NewCooldownError(3 * time.Minute)

		rec, parsed := env.do(t, http.MethodPost,
			"/api/auth/resend-verification?email=alice%40example.com", "")

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "RESEND_COOLDOWN_ACTIVE", errorCode(t, parsed))
		assert.Contains(t, parsed["message"], "3 minute(s)")
	})

	t.Run("unknown email", func(t *testing.T) {
		env := newHandlerEnv()
		env.accounts.resendErr = domainerrors.ErrAccountNotFound

		rec, parsed := env.do(t, http.MethodPost,
			"/api/auth/resend-verification?email=ghost%40example.com", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ACCOUNT_NOT_FOUND", errorCode(t, parsed))
	})

	t.Run("missing email", func(t *testing.T) {
		env := newHandlerEnv()

		rec, parsed := env.do(t, http.MethodPost, "/api/auth/resend-verification", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_INPUT", errorCode(t, parsed))
	})
}

func TestHealthCheck(t *testing.T) {
	env := newHandlerEnv()

	rec, parsed := env.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, parsed["success"])
}
