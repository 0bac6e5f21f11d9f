// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"authd/internal/delivery/http/middleware"
	"authd/internal/delivery/http/response"
	"authd/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for the authentication endpoints.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	authUC    usecase.AuthUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(accountUC usecase.AccountUsecase, authUC usecase.AuthUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUC: accountUC,
		authUC:    authUC,
		logger:    logger,
	}
}

// Register handles the registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input *usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	output, err := h.accountUC.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, output.Message)
}

// Login handles the login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	output, err := h.authUC.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, output.Message)
}

// Verify handles the verification link from the mail.
func (h *AccountHandler) Verify(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Verification token is required")
	}

	output, err := h.accountUC.Verify(c.Request().Context(), token)
	if err != nil {
		return errors.WithStack(err)
	}

	// Expired tokens are a soft outcome: 200 with guidance, not an error.
	return response.Success(c, http.StatusOK, map[string]bool{
		"verified": output.Verified,
		"expired":  output.Expired,
	}, output.Message)
}

// ResendVerification handles a request for a fresh verification mail.
func (h *AccountHandler) ResendVerification(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Email is required")
	}

	output, err := h.accountUC.ResendVerification(c.Request().Context(), email)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, output.Message)
}

// Protected is a minimal endpoint for exercising session token auth.
func (h *AccountHandler) Protected(c echo.Context) error {
	email, ok := c.Get(middleware.ContextKeyEmail).(string)
	if !ok {
		return response.Unauthorized(c, "SESSION_TOKEN_INVALID", "Invalid session")
	}

	return response.Success(c, http.StatusOK, map[string]string{"email": email}, "Authenticated")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
