package middleware

import (
	"net/http"
	"strings"

	"authd/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// ContextKeyEmail is the echo.Context key under which the authenticated
// account email is stored for downstream handlers.
const ContextKeyEmail = "email"

// AuthMiddleware provides middleware for session token authentication.
type AuthMiddleware struct {
	sessionTokens service.SessionTokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(sessionTokens service.SessionTokenService) *AuthMiddleware {
	return &AuthMiddleware{sessionTokens: sessionTokens}
}

// Authenticate validates the Bearer session token on protected routes.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		claims, err := m.sessionTokens.ValidateSessionToken(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		// Expose the authenticated identity to handlers.
		c.Set(ContextKeyEmail, claims.Email)

		return next(c)
	}
}
