// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"authd/config"
	"authd/internal/delivery/http/middleware"
	"authd/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	Config         *config.Config
	AccountHandler *handler.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	cfg            *config.Config
	accountHandler *handler.AccountHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cfg:            params.Config,
		accountHandler: params.AccountHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/api/auth")
	{
		authGroup.POST("/register", r.accountHandler.Register)
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.GET("/verify", r.accountHandler.Verify)
		authGroup.POST("/resend-verification", r.accountHandler.ResendVerification)
	}

	// Session-protected probe endpoint, enabled per environment
	if r.cfg.TestRoutes != nil && r.cfg.TestRoutes.Enabled {
		testGroup := e.Group("/api/test")
		testGroup.Use(r.authMiddleware.Authenticate)
		{
			testGroup.GET("", r.accountHandler.Protected)
		}
	}
}
