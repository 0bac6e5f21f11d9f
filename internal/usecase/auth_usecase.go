package usecase

import (
	"context"
)

// LoginInput carries the credentials of a login attempt.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginOutput carries the session token issued on successful login.
type LoginOutput struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"` // seconds
}

// AuthUsecase gates access to session tokens. Only a verified account with
// matching credentials receives one.
type AuthUsecase interface {
	// Login verifies credentials and issues a session token. An unverified
	// account is refused and a fresh verification mail is triggered as a side
	// effect.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}
