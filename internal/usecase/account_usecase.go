package usecase

import (
	"context"
)

// RegisterInput carries the credentials of a registration request.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterOutput reports the outcome of a registration request.
type RegisterOutput struct {
	Message string `json:"message"`
}

// VerifyOutput reports the outcome of redeeming a verification token. Expired
// is a soft outcome, not an error: the token matched an account but its
// redemption window has passed.
type VerifyOutput struct {
	Verified bool   `json:"verified"`
	Expired  bool   `json:"expired"`
	Message  string `json:"message"`
}

// ResendOutput reports the outcome of a resend-verification request.
type ResendOutput struct {
	// AlreadyVerified is set when the account needs no further verification
	AlreadyVerified bool   `json:"alreadyVerified"`
	Message         string `json:"message"`
}

// AccountUsecase drives the account verification lifecycle: registration,
// token redemption, and re-issuing verification mail.
type AccountUsecase interface {
	// Register creates an unverified account and triggers a verification mail.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Verify redeems a verification token. An expired token yields a soft
	// outcome and leaves the account untouched so a later resend can succeed.
	Verify(ctx context.Context, token string) (*VerifyOutput, error)

	// ResendVerification regenerates the verification token and triggers a
	// fresh mail, subject to the resend cooldown.
	ResendVerification(ctx context.Context, email string) (*ResendOutput, error)
}
