package service

import "context"

// MailSender delivers verification mail to account holders. Implementations
// render a link of the form <baseURL>/api/auth/verify?token=<token>.
type MailSender interface {
	SendVerificationMail(ctx context.Context, email, token string) error
}
