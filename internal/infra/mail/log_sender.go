package mail

import (
	"context"
	"log/slog"

	"authd/config"
	"authd/internal/domain/service"
)

// logSender writes the verification link to the log instead of sending mail.
// Development-only: the link in the log is clickable against a local server.
type logSender struct {
	baseURL string
	logger  *slog.Logger
}

// NewLogSender creates the log-only mail sender.
func NewLogSender(cfg *config.Config, logger *slog.Logger) service.MailSender {
	return &logSender{
		baseURL: cfg.Verification.BaseURL,
		logger:  logger,
	}
}

func (s *logSender) SendVerificationMail(ctx context.Context, email, token string) error {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "Verification mail (log only)",
		slog.String("email", email),
		slog.String("link", verificationLink(s.baseURL, token)),
	)

	return nil
}
