// Package mail provides MailSender implementations: SMTP delivery through
// gomail for real deployments and a log-only sender for local development.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"authd/config"
	"authd/internal/domain/service"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

const mailSubject = "Verify your account"

// gomailSender delivers verification mail over SMTP.
type gomailSender struct {
	dialer   *gomail.Dialer
	from     string
	baseURL  string
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewMailSender creates a MailSender from configuration. Without SMTP settings
// it falls back to the log sender so development runs never need a mail server.
func NewMailSender(cfg *config.Config, logger *slog.Logger) service.MailSender {
	if cfg.Mail == nil || cfg.Mail.Host == "" {
		logger.Info("SMTP not configured, using log-only mail sender")

		return NewLogSender(cfg, logger)
	}

	return &gomailSender{
		dialer:   gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.From, cfg.Mail.Password),
		from:     cfg.Mail.From,
		baseURL:  cfg.Verification.BaseURL,
		tokenTTL: cfg.Verification.TokenTTL,
		logger:   logger,
	}
}

// SendVerificationMail renders the verification link and delivers it via SMTP.
func (s *gomailSender) SendVerificationMail(ctx context.Context, email, token string) error {
	// gomail has no context support; honor cancellation before the dial.
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "verification mail canceled before send")
	}

	link := verificationLink(s.baseURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", mailSubject)
	msg.SetBody("text/html", renderVerificationBody(link, s.tokenTTL))

	if err := s.dialer.DialAndSend(msg); err != nil {
		return errors.Wrapf(err, "failed to send verification mail to %s", email)
	}

	s.logger.Info("Verification mail sent", slog.String("email", email))

	return nil
}

// verificationLink builds the clickable URL embedded in the mail body.
func verificationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/api/auth/verify?token=%s", baseURL, url.QueryEscape(token))
}

func renderVerificationBody(link string, ttl time.Duration) string {
	minutes := int(ttl / time.Minute)

	return fmt.Sprintf(
		`<p>Thank you for registering. Please click the link below to verify your account:</p>
<p><a href="%s">Verify my account</a></p>
<p>This link expires in %d minutes. If you did not register, you can ignore this mail.</p>`,
		link, minutes,
	)
}
