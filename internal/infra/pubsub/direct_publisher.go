package pubsub

import (
	"context"
	"log/slog"

	"authd/internal/domain/service"

	"github.com/pkg/errors"
)

// directPublisher short-circuits the event pipeline and hands verification
// events straight to the mail sender in-process. This is the provider for
// single-binary deployments where no broker exists between the API and the
// mail path.
type directPublisher struct {
	sender service.MailSender
	logger *slog.Logger
}

// NewDirectPublisher creates a publisher that delivers mail synchronously
// with respect to the publish call. The caller already dispatches publishes
// on a detached goroutine, so the request path never waits on SMTP.
func NewDirectPublisher(sender service.MailSender, logger *slog.Logger) service.EventPublisher {
	return &directPublisher{
		sender: sender,
		logger: logger,
	}
}

// PublishVerificationEvent sends the verification mail for the event.
func (p *directPublisher) PublishVerificationEvent(ctx context.Context, event *service.VerificationEvent) error {
	p.logger.Debug("[DirectPubSub] Delivering verification mail in-process",
		slog.String("email", event.Email),
	)

	if err := p.sender.SendVerificationMail(ctx, event.Email, event.Token); err != nil {
		return errors.Wrap(err, "direct mail delivery failed")
	}

	return nil
}

// Close releases resources (no-op for in-process delivery)
func (p *directPublisher) Close() error {
	return nil
}
