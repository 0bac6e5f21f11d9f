package service

import (
	"context"
)

// VerificationEvent asks the notification path to deliver a verification
// mail for the given account. It is the only coupling between the account
// lifecycle and mail delivery.
type VerificationEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	Email     string `json:"email"`
	Token     string `json:"token"`
}

// EventPublisher defines the interface for publishing verification events.
// Publishing is fire-and-forget from the caller's point of view: delivery
// failures must never surface into the account mutation that triggered them.
type EventPublisher interface {
	// PublishVerificationEvent publishes a verification event for async processing
	PublishVerificationEvent(ctx context.Context, event *VerificationEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
