// Package handler processes Pub/Sub push messages for the mail worker.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"authd/config"
	deliverycontext "authd/internal/delivery/context"
	"authd/internal/domain/constants"
	"authd/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// MailHandler handles Pub/Sub push messages carrying verification events and
// turns each into one outbound verification mail.
type MailHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	sender         service.MailSender
}

// MailHandlerParams holds dependencies for the MailHandler
type MailHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Sender service.MailSender
}

// NewMailHandler creates a new Pub/Sub push handler for verification mail
func NewMailHandler(params MailHandlerParams) *MailHandler {
	// Only Google-pushed messages outside development carry an ID token worth checking.
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &MailHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		sender:         params.Sender,
	}
}

// HandlePush handles incoming Pub/Sub push messages.
//
// Status codes drive Pub/Sub redelivery: 503 asks for a retry (transient mail
// failure), 200 acknowledges, and 400 drops malformed messages that would
// never succeed.
func (h *MailHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.VerificationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse verification event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	if event.Email == "" || event.Token == "" {
		h.logger.Error("[Worker] Verification event missing email or token")

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing verification event",
		slog.String("email", event.Email),
	)

	if err := h.sender.SendVerificationMail(ctx, event.Email, event.Token); err != nil {
		reqLogger.Error("[Worker] Failed to send verification mail",
			slog.String("email", event.Email),
			slog.Any("error", err),
		)
		// Mail failures are transient from here: let Pub/Sub redeliver.
		return c.NoContent(http.StatusServiceUnavailable)
	}

	reqLogger.Info("[Worker] Verification mail sent",
		slog.String("email", event.Email),
	)

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *MailHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.VerificationEvent) string {
	// 1. Message attributes (from Pub/Sub)
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	// 2. Event field (from JSON payload)
	if event.RequestID != "" {
		return event.RequestID
	}

	// 3. Existing context (from RequestIDMiddleware via X-Request-Id header)
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience must match the push endpoint URL.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
