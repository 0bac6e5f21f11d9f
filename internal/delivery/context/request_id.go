// Package context carries request-scoped values (request ID, logger) across
// delivery and use case layers without leaking transport types downward.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderXRequestID is the HTTP header carrying the request ID, honored on
// inbound requests and echoed on every response.
const HeaderXRequestID = "X-Request-Id"

// echoKeyRequestID keys the request ID inside echo's per-request store, which
// is string-indexed.
const echoKeyRequestID = "request_id"

// ctxKey is unexported so no other package can collide with our context keys.
type ctxKey int

const (
	requestIDKey ctxKey = iota
	loggerKey
)

// GetRequestID returns the request ID stored in the echo context, generating
// a fresh one when the request carried none.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(echoKeyRequestID).(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID stores the request ID in the echo context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(echoKeyRequestID, requestID)
}

// WithRequestID attaches the request ID to a standard context so it survives
// past the delivery layer, into use cases and dispatched events.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestIDFromContext returns the request ID attached to the context, or
// the empty string when there is none.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

// WithLogger attaches a request-scoped logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLoggerOrDefault returns the request-scoped logger from the context, or
// the fallback when the context carries none.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}

	return fallback
}
