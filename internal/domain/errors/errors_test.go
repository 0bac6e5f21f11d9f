package errors

import (
	"net/http"
	"testing"
	"time"

	"authd/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestCooldownError_RemainingMinutes(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		minutes   int
	}{
		{"whole minutes pass through", 3 * time.Minute, 3},
		{"partial minutes round up", 4*time.Minute + 30*time.Second, 5},
		{"seconds round up to one", 30 * time.Second, 1},
		{"zero still reads as one", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCooldownError(tt.remaining)
			assert.Equal(t, tt.minutes, err.RemainingMinutes())
		})
	}
}

func TestCooldownError_AsAppError(t *testing.T) {
	err := NewCooldownError(2 * time.Minute)

	assert.Equal(t, http.StatusTooManyRequests, err.HTTPCode())
	assert.Equal(t, "RESEND_COOLDOWN_ACTIVE", err.ErrorCode())
	assert.Equal(t,
		"Please wait 2 minute(s) before requesting a new verification link.",
		err.Error())
}

func TestBaseError_SurvivesWrapping(t *testing.T) {
	wrapped := errors.Wrap(ErrAlreadyRegistered, "register failed")

	var appErr AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.HTTPCode())
	assert.Equal(t, "ALREADY_REGISTERED", appErr.ErrorCode())
}
