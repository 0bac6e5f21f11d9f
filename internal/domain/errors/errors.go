package errors

import (
	"net/http"
	"strconv"
	"time"

	"authd/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Registration-related errors
	ErrAlreadyRegistered = NewBaseError(
		http.StatusConflict,
		"ALREADY_REGISTERED",
		"Email already registered",
		"",
	)

	ErrAccountCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"ACCOUNT_CREATION_FAILED",
		"Failed to create account",
		"",
	)

	ErrAccountUpdateFailed = NewBaseError(
		http.StatusInternalServerError,
		"ACCOUNT_UPDATE_FAILED",
		"Failed to update account",
		"",
	)

	// Authentication-related errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		"",
	)

	ErrAccountNotVerified = NewBaseError(
		http.StatusForbidden,
		"ACCOUNT_NOT_VERIFIED",
		"Account not verified. Verification email sent.",
		"",
	)

	ErrSessionTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_TOKEN_INVALID",
		"Invalid or expired session token",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Failed to process password",
		"",
	)

	// Verification-related errors
	ErrInvalidVerificationToken = NewBaseError(
		http.StatusBadRequest,
		"INVALID_VERIFICATION_TOKEN",
		"Invalid verification token",
		"",
	)

	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"Account not found",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// Transaction-related errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"Database transaction failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// CooldownError reports that a verification resend was requested before the
// cooldown window elapsed. It carries the remaining wait so callers can tell
// the account holder exactly how long to hold off.
type CooldownError struct {
	remaining time.Duration
}

// NewCooldownError creates a cooldown error from the raw remaining wait time.
// The remaining duration is rounded up to whole minutes for the message, so a
// 30-second wait still reads as "1 minute(s)".
func NewCooldownError(remaining time.Duration) *CooldownError {
	return &CooldownError{remaining: remaining}
}

// RemainingMinutes returns the remaining wait, ceiling-rounded to whole minutes.
func (e *CooldownError) RemainingMinutes() int {
	minutes := int((e.remaining + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	return minutes
}

// Error implements the error interface
func (e *CooldownError) Error() string {
	return e.Message()
}

// HTTPCode returns the HTTP status code
func (e *CooldownError) HTTPCode() int {
	return http.StatusTooManyRequests
}

// ErrorCode returns the business error code
func (e *CooldownError) ErrorCode() string {
	return "RESEND_COOLDOWN_ACTIVE"
}

// Message returns the user-friendly error message
func (e *CooldownError) Message() string {
	return "Please wait " + strconv.Itoa(e.RemainingMinutes()) +
		" minute(s) before requesting a new verification link."
}

// Details returns detailed error information
func (e *CooldownError) Details() string {
	return ""
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
