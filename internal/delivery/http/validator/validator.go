// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// echoValidator wraps a validator.Validate instance for echo.
type echoValidator struct {
	validate *validator.Validate
}

// New creates the echo request validator.
func New() echo.Validator {
	return &echoValidator{validate: validator.New()}
}

// Validate runs struct validation and converts failures into an echo HTTPError
// so the error handler renders them as a 400 with the offending fields.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, formatValidationError(err))
	}

	return nil
}

func formatValidationError(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid request"
	}

	msg := "invalid request:"
	for _, fieldErr := range validationErrs {
		msg += " " + fieldErr.Field() + " failed '" + fieldErr.Tag() + "' validation;"
	}

	return msg
}
