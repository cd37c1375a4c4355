package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// FieldError tags an error message with the input field it refers to.
// Message is deliberately untyped: most validators produce a string, but a
// field may carry a list of messages, which is passed through unchanged.
type FieldError struct {
	Field   string `json:"field"`
	Message any    `json:"message"`
}

// FieldErrors is a validation failure covering one or more fields. Every
// error response in the API is normalized into the
// {"errors": [{"field", "message"}, ...]} envelope built from this type.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("%s: %v", e[0].Field, e[0].Message)
}

// NewFieldError builds a single-field validation failure.
func NewFieldError(field string, message any) FieldErrors {
	return FieldErrors{{Field: field, Message: message}}
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError normalizes any error into the uniform field-tagged
// envelope and writes it with the given status. FieldErrors keep their
// per-field entries; other errors become a single "detail" entry, matching
// how non-validation failures (auth, not found) are surfaced.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var fieldErrs FieldErrors

	switch e := err.(type) {
	case FieldErrors:
		fieldErrs = e
	case *AppError:
		fieldErrs = NewFieldError("detail", e.Message)
	default:
		fieldErrs = NewFieldError("detail", err.Error())
	}

	return c.Status(status).JSON(fiber.Map{"errors": fieldErrs})
}
