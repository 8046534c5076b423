// Package errors provides the error kinds raised by the expense tracker services
// and the envelope they are rendered into at the HTTP boundary.
// Service-layer code should only return *AppError values so that every failure
// maps to a consistent response without leaking internal details to clients.
package errors

import (
	"fmt"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, optional debug detail, HTTP status code and an
// optional internal cause.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Debug      string `json:"-"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Debug != "" {
		return e.Message + ": " + e.Debug
	}
	return e.Message
}

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Debug:      sentinel.Debug,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Debug:      sentinel.Debug,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithDebug creates a new AppError carrying a debug detail.
func WithDebug(sentinel *AppError, debug string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Debug:      debug,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Domain error kinds.
var (
	ErrFieldBlank            = &AppError{Code: "FIELD_BLANK", Message: "One of the Required fields was missing for the passed in entity!", StatusCode: http.StatusBadRequest}
	ErrEntityNotFound        = &AppError{Code: "ENTITY_NOT_FOUND", Message: "Entity was not found", StatusCode: http.StatusNotFound}
	ErrUsernameAlreadyExists = &AppError{Code: "USERNAME_ALREADY_EXISTS", Message: "Username already exists", StatusCode: http.StatusConflict}
	ErrAuthentication        = &AppError{Code: "AUTHENTICATION_FAILED", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
)

// Boundary errors.
var (
	ErrForbidden      = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// FieldBlank reports a required field of entity that was nil or blank.
// typeName is the declared type of the field and only shows up in the debug message.
func FieldBlank(entity, field, typeName string) *AppError {
	return WithDebug(ErrFieldBlank,
		fmt.Sprintf("%s was missing value of field '%s' which is of type %s", entity, field, typeName))
}

// EntityNotFound reports a lookup of entity by field=value that found nothing.
func EntityNotFound(entity, field, value string) *AppError {
	return WithMessage(ErrEntityNotFound,
		fmt.Sprintf("%s was not found for parameters {%s=%s}", entity, field, value))
}

// UsernameAlreadyExists reports a registration with a taken username.
func UsernameAlreadyExists(username string) *AppError {
	return WithMessage(ErrUsernameAlreadyExists,
		fmt.Sprintf("The username '%s' exists already!", username))
}

// AuthenticationFailure reports failed credential or token verification.
func AuthenticationFailure(message string) *AppError {
	return WithMessage(ErrAuthentication, message)
}
