package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError so the HTTP layer can pick a status code.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindForbidden    Kind = "FORBIDDEN"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL"
)

// HTTPStatus maps the kind onto the response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *AppError { return NewAppError(KindValidation, message, nil) }
func NotFound(message string) *AppError   { return NewAppError(KindNotFound, message, nil) }
func Conflict(message string) *AppError   { return NewAppError(KindConflict, message, nil) }
func Forbidden(message string) *AppError  { return NewAppError(KindForbidden, message, nil) }

func Unauthorized(message string) *AppError {
	return NewAppError(KindUnauthorized, message, nil)
}

// Internal wraps an unexpected failure; the message is logged, never shown to callers.
func Internal(message string, err error) *AppError {
	return NewAppError(KindInternal, message, err)
}

func Validationf(format string, args ...interface{}) *AppError {
	return Validation(fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) *AppError {
	return NotFound(fmt.Sprintf(format, args...))
}

// AsAppError extracts the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}

// Wrap attaches a classified message to an underlying error.
func Wrap(kind Kind, message string, err error) *AppError {
	return NewAppError(kind, message, err)
}
