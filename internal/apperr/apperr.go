// Package apperr defines the error taxonomy shared by services, repositories
// and the HTTP responder. Every failure that reaches a handler is either an
// *AppError or is treated as Internal.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an application error.
type Kind string

const (
	KindUnauthenticated    Kind = "unauthenticated"
	KindSessionExpired     Kind = "session_expired"
	KindInvalidToken       Kind = "invalid_token"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindForbidden          Kind = "forbidden"
	KindValidation         Kind = "validation"
	KindDuplicateEntry     Kind = "duplicate_entry"
	KindInUse              Kind = "in_use"
	KindNotFound           Kind = "not_found"
	KindInternal           Kind = "internal"
)

// AppError carries a Kind, a client-safe message and an optional cause.
type AppError struct {
	Kind    Kind
	Message string
	// Field names the offending input for validation errors.
	Field string
	Cause error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Status maps the error kind to an HTTP status code.
func (e *AppError) Status() int {
	return StatusFor(e.Kind)
}

// StatusFor maps a kind to its HTTP status code.
func StatusFor(kind Kind) int {
	switch kind {
	case KindUnauthenticated, KindSessionExpired, KindInvalidToken, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation, KindDuplicateEntry, KindInUse:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap attaches cause to a new error of the given kind.
func Wrap(kind Kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause}
}

func Unauthenticated(message string) *AppError {
	return New(KindUnauthenticated, message)
}

func Forbidden(message string) *AppError {
	return New(KindForbidden, message)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

func NotFoundf(format string, args ...any) *AppError {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func Validation(message string) *AppError {
	return New(KindValidation, message)
}

// ValidationField reports an invalid input field.
func ValidationField(field, message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Field: field}
}

func Internal(cause error) *AppError {
	return Wrap(KindInternal, "Something went wrong", cause)
}

// As extracts the *AppError from err. Errors outside the taxonomy are
// reported as Internal with the original error as cause.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is an *AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Kind == kind
}
