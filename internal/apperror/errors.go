// Package apperror provides the domain error taxonomy of the API.  Every
// error carries a stable machine-readable Kind, the HTTP status it maps to
// and a message that is safe to show to the client.  The echo error handler
// renders them as {"error": message, "kind": kind}.
//
// Raw database or infrastructure errors never reach the client.  Wrap them
// with NewInternal so the cause is logged and a generic message is returned.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError.  The string values are part of the HTTP
// contract and must not change.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindDuplicateEmail     Kind = "duplicate_email"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUnauthenticated    Kind = "unauthenticated"
	KindTokenInvalid       Kind = "token_invalid"
	KindTokenExpired       Kind = "token_expired"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindAlreadyCancelled   Kind = "already_cancelled"
	KindInvalidTransition  Kind = "invalid_transition"
	KindNoDealers          Kind = "no_dealers_available"
	KindRateLimited        Kind = "rate_limited"
	KindConfig             Kind = "config_error"
	KindInternal           Kind = "internal_error"
)

// AppError is the base error type for all domain errors.
type AppError struct {
	// Kind is the machine-readable classifier, e.g. "not_found".
	Kind Kind

	// Code is the HTTP status code.
	Code int

	// Message is a human-readable description safe for the client.
	Message string

	// Internal holds the underlying cause for logging.  Never exposed.
	Internal error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Kind, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

func newError(kind Kind, code int, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// --- Constructors ---

// NewValidation creates a 400 error for missing or malformed input.
func NewValidation(message string) *AppError {
	return newError(KindValidation, http.StatusBadRequest, message)
}

// NewDuplicateEmail reports that a user with the email already exists.
func NewDuplicateEmail() *AppError {
	return newError(KindDuplicateEmail, http.StatusBadRequest, "User with this email already exists")
}

// NewInvalidCredentials is returned for every failed login.  The message
// is identical for unknown emails and wrong passwords.
func NewInvalidCredentials() *AppError {
	return newError(KindInvalidCredentials, http.StatusUnauthorized, "Invalid email or password")
}

// NewUnauthenticated creates a 401 error for requests carrying no credential.
func NewUnauthenticated() *AppError {
	return newError(KindUnauthenticated, http.StatusUnauthorized, "Access denied. No token provided.")
}

// NewTokenInvalid creates a 403 error for a tampered or malformed token.
func NewTokenInvalid() *AppError {
	return newError(KindTokenInvalid, http.StatusForbidden, "Invalid or expired token")
}

// NewTokenExpired creates a 403 error for a token past its expiry.
func NewTokenExpired() *AppError {
	return newError(KindTokenExpired, http.StatusForbidden, "Invalid or expired token")
}

// NewForbidden creates a 403 error for an authenticated caller that is
// not permitted to act on the resource.
func NewForbidden(message string) *AppError {
	return newError(KindForbidden, http.StatusForbidden, message)
}

// NewNotFound creates a 404 error.
func NewNotFound(message string) *AppError {
	return newError(KindNotFound, http.StatusNotFound, message)
}

// NewAlreadyCancelled rejects a second cancellation of the same booking.
func NewAlreadyCancelled() *AppError {
	return newError(KindAlreadyCancelled, http.StatusBadRequest, "Booking is already cancelled")
}

// NewInvalidTransition creates a 409 error for a status change the
// booking lifecycle does not allow.
func NewInvalidTransition(message string) *AppError {
	return newError(KindInvalidTransition, http.StatusConflict, message)
}

// NewNoDealers reports an empty dealer directory.
func NewNoDealers() *AppError {
	return newError(KindNoDealers, http.StatusInternalServerError, "No dealers available")
}

// NewRateLimited creates a 429 error.
func NewRateLimited() *AppError {
	return newError(KindRateLimited, http.StatusTooManyRequests, "Too many requests, please try again later")
}

// NewConfig creates a 500 error for a server misconfiguration.  The cause
// is kept for the logs only.
func NewConfig(err error) *AppError {
	e := newError(KindConfig, http.StatusInternalServerError, "Server configuration error")
	e.Internal = err
	return e
}

// NewInternal creates a 500 Internal Server Error.  The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	e := newError(KindInternal, http.StatusInternalServerError, "Server error")
	e.Internal = err
	return e
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindInternal for any error that is
// not an AppError.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// SafeMessage returns the client-safe message of err.  Non-AppErrors get a
// generic message so table names and query text never leak.
func SafeMessage(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Message
	}
	return "Server error"
}

// SafeCode returns the HTTP status code of an AppError, or 500.
func SafeCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
