package models

import (
	"errors"
	"fmt"
)

// Error codes returned in JSON responses
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrVideoNotFound      = errors.New("video not found")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("user with email or username already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenReused        = errors.New("refresh token is expired or already used")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyExists      = errors.New("resource already exists")
)

// AppError carries the error taxonomy across the core/boundary split.
// The boundary layer maps Code -> HTTP status; Err keeps the cause for
// logging without leaking it to clients.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidInput builds a 400 error
func NewInvalidInput(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message, StatusCode: 400, Err: ErrInvalidInput}
}

// NewUnauthorized builds a 401 error. All credential failures collapse
// here; the cause is kept for observability only.
func NewUnauthorized(message string, err error) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Message: message, StatusCode: 401, Err: err}
}

// NewForbidden builds a 403 error. Used only where distinguishing from
// NotFound is intentional (private playlist view).
func NewForbidden(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message, StatusCode: 403, Err: ErrForbidden}
}

// NewNotFound builds a 404 error. Ownership failures use this too, so
// callers cannot probe for the existence of other users' resources.
func NewNotFound(message string, err error) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, StatusCode: 404, Err: err}
}

// NewConflict builds a 409 error (unique constraint violations).
func NewConflict(message string, err error) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message, StatusCode: 409, Err: err}
}

// NewInternal builds a 500 error
func NewInternal(message string, err error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, StatusCode: 500, Err: err}
}

// StatusOf resolves the HTTP status for any error the core returns.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	return 500
}
