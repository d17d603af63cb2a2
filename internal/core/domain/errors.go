package domain

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by services and repositories wraps exactly
// one of these so the transport layer can pick a status code with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("not authorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrTooManyAttempts = errors.New("too many attempts")
)

var (
	ErrMissingToken       = newKindError(ErrUnauthenticated, "Not authorized, no token")
	ErrInvalidToken       = newKindError(ErrUnauthenticated, "Not authorized, token failed")
	ErrIdentityGone       = newKindError(ErrUnauthenticated, "User not found")
	ErrInvalidCredentials = newKindError(ErrUnauthenticated, "Invalid credentials")
	ErrInsufficientRole   = newKindError(ErrForbidden, "Forbidden: insufficient role")

	ErrUserNotFound = newKindError(ErrNotFound, "User not found")
	ErrPoolNotFound = newKindError(ErrNotFound, "Pool not found")

	ErrEmailTaken    = newKindError(ErrConflict, "User already exists with this email")
	ErrUsernameTaken = newKindError(ErrConflict, "Username already taken")
	ErrUserExists    = newKindError(ErrConflict, "User already exists")

	ErrSearchQueryRequired = newKindError(ErrValidation, "Search query is required")
	ErrLoginThrottled      = newKindError(ErrTooManyAttempts, "Too many failed login attempts, try again later")
)

// kindError is a sentinel with a client-facing message that unwraps to its kind.
type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation for one request.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from the given field failures.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
