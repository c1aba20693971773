package apperrors

import (
	"errors"
	"net/http"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNoToken            = "NO_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error is the one error type that crosses the service boundary. Handlers and
// resolvers map it onto the wire; anything else is treated as an internal failure.
type Error struct {
	Code    string
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches an underlying error for logging without changing
// what the client sees.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.cause = cause
	return &clone
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func Validation(message string) *Error {
	return New(CodeValidation, http.StatusBadRequest, message)
}

func EmailAlreadyExists() *Error {
	return New(CodeEmailAlreadyExists, http.StatusConflict, "email already registered")
}

// InvalidCredentials is deliberately identical for unknown email and wrong
// password so a caller cannot tell which part failed.
func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, http.StatusUnauthorized, "invalid email or password")
}

func NoToken() *Error {
	return New(CodeNoToken, http.StatusUnauthorized, "authorization token required")
}

func InvalidToken() *Error {
	return New(CodeInvalidToken, http.StatusUnauthorized, "invalid token")
}

func TokenExpired() *Error {
	return New(CodeTokenExpired, http.StatusUnauthorized, "token expired")
}

func Forbidden() *Error {
	return New(CodeForbidden, http.StatusForbidden, "you do not have access to this resource")
}

func NotFound(message string) *Error {
	return New(CodeNotFound, http.StatusNotFound, message)
}

func Internal() *Error {
	return New(CodeInternal, http.StatusInternalServerError, "internal server error")
}

// From extracts the typed error from an error chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Code reports the taxonomy code of err, or CodeInternal for untyped errors.
func Code(err error) string {
	if appErr, ok := From(err); ok {
		return appErr.Code
	}
	return CodeInternal
}
