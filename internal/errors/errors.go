// Package errors defines the domain error taxonomy shared by services and
// the HTTP layer. Every error carries a machine-readable Code that maps to
// an HTTP status; handlers never invent status codes themselves.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-exported so callers don't need a second errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Code identifies an error category on the wire.
type Code string

const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeValidation         Code = "VALIDATION"
	CodeConflict           Code = "CONFLICT"
	CodeUpstream           Code = "UPSTREAM_UNAVAILABLE"
	CodeInternal           Code = "INTERNAL"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
)

var codeStatus = map[Code]int{
	CodeNotFound:           http.StatusNotFound,
	CodeAlreadyExists:      http.StatusConflict,
	CodeConflict:           http.StatusConflict,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeTokenExpired:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeValidation:         http.StatusBadRequest,
	CodeUpstream:           http.StatusBadGateway,
}

// HTTPStatus maps the code to its HTTP status. Unknown codes are treated
// as internal errors.
func (c Code) HTTPStatus() int {
	if status, ok := codeStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is the domain error type. Details, when set, is a JSON-serializable
// payload (for example a field-to-message map on validation failures).
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error carrying the same Code, so sentinel comparisons
// like errors.Is(err, ErrNotFound) work regardless of message.
func (e *Error) Is(target error) bool {
	var other *Error
	return errors.As(target, &other) && e.Code == other.Code
}

func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// WithCause returns a copy carrying err as the wrapped cause.
func (e *Error) WithCause(err error) *Error {
	clone := *e
	clone.cause = err
	return &clone
}

// Sentinels, one per code, for errors.Is checks.
var (
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists      = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden          = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrConflict           = &Error{Code: CodeConflict, Message: "conflict"}
	ErrUpstream           = &Error{Code: CodeUpstream, Message: "upstream unavailable"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrTokenExpired       = &Error{Code: CodeTokenExpired, Message: "token expired"}
)

func newError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func NotFound(msg string) *Error     { return newError(CodeNotFound, msg) }
func Unauthorized(msg string) *Error { return newError(CodeUnauthorized, msg) }
func Forbidden(msg string) *Error    { return newError(CodeForbidden, msg) }
func Validation(msg string) *Error   { return newError(CodeValidation, msg) }
func Conflict(msg string) *Error     { return newError(CodeConflict, msg) }
func Upstream(msg string) *Error     { return newError(CodeUpstream, msg) }
func Internal(msg string) *Error     { return newError(CodeInternal, msg) }

func Validationf(format string, args ...any) *Error {
	return newError(CodeValidation, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) *Error {
	return newError(CodeConflict, fmt.Sprintf(format, args...))
}

// ValidationWithDetails builds a validation error with a structured details
// payload for the response body.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}
