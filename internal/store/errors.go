package store

import "net/http"

// Error is a persistence-layer error. Code is the HTTP status the API layer
// should answer with when the error surfaces unhandled.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) HTTPCode() int { return e.Code }

// Sentinels returned by store implementations. Services branch on these
// with errors.Is and translate them into domain errors.
var (
	ErrNotFound      = &Error{Code: http.StatusNotFound, Message: "resource not found"}
	ErrAlreadyExists = &Error{Code: http.StatusConflict, Message: "resource already exists"}
)
