package apperror

import (
	"net/http"
)

// Error is the contract the error-translation layer depends on: an
// HTTP-style status, a client-facing message and optional structured
// details.
type Error struct {
	Status  int      `json:"-"`
	Message string   `json:"message"`
	Errs    []string `json:"errors,omitempty"`
}

func (e *Error) Error() string { return e.Message }

func BadRequest(message string, details ...string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Errs: details}
}

func Unauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "User is not authorized"}
}
