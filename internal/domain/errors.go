package domain

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrDispatch     = errors.New("dispatch failed")
	ErrInternal     = errors.New("internal error")
)

// Error is the single failure type returned by the auth coordinators.
// Kind is one of the sentinels above; Code is stable and machine-readable.
type Error struct {
	Kind    error
	Code    Code
	Message string
	Err     error
}

func NewError(kind error, code Code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Wrap returns an Error that also carries cause for errors.Is / errors.As.
func Wrap(kind error, code Code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	return StatusOf(e.Kind)
}

// StatusOf maps any error to the HTTP status of its kind. Unknown errors are 500.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AsError extracts the *Error from err, or wraps err as an internal failure.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return Wrap(ErrInternal, CodeInternal, "Internal server error", err)
}
