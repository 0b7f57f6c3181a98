// Package apperr defines the error taxonomy shared by all controllers and
// the middleware that maps it onto HTTP statuses.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnhandled Kind = iota
	KindValidation
	KindDuplicate
	KindNotFound
	KindAuth
	KindForbidden
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "server error"
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Duplicate(msg string) *Error  { return &Error{Kind: KindDuplicate, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func Forbidden(msg string) *Error  { return &Error{Kind: KindForbidden, Message: msg} }

// Wrap tags an underlying error without deciding a message for it.
func Wrap(kind Kind, err error) *Error { return &Error{Kind: kind, Err: err} }

// Status maps an error to its HTTP status. Unknown errors are 500.
func Status(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for an error. Unhandled errors
// are suppressed to a generic message so internals never leak.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindUnhandled {
		return ae.Error()
	}
	return "Server error"
}
