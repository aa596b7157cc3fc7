// Package apperr defines the error taxonomy every handler maps its
// failures into. Each kind corresponds to one HTTP status; anything not
// wrapped in an *Error is treated as internal.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// Error carries a kind and a user-visible message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // optional underlying cause, never shown to callers
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input (400).
func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

// Authentication reports a missing or invalid credential (401).
func Authentication(msg string) error { return &Error{Kind: KindAuthentication, Msg: msg} }

// Authorization reports that the caller is not the required owner or
// participant (403).
func Authorization(msg string) error { return &Error{Kind: KindAuthorization, Msg: msg} }

// NotFound reports an absent entity (404).
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// Conflict reports a duplicate or an illegal state transition (409).
func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// Internal wraps an unexpected failure (500). The cause is kept for
// logging; callers only ever see a generic message.
func Internal(err error) error { return &Error{Kind: KindInternal, Msg: "internal server error", Err: err} }

// KindOf extracts the kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps err to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
