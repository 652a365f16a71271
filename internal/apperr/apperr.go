// Package apperr defines the error taxonomy shared by services and HTTP handlers.
// Every error crossing the service boundary carries a Kind, which fixes the HTTP
// status, and a short machine-readable Code shown to clients. The wrapped cause is
// kept for logs and never serialised.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
)

// Client-facing codes.
const (
	CodeInvalidParams      = "INVALID_PARAMS"
	CodeUnknownUserType    = "UNKNOWN_USER_TYPE"
	CodeNameAlreadyUsed    = "NAME_ALREADY_USED"
	CodeEmailAlreadyUsed   = "EMAIL_ALREADY_USED"
	CodeEmptyPostTitle     = "EMPTY_POST_TITLE"
	CodeMissingPostID      = "MISSING_POST_ID"
	CodeInvalidCredentials = "EMAIL_OR_PASSWORD_INCORRECT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error is a classified application error.
type Error struct {
	Kind Kind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same Kind and Code, so sentinel-style
// comparisons such as errors.Is(err, apperr.BadRequest(CodeEmptyPostTitle)) work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Status returns the HTTP status associated with the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func BadRequest(code string) *Error { return &Error{Kind: KindBadRequest, Code: code} }

func Unauthorized(code string) *Error { return &Error{Kind: KindUnauthorized, Code: code} }

func Forbidden() *Error { return &Error{Kind: KindForbidden, Code: CodeForbidden} }

func NotFound() *Error { return &Error{Kind: KindNotFound, Code: CodeNotFound} }

// Internal wraps an unexpected failure (persistence, hashing, signing).
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Err: err}
}

// Wrap attaches a cause to a classified error without changing its kind or code.
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Err: err}
}

// From classifies any error. Unclassified errors become internal ones.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
