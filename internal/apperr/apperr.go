package apperr

import (
	"fmt"
	"net/http"
)

// Kind classifies an error so callers can branch on it without parsing messages.
type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidState
	KindInvalidTransition
	KindPrecondition
	KindStorage
)

// Error is the single error type surfaced by the service layer. Code keeps the
// 5-digit business codes the API envelope exposes to clients.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidState, KindInvalidTransition, KindPrecondition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func newf(kind Kind, code int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, 40002, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newf(KindUnauthorized, 40101, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newf(KindForbidden, 40301, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, 40401, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, 40901, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return newf(KindInvalidState, 40902, format, args...)
}

func InvalidTransition(format string, args ...interface{}) *Error {
	return newf(KindInvalidTransition, 40903, format, args...)
}

func Precondition(format string, args ...interface{}) *Error {
	return newf(KindPrecondition, 40904, format, args...)
}

// Storage wraps an unexpected persistence failure.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Code: 50001, Message: "storage error: " + err.Error(), Err: err}
}
