// Package apperrors defines the error kinds shared by the claim and billing
// services and their mapping to HTTP status codes.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindSecurity        Kind = "security"
	KindExternalService Kind = "external_service"
	KindPersistence     Kind = "persistence"
)

// Error carries a Kind, the failing operation and a caller-facing message.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	if e.Msg != "" && e.Err != nil {
		return e.Op + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

func Conflict(op, msg string) error {
	return &Error{Kind: KindConflict, Op: op, Msg: msg}
}

func Security(op string, err error) error {
	return &Error{Kind: KindSecurity, Op: op, Msg: "invalid webhook signature", Err: err}
}

func ExternalService(op string, err error) error {
	return &Error{Kind: KindExternalService, Op: op, Msg: "payment provider request failed", Err: err}
}

func Persistence(op string, err error) error {
	return &Error{Kind: KindPersistence, Op: op, Msg: "database operation failed", Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the caller-facing message. Wrapped causes of external and
// persistence failures are not exposed.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus maps an error to the response status code. Errors without a
// kind are treated as internal failures.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindSecurity:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
