// internal/app/system/apperr/apperr.go
//
// Package apperr is the error taxonomy shared by stores, the cascade engine,
// and handlers. Every failure that reaches the HTTP boundary is reduced to a
// Kind, which decides the status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindReferenceNotFound
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindTransactionFailure
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindReferenceNotFound:
		return "reference_not_found"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindTransactionFailure:
		return "transaction_failure"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "unexpected"
	}
}

// Error is a classified failure. Message is safe to show to clients;
// Err is the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Detail  []string
	Err     error
}

// WithDetail appends detail lines to e and returns it.
func (e *Error) WithDetail(detail ...string) *Error {
	e.Detail = append(e.Detail, detail...)
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input.
func Validation(msg string, detail ...string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Detail: detail}
}

// ReferenceNotFound reports reference fields that do not resolve.
func ReferenceNotFound(detail ...string) *Error {
	return &Error{Kind: KindReferenceNotFound, Message: "referenced document does not exist", Detail: detail}
}

// NotFound reports that the target entity is absent.
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// Conflict reports a uniqueness violation.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Unauthorized reports a missing, invalid, or expired credential.
func Unauthorized(msg string, err error) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg, Err: err}
}

// Forbidden reports a role that may not invoke the route.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// TooManyRequests reports a caller that exceeded a rate limit.
func TooManyRequests(msg string) *Error {
	return &Error{Kind: KindTooManyRequests, Message: msg}
}

// TransactionFailure wraps a store failure that aborted a transaction.
func TransactionFailure(err error) *Error {
	return &Error{Kind: KindTransactionFailure, Message: "transaction aborted", Err: err}
}

// Unexpected wraps anything else.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: "unexpected error", Err: err}
}

// Unexpectedf is Unexpected with a formatted cause.
func Unexpectedf(format string, args ...any) *Error {
	return Unexpected(fmt.Errorf(format, args...))
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Body is the JSON shape of every error response.
type Body struct {
	Message string   `json:"message"`
	Detail  []string `json:"detail,omitempty"`
}

// BodyOf keeps causes out of the response; only the classified message
// and detail reach the client.
func BodyOf(err error) Body {
	if e, ok := As(err); ok {
		return Body{Message: e.Message, Detail: e.Detail}
	}
	return Body{Message: "unexpected error"}
}

// KindOf returns the Kind of err. Unclassified errors are KindUnexpected.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnexpected
}

// Is reports whether err is classified as k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Status maps err to an HTTP status code. Not-found-by-id is a 400, as the
// API has always reported it.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation, KindReferenceNotFound, KindNotFound:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
