// Package errors defines the error taxonomy for fredline.
//
// Every failure surfaced by the query engine carries one of a small set
// of kinds so callers (CLI, HTTP handlers) can map it to an exit code or
// status without string matching.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error.
type Kind string

const (
	// KindTypeMismatch: the caller supplied a value of the wrong type
	// (e.g. a JSON number where a string belongs).
	KindTypeMismatch Kind = "TYPE_MISMATCH"

	// KindInvalidArgument: malformed format, illegal parameter
	// combination, out-of-range date, unfillable or all-missing data,
	// unknown series.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"

	// KindNotFound: the upstream source does not know the series.
	// Internal to the fetch layer; the query facade translates it to
	// KindInvalidArgument before it reaches a caller.
	KindNotFound Kind = "NOT_FOUND"

	// KindMalformedSource: upstream data violates ordering or
	// uniqueness invariants. Not caller-correctable.
	KindMalformedSource Kind = "MALFORMED_SOURCE"

	// KindConnectionFailure: transport-level failure. Potentially
	// retryable by the caller; fredline itself does not retry beyond
	// the HTTP client's backoff.
	KindConnectionFailure Kind = "CONNECTION_FAILURE"
)

// Error is a kind-carrying error.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the given kind and message
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a new Error with a formatted message
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping a cause
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// TypeMismatchf creates a TypeMismatch error
func TypeMismatchf(format string, args ...interface{}) *Error {
	return Newf(KindTypeMismatch, format, args...)
}

// InvalidArgumentf creates an InvalidArgument error
func InvalidArgumentf(format string, args ...interface{}) *Error {
	return Newf(KindInvalidArgument, format, args...)
}

// NotFoundf creates a NotFound error
func NotFoundf(format string, args ...interface{}) *Error {
	return Newf(KindNotFound, format, args...)
}

// MalformedSourcef creates a MalformedSource error
func MalformedSourcef(format string, args ...interface{}) *Error {
	return Newf(KindMalformedSource, format, args...)
}

// ConnectionFailure creates a ConnectionFailure error wrapping the
// transport error
func ConnectionFailure(err error, message string) *Error {
	return Wrap(KindConnectionFailure, err, message)
}

// KindOf extracts the kind from an error chain. Returns "" for errors
// that do not carry a kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether any error in the chain carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to an HTTP status code for the API surface
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindTypeMismatch, KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMalformedSource:
		return http.StatusBadGateway
	case KindConnectionFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
