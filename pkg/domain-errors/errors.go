// Package domainerrors defines the coded error taxonomy services expose to
// transport layers. Stores speak sentinel errors; services translate them
// into these so handlers can map outcomes to HTTP without string matching.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error for programmatic branching.
type Code string

const (
	// CodeBadRequest marks caller faults: missing fields, empty documents,
	// out-of-range TTLs. Never retried automatically.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks absent records. A normal outcome, not a fault.
	CodeNotFound Code = "not_found"
	// CodeUnauthorized marks access-control failures, including unknown
	// share tokens.
	CodeUnauthorized Code = "unauthorized"
	// CodeTokenExpired marks a share token past its expiry. Distinct from
	// CodeUnauthorized so clients can tell "ask for a new link" from "this
	// was never valid".
	CodeTokenExpired Code = "token_expired"
	// CodeUnavailable marks transient infrastructure failures. Safe to
	// retry with backoff.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks unexpected failures. Details are never surfaced to
	// callers.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap constructs a coded error preserving the underlying cause for logs.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized, CodeTokenExpired:
		return http.StatusUnauthorized
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
