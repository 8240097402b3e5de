// Package domainerrors defines the typed failure taxonomy shared by every
// layer of the service. Services and stores raise these close to the point of
// detection; exactly one translator (internal/httpapi) turns them into wire
// responses, so the error vocabulary never leaks transport concerns.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, symbolic failure code. Codes are part of the wire
// contract: clients switch on them, so they never change meaning.
type Code string

const (
	// Validation sub-codes. All render as HTTP 400.
	CodeMissingValue     Code = "MISSING_VALUE"
	CodeInvalidFormat    Code = "INVALID_FORMAT"
	CodeMissingContact   Code = "MISSING_CONTACT"
	CodeInvalidParameter Code = "INVALID_PARAMETER"

	// CodeInvalidFileFormat rejects upload content that is not an allowed
	// raster image, as judged by sniffing, never by client metadata.
	CodeInvalidFileFormat Code = "INVALID_FILE_FORMAT"

	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodePayloadTooLarge Code = "PAYLOAD_TOO_LARGE"
	CodeInternal        Code = "INTERNAL"
)

// Error is the concrete failure type. Field optionally names the offending
// request field for validation failures.
type Error struct {
	Code    Code
	Message string
	Field   string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and client-safe message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted client-safe message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithField attaches the offending field name and returns the error for
// chaining: New(CodeMissingValue, "...").WithField("species").
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// Wrap annotates an underlying error with a domain code and client-safe
// message. The cause stays reachable through errors.Unwrap for logging but
// its text is never forwarded to the client.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode, reading naturally in assertions.
func Is(err error, code Code) bool { return HasCode(err, code) }

// From extracts the domain error from err's chain, or nil when err carries
// none. Callers treat a nil result as CodeInternal.
func From(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return nil
}
