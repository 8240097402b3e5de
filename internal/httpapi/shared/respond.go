// Package shared owns the wire shape of every response body. It is the only
// code allowed to write an error response: handlers and middleware raise
// typed errors and route them here, so the envelope cannot drift between
// endpoints.
package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "pawtrail/pkg/domain-errors"
	"pawtrail/pkg/requestcontext"
)

// ErrorDetail is the body of the fixed error envelope.
type ErrorDetail struct {
	RequestID string `json:"requestId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
}

// ErrorEnvelope wraps ErrorDetail: {"error":{...}}.
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode JSON response",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
	}
}

// WriteError translates any failure into the fixed envelope. Unrecognized
// errors collapse to INTERNAL/500 with a generic message; raw error detail
// goes to the log, never to the caller. Transport-level "body too large"
// conditions are pattern-matched into PAYLOAD_TOO_LARGE instead of falling
// through to 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestcontext.RequestID(r.Context())

	de := dErrors.From(err)
	var maxBytesErr *http.MaxBytesError
	if de == nil && errors.As(err, &maxBytesErr) {
		de = dErrors.New(dErrors.CodePayloadTooLarge, "request body is too large")
	}
	if de == nil {
		de = dErrors.New(dErrors.CodeInternal, "An unexpected error occurred")
	}

	status := statusFor(de.Code)
	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "request failed",
		slog.String("request_id", requestID),
		slog.String("code", string(de.Code)),
		slog.Int("status", status),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.String("error", err.Error()),
	)

	WriteJSON(w, r, status, ErrorEnvelope{Error: ErrorDetail{
		RequestID: requestID,
		Code:      string(de.Code),
		Message:   de.Message,
		Field:     de.Field,
	}})
}

// NotFound renders the unmatched-route envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, dErrors.New(dErrors.CodeNotFound, "Resource not found"))
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeMissingValue,
		dErrors.CodeInvalidFormat,
		dErrors.CodeMissingContact,
		dErrors.CodeInvalidParameter,
		dErrors.CodeInvalidFileFormat:
		return http.StatusBadRequest
	case dErrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case dErrors.CodeUnauthorized:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
