package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pawtrail/pkg/domain-errors"
	"pawtrail/pkg/requestcontext"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func newRequest(t *testing.T, requestID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/announcements", nil)
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

func TestDomainErrorRendersEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	err := dErrors.New(dErrors.CodeMissingValue, "value is required").WithField("species")

	WriteError(rec, newRequest(t, "req-123"), err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "req-123", env.Error.RequestID)
	assert.Equal(t, "MISSING_VALUE", env.Error.Code)
	assert.Equal(t, "species", env.Error.Field)
}

func TestUnknownErrorCollapsesToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, newRequest(t, "req-500"), errors.New("pq: column does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "INTERNAL", env.Error.Code)
	assert.NotContains(t, env.Error.Message, "pq:", "raw detail never reaches the caller")
}

func TestMaxBytesErrorBecomesPayloadTooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, newRequest(t, "req-413"), &http.MaxBytesError{Limit: 100 << 10})

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", decodeEnvelope(t, rec).Error.Code)
}

func TestStatusMapping(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeMissingValue:      http.StatusBadRequest,
		dErrors.CodeInvalidFormat:     http.StatusBadRequest,
		dErrors.CodeMissingContact:    http.StatusBadRequest,
		dErrors.CodeInvalidParameter:  http.StatusBadRequest,
		dErrors.CodeInvalidFileFormat: http.StatusBadRequest,
		dErrors.CodeUnauthenticated:   http.StatusUnauthorized,
		dErrors.CodeUnauthorized:      http.StatusForbidden,
		dErrors.CodeNotFound:          http.StatusNotFound,
		dErrors.CodeConflict:          http.StatusConflict,
		dErrors.CodePayloadTooLarge:   http.StatusRequestEntityTooLarge,
		dErrors.CodeInternal:          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, statusFor(code), "code %s", code)
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, newRequest(t, "req-404"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "Resource not found", env.Error.Message)
}
