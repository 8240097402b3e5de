package redact

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryBodiesAreOmittedWholesale(t *testing.T) {
	for _, ct := range []string{
		"image/jpeg", "image/png", "video/mp4", "audio/ogg",
		"application/pdf", "application/zip", "application/gzip",
		"application/octet-stream", "IMAGE/JPEG", "image/png; charset=binary",
	} {
		got := Body(ct, []byte{0xFF, 0xD8, 0xFF}, 1024)
		omitted, ok := got.(OmittedBody)
		require.True(t, ok, "content type %q must be omitted", ct)
		assert.True(t, omitted.Omitted)
		assert.Equal(t, int64(1024), omitted.ContentLength)
	}
}

func TestOversizeTextIsTruncated(t *testing.T) {
	body := []byte(strings.Repeat("a", MaxTextBytes+100))
	got := Body("text/plain", body, int64(len(body)))

	truncated, ok := got.(TruncatedBody)
	require.True(t, ok)
	assert.True(t, truncated.Truncated)
	assert.Equal(t, int64(MaxTextBytes+100), truncated.OriginalSize)
	assert.Len(t, truncated.Content, MaxTextBytes)
}

func TestTruncatedBodyMasksContacts(t *testing.T) {
	// An oversize create payload must not carry raw contacts into the log
	// just because it crossed the truncation ceiling.
	body := []byte(`{"email":"john.doe@example.com","phone":"48123456789","pad":"` +
		strings.Repeat("x", MaxTextBytes) + `"}`)

	got := Body("application/json", body, int64(len(body)))

	truncated, ok := got.(TruncatedBody)
	require.True(t, ok)
	assert.NotContains(t, truncated.Content, "john.doe@example.com")
	assert.NotContains(t, truncated.Content, "48123456789")
	assert.Contains(t, truncated.Content, `"email":"j***@example.com"`)
	assert.Contains(t, truncated.Content, `"phone":"***789"`)
}

func TestTruncationBoundaryInsideContactValue(t *testing.T) {
	// The ceiling lands mid-value: the unterminated contact string must be
	// masked entirely, not leaked as a prefix.
	pad := strings.Repeat("x", MaxTextBytes-20)
	body := []byte(`{"pad":"` + pad + `","email":"john.doe@example.com"}`)
	require.Greater(t, len(body), MaxTextBytes)

	got := Body("application/json", body, int64(len(body)))

	truncated, ok := got.(TruncatedBody)
	require.True(t, ok)
	assert.NotContains(t, truncated.Content, "john")
	assert.Contains(t, truncated.Content, `"email":"***`)
}

func TestPartialCaptureStillReportsFullSize(t *testing.T) {
	// Caller captured only a prefix of a large body.
	got := Body("application/json", []byte(`{"spe`), 5<<20)

	truncated, ok := got.(TruncatedBody)
	require.True(t, ok)
	assert.Equal(t, int64(5<<20), truncated.OriginalSize)
}

func TestNestedContactFieldsAreMasked(t *testing.T) {
	body := []byte(`{
		"species": "DOG",
		"email": "john.doe@example.com",
		"contactDetails": {"phone": "48123456789"},
		"history": [{"email": "a@b.pl"}]
	}`)
	original := bytes.Clone(body)

	got := Body("application/json", body, int64(len(body)))

	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "j***@example.com", m["email"])
	assert.Equal(t, "***789", m["contactDetails"].(map[string]any)["phone"])
	assert.Equal(t, "a***@b.pl", m["history"].([]any)[0].(map[string]any)["email"])
	assert.Equal(t, "DOG", m["species"], "non-contact fields stay intact")
	assert.Equal(t, original, body, "source bytes must not be mutated")
}

func TestMaskedBodyStillSerializes(t *testing.T) {
	got := Body("application/json", []byte(`{"phone":"123"}`), 15)
	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"phone":"***"}`, string(out))
}

func TestNonJSONTextPassesThrough(t *testing.T) {
	got := Body("text/plain", []byte("hello"), 5)
	assert.Equal(t, "hello", got)
}

func TestEmailMask(t *testing.T) {
	assert.Equal(t, "j***@example.com", Email("john@example.com"))
	assert.Equal(t, "***", Email("not-an-email"))
	assert.Equal(t, "***", Email("@example.com"))
}

func TestPhoneMask(t *testing.T) {
	assert.Equal(t, "***789", Phone("48123456789"))
	assert.Equal(t, "***", Phone("12"))
	assert.Equal(t, "***", Phone(""))
}
