package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCodeMatchesThroughWrapping(t *testing.T) {
	base := New(CodeNotFound, "announcement not found")
	wrapped := fmt.Errorf("service: %w", base)

	assert.True(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(wrapped, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
	assert.False(t, HasCode(nil, CodeNotFound))
}

func TestWrapKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Wrap(cause, CodeInternal, "could not load announcement")

	assert.NotContains(t, err.Message, "pq:")
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, CodeInternal))
}

func TestWithFieldRendersField(t *testing.T) {
	err := New(CodeMissingValue, "value is required").WithField("species")

	de := From(err)
	require.NotNil(t, de)
	assert.Equal(t, "species", de.Field)
	assert.Contains(t, err.Error(), "species")
	assert.Contains(t, err.Error(), string(CodeMissingValue))
}

func TestFromReturnsNilForForeignErrors(t *testing.T) {
	assert.Nil(t, From(errors.New("boom")))
	assert.Nil(t, From(nil))
}
