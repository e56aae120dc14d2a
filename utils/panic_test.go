package utils //nolint:revive // utils is an appropriate package name for utility functions

import (
	"errors"
	"testing"

	ampErrors "github.com/amp-labs/amp-decorators/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPanicRecoveryError(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for nil panic value", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, GetPanicRecoveryError(nil, nil))
	})

	t.Run("wraps error panic value", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("test error") //nolint:err113
		err := GetPanicRecoveryError(originalErr, nil)
		require.ErrorIs(t, err, ampErrors.ErrPanicRecovery)
		require.ErrorIs(t, err, originalErr)
	})

	t.Run("formats string panic value", func(t *testing.T) {
		t.Parallel()

		err := GetPanicRecoveryError("panic message", nil)
		require.ErrorIs(t, err, ampErrors.ErrPanicRecovery)
		assert.Contains(t, err.Error(), "panic message")
	})

	t.Run("includes stack trace when provided", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("test error") //nolint:err113
		err := GetPanicRecoveryError(originalErr, []byte("goroutine 1 [running]:"))
		require.ErrorIs(t, err, originalErr)
		assert.Contains(t, err.Error(), "stack trace:\ngoroutine 1 [running]:")
	})
}
