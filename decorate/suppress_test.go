package decorate

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuppress(t *testing.T) {
	t.Parallel()

	t.Run("passes results through", func(t *testing.T) {
		t.Parallel()

		out, err := Apply(double, Suppress[int, int](-1))(t.Context(), 5)
		require.NoError(t, err)
		assert.Equal(t, 10, out)
	})

	t.Run("swallows errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		out, err := Apply(failing, Suppress[int, int](-1, WithWriter(&buf)))(t.Context(), 5)
		require.NoError(t, err)
		assert.Equal(t, -1, out)
		assert.Empty(t, buf.String(), "nothing reported without WithReport")
	})

	t.Run("swallows panics", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		f := Apply(func(context.Context, int) (int, error) {
			panic("boom")
		}, Suppress[int, int](7, WithReport(), WithWriter(&buf)))

		var (
			out int
			err error
		)

		require.NotPanics(t, func() { out, err = f(t.Context(), 1) })
		require.NoError(t, err)
		assert.Equal(t, 7, out)
		assert.Contains(t, buf.String(), "Suppressed failure in ")
		assert.Contains(t, buf.String(), "boom")
		assert.Contains(t, buf.String(), "stack trace:")
	})

	t.Run("reports errors when asked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		_, err := Apply(failing, Suppress[int, int](0, WithReport(), WithWriter(&buf)))(t.Context(), 5)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "failing() in decorate_test.go")
		assert.Contains(t, buf.String(), errTest.Error())
	})

	t.Run("swallows context errors", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		f := Apply(func(ctx context.Context, _ int) (int, error) {
			return 0, ctx.Err()
		}, Suppress[int, int](3))

		out, err := f(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, out)
	})
}
