package policy

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amp-labs/amp-decorators/decorate"
	ampErrors "github.com/amp-labs/amp-decorators/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
policies:
  fetch:
    retry: {retries: 3, backoff: 1ms}
    timeout: 2s
    limit: 100
    slow_down: 1ms
    timing: {enabled: false, times: 1}
  legacy:
    deprecated: {message: "use fetchV2", print_only: true}
    wip: {message: "beta"}
  quiet:
    suppress: true
`

var errFlaky = errors.New("flaky")

func TestParse(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, doc.Policies, 3)

	fetch, err := doc.Get("fetch")
	require.NoError(t, err)

	require.NotNil(t, fetch.Retry)
	assert.Equal(t, 3, fetch.Retry.Retries)
	assert.Equal(t, time.Millisecond, fetch.Retry.Backoff)
	assert.Equal(t, 2*time.Second, fetch.Timeout)
	require.NotNil(t, fetch.Limit)
	assert.Equal(t, 100, *fetch.Limit)
	require.NotNil(t, fetch.Timing.Enabled)
	assert.False(t, *fetch.Timing.Enabled)

	legacy, err := doc.Get("legacy")
	require.NoError(t, err)
	assert.True(t, legacy.Deprecated.PrintOnly)
	assert.Equal(t, "beta", legacy.WIP.Message)

	_, err = doc.Get("missing")
	require.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	doc, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Policies)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("policies:\n  fetch:\n    retires: 3\n"))
	require.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`
policies:
  bad:
    limit: -1
    timeout: -1s
    retry: {retries: -2}
`))
	require.ErrorIs(t, err, ErrInvalidPolicy)
	assert.Contains(t, err.Error(), "limit must be >= 0")
	assert.Contains(t, err.Error(), "timeout must not be negative")
	assert.Contains(t, err.Error(), "retry.retries must be >= 0")
}

func TestValidateBackoffBounds(t *testing.T) {
	t.Parallel()

	p := Policy{Retry: &Retry{Retries: 1, Backoff: time.Second, MaxBackoff: time.Millisecond}}

	require.ErrorIs(t, p.Validate(), ErrInvalidPolicy)
}

func TestParseRejectsMaxBackoffWithoutBackoff(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`
policies:
  fetch:
    retry: {retries: 3, max_backoff: 100ms}
`))

	require.ErrorIs(t, err, ErrInvalidPolicy)
	assert.Contains(t, err.Error(), "needs a retry.backoff")
}

func TestBuildExponentialBackoffWaits(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(`
policies:
  fetch:
    retry: {retries: 2, backoff: 20ms, max_backoff: 100ms}
`))
	require.NoError(t, err)

	p, err := doc.Get("fetch")
	require.NoError(t, err)

	calls := 0
	f := decorate.ApplyNamed("fetch", func(context.Context, int) (int, error) {
		calls++

		return 0, errFlaky
	}, Build[int, int](p))

	start := time.Now()
	_, err = f(t.Context(), 1)

	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, calls)
	// Two waits, each at least half the 20ms initial interval after jitter.
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "policies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, doc.Policies, "quiet")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFromEnv(t *testing.T) { //nolint:paralleltest
	path := filepath.Join(t.TempDir(), "policies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	t.Setenv(FileEnvVar, path)

	doc, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Len(t, doc.Policies, 3)
}

func TestLoadFromEnvMissing(t *testing.T) { //nolint:paralleltest
	t.Setenv(FileEnvVar, "")
	require.NoError(t, os.Unsetenv(FileEnvVar))

	_, err := LoadFromEnv()
	require.ErrorIs(t, err, ErrNoPolicyFile)
}

func TestBuildRetriesAndLimits(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	p, err := doc.Get("fetch")
	require.NoError(t, err)

	limit := 1
	p.Limit = &limit

	calls := 0
	f := decorate.Apply(func(_ context.Context, n int) (int, error) {
		calls++
		if calls < 3 {
			return 0, errFlaky
		}

		return n * 2, nil
	}, Build[int, int](p))

	out, err := f(t.Context(), 21)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, 3, calls, "retries happen inside the limiter")

	_, err = f(t.Context(), 21)
	require.ErrorIs(t, err, ampErrors.ErrCallLimitExceeded)
}

func TestBuildTimeoutPerAttempt(t *testing.T) {
	t.Parallel()

	p := Policy{
		Retry:   &Retry{Retries: 1},
		Timeout: 20 * time.Millisecond,
	}

	calls := 0
	f := decorate.Apply(func(ctx context.Context, _ int) (int, error) {
		calls++

		<-ctx.Done()

		return 0, ctx.Err()
	}, Build[int, int](p))

	_, err := f(t.Context(), 0)

	require.ErrorIs(t, err, ampErrors.ErrTimeout)
	assert.Equal(t, 2, calls)
}

func TestBuildAnnouncements(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	p, err := doc.Get("legacy")
	require.NoError(t, err)

	var buf bytes.Buffer

	f := decorate.ApplyNamed("old", func(context.Context, int) (int, error) {
		return 1, nil
	}, Build[int, int](p, WithWriter(&buf)))

	out, err := f(t.Context(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, out)
	assert.Contains(t, buf.String(), "DeprecationWarning: old(): use fetchV2")
	assert.Contains(t, buf.String(), "WorkInProgressWarning: old(): beta")
}

func TestBuildDeprecatedBlocksByDefault(t *testing.T) {
	t.Parallel()

	f := decorate.ApplyNamed("old", func(context.Context, int) (int, error) {
		return 1, nil
	}, Build[int, int](Policy{Deprecated: &Notice{Message: "gone"}}))

	_, err := f(t.Context(), 0)
	require.ErrorIs(t, err, ampErrors.ErrDeprecated)
}

func TestBuildSuppress(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	f := decorate.ApplyNamed("noisy", func(context.Context, int) (string, error) {
		return "", errFlaky
	}, Build[int, string](Policy{Suppress: true}, WithWriter(&buf)))

	out, err := f(t.Context(), 0)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, buf.String(), "Suppressed failure in noisy(): flaky")
}

func TestBuildTiming(t *testing.T) {
	t.Parallel()

	enabled := true

	var buf bytes.Buffer

	f := decorate.ApplyNamed("quick", func(context.Context, int) (int, error) {
		return 1, nil
	}, Build[int, int](Policy{Timing: &Timing{Enabled: &enabled, Times: 2}}, WithWriter(&buf)))

	_, err := f(t.Context(), 0)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Runtime of x2 quick")
}

func TestBuildEmptyPolicyIsIdentity(t *testing.T) {
	t.Parallel()

	f := decorate.ApplyNamed("plain", func(context.Context, int) (int, error) {
		return 7, nil
	}, Build[int, int](Policy{}))

	out, err := f(t.Context(), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, out)
}
