package telemetry

import (
	"os"
	"testing"
	"time"

	"github.com/amp-labs/amp-decorators/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearOTelEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"OTEL_ENABLED",
		"OTEL_SERVICE_NAME",
		"OTEL_SERVICE_VERSION",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
		"OTEL_EXPORTER_OTLP_LOGS_ENDPOINT",
		"OTEL_EXPORTER_OTLP_TIMEOUT",
		"KUBERNETES_SERVICE_HOST",
	} {
		// Setenv registers the restore; the variable itself must be unset
		// so defaults apply.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfigFromEnv_Endpoints(t *testing.T) { //nolint:paralleltest
	tests := []struct {
		name       string
		env        map[string]string
		wantTraces string
		wantLogs   string
	}{
		{
			name:       "kubernetes default",
			env:        map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"},
			wantTraces: kubernetesCollector,
			wantLogs:   kubernetesCollector,
		},
		{
			name: "nothing configured",
		},
		{
			name:       "shared base endpoint",
			env:        map[string]string{"OTEL_EXPORTER_OTLP_ENDPOINT": "http://collector:4318"},
			wantTraces: "http://collector:4318",
			wantLogs:   "http://collector:4318",
		},
		{
			name: "signal specific endpoints win",
			env: map[string]string{
				"KUBERNETES_SERVICE_HOST":            "10.0.0.1",
				"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT": "http://traces:4318",
				"OTEL_EXPORTER_OTLP_LOGS_ENDPOINT":   "http://logs:4318",
			},
			wantTraces: "http://traces:4318",
			wantLogs:   "http://logs:4318",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clearOTelEnv(t)

			for k, v := range test.env {
				t.Setenv(k, v)
			}

			config, err := LoadConfigFromEnv(t.Context(), "dev")
			require.NoError(t, err)

			assert.Equal(t, test.wantTraces, config.Endpoint)
			assert.Equal(t, test.wantLogs, config.LogsEndpoint)
		})
	}
}

func TestLoadConfigFromEnv_DefaultValues(t *testing.T) { //nolint:paralleltest
	clearOTelEnv(t)

	config, err := LoadConfigFromEnv(t.Context(), "test")
	require.NoError(t, err)

	assert.False(t, config.Enabled)
	assert.Equal(t, build.Version(), config.ServiceVersion)
	assert.Equal(t, "test", config.Environment)
	assert.Equal(t, defaultTimeout, config.Timeout)
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) { //nolint:paralleltest
	clearOTelEnv(t)
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "decorators-demo")
	t.Setenv("OTEL_EXPORTER_OTLP_TIMEOUT", "2s")

	config, err := LoadConfigFromEnv(t.Context(), "prod")
	require.NoError(t, err)

	assert.True(t, config.Enabled)
	assert.Equal(t, "decorators-demo", config.ServiceName)
	assert.Equal(t, 2*time.Second, config.Timeout)
}

func TestLoadConfigFromEnv_BadTimeout(t *testing.T) { //nolint:paralleltest
	clearOTelEnv(t)
	t.Setenv("OTEL_EXPORTER_OTLP_TIMEOUT", "soon")

	_, err := LoadConfigFromEnv(t.Context(), "prod")
	require.Error(t, err)
}

func TestInitializeDisabled(t *testing.T) { //nolint:paralleltest
	require.NoError(t, Initialize(t.Context(), &Config{Enabled: false}))
	require.NoError(t, Initialize(t.Context(), &Config{Enabled: true}))
	require.NoError(t, Shutdown(t.Context()))
}

func TestInitializeAndShutdown(t *testing.T) { //nolint:paralleltest
	config := &Config{
		ServiceName:  "decorators-test",
		Enabled:      true,
		Endpoint:     "http://127.0.0.1:4318",
		LogsEndpoint: "http://127.0.0.1:4318",
		Timeout:      100 * time.Millisecond,
	}

	require.NoError(t, Initialize(t.Context(), config))

	mu.Lock()
	assert.NotNil(t, tracerProvider)
	assert.NotNil(t, loggerProvider)
	mu.Unlock()

	// nothing was recorded so there is nothing to flush to the unreachable collector
	require.NoError(t, Shutdown(t.Context()))

	mu.Lock()
	assert.Nil(t, tracerProvider)
	mu.Unlock()
}
