// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Timeout())
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "kscli.yaml", `
api:
  base_url: https://admin.kingdomseekers.org/api
  timeout: 15s
  rate_limit: 5
  burst: 2
storage:
  driver: postgres
  dsn: postgres://localhost/ks?sslmode=disable
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "https://admin.kingdomseekers.org/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	assert.Equal(t, 5.0, cfg.API.RateLimit)
	assert.Equal(t, 2, cfg.API.Burst)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "kscli", cfg.Telemetry.ServiceName)
}

func TestEnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "kscli.yaml", "api:\n  base_url: http://from-yaml/api\n")
	t.Setenv("KS_API_BASE_URL", "http://from-env/api")
	t.Setenv("KS_API_RATE_LIMIT", "2.5")
	t.Setenv("KS_STORAGE_PASSPHRASE", " s3cret ")

	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "http://from-env/api", cfg.API.BaseURL)
	assert.Equal(t, 2.5, cfg.API.RateLimit)
	assert.Equal(t, "s3cret", cfg.Storage.Passphrase)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	env := writeFile(t, ".env", "KS_OTEL_ENDPOINT=collector:4318\nKS_LOG_LEVEL=error\n")
	t.Setenv("KS_LOG_LEVEL", "info")
	t.Cleanup(func() { os.Unsetenv("KS_OTEL_ENDPOINT") })

	cfg, err := Load("", env)
	require.NoError(t, err)
	assert.Equal(t, "collector:4318", cfg.Telemetry.Endpoint)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		t.Setenv("KS_API_RATE_LIMIT", "fast")
		_, err := Load("", noEnvFile(t))
		assert.ErrorContains(t, err, "KS_API_RATE_LIMIT")
	})
	t.Run("driver", func(t *testing.T) {
		t.Setenv("KS_STORAGE_DRIVER", "mysql")
		_, err := Load("", noEnvFile(t))
		assert.ErrorContains(t, err, "storage.driver")
	})
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("KS_API_TIMEOUT", "soon")
		_, err := Load("", noEnvFile(t))
		assert.ErrorContains(t, err, "api.timeout")
	})
	t.Run("yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "api: [\n"), noEnvFile(t))
		assert.ErrorContains(t, err, "failed to parse config")
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kscli.yaml")
	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://10.0.0.5:8080/api"
	cfg.API.Timeout = "3s"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
