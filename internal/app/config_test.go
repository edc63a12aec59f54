package app

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("CSRF_SECRET", "csrf")
}

func TestLoadConfigDefaults(t *testing.T) {
	setSecrets(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "https://samlap.onrender.com/api", cfg.APIBaseURL)
	assert.Equal(t, 20*time.Second, cfg.APITimeout)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, "*/15 * * * *", cfg.WarmupCron)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis().Addr)
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "csrf")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("CSRF_SECRET", "")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigNormalisesAPIBase(t *testing.T) {
	setSecrets(t)

	t.Setenv("API_BASE_URL", " http://localhost:8000/api/ ")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)

	t.Setenv("API_BASE_URL", "/api")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, &Config{AppEnv: "production", LogFormat: "json"}).Info("ready")
	assert.Contains(t, buf.String(), `"msg":"ready"`)

	buf.Reset()
	logger := newLogger(&buf, &Config{AppEnv: "production"})
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestRefreshTestMode(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	assert.True(t, InTestMode())

	t.Setenv(testModeEnv, "")
	RefreshTestMode()
	assert.False(t, InTestMode())
}
