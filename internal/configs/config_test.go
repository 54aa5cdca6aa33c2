package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Rest.Port)
	assert.Equal(t, []string{"*"}, cfg.Rest.AllowedOrigins)
	assert.Equal(t, "https://cms.anjia.co.ug/wp-json", cfg.CMS.PrimaryURL)
	assert.Equal(t, "http://cms.anjia.co.ug/wp-json", cfg.CMS.MirrorURL)
	assert.Equal(t, 5*time.Second, cfg.CMS.ListingTimeout)
	assert.Equal(t, 15*time.Second, cfg.CMS.ItemTimeout)
	assert.Equal(t, 1, cfg.CMS.RetryMax)
	assert.Equal(t, 500*time.Millisecond, cfg.CMS.RetryBaseDelay)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.ItemTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ListingTTL)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "/images/property-placeholder.jpg", cfg.PlaceholderImage)
	assert.False(t, cfg.FluentBit.Enabled)
	assert.Equal(t, "debug", cfg.StdoutLogger.Level)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "HTTP_PORT=9090\n" +
		"LISTING_TIMEOUT=2s\n" +
		"CACHE_BACKEND=Redis\n" +
		"CORS_ALLOWED_ORIGINS=https://anjia.co.ug, ,https://www.anjia.co.ug\n" +
		"RABBITMQ_ENABLED=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv never overrides variables that are already set
	for _, k := range []string{"HTTP_PORT", "LISTING_TIMEOUT", "CACHE_BACKEND", "CORS_ALLOWED_ORIGINS", "RABBITMQ_ENABLED"} {
		k := k
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Rest.Port)
	assert.Equal(t, 2*time.Second, cfg.CMS.ListingTimeout)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, []string{"https://anjia.co.ug", "https://www.anjia.co.ug"}, cfg.Rest.AllowedOrigins)
	assert.True(t, cfg.RabbitMQ.Enabled)
}

func TestLoadConfig_RejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := LoadConfig(missingEnvFile(t))
	assert.Error(t, err)
}

func TestLoadConfig_FluentWithoutHostIsDisabled(t *testing.T) {
	t.Setenv("FLUENTBIT_ENABLED", "true")
	t.Setenv("FLUENTBIT_HOST", "")

	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)
	assert.False(t, cfg.FluentBit.Enabled)
}

func TestGetEnvHelpers_FallBackOnBadValues(t *testing.T) {
	t.Setenv("TEST_INT", "twelve")
	t.Setenv("TEST_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "-5s")
	t.Setenv("TEST_SLICE", " , ")

	assert.Equal(t, 7, getEnvAsInt("TEST_INT", 7))
	assert.True(t, getEnvAsBool("TEST_BOOL", true))
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_DURATION", time.Second))
	assert.Equal(t, []string{"a"}, getEnvAsStringSlice("TEST_SLICE", []string{"a"}))
}

func TestGetEnvHelpers_ParseValues(t *testing.T) {
	t.Setenv("TEST_INT", " 42 ")
	t.Setenv("TEST_DURATION", "1m30s")

	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 0))
	assert.Equal(t, 90*time.Second, getEnvAsDuration("TEST_DURATION", 0))
	assert.Equal(t, "fallback", getEnvAsString("TEST_UNSET_STRING_KEY", "fallback"))
}
