package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConcurrentFirstCall(t *testing.T) {
	t.Setenv("JWT_SECRET", "load-test-secret")
	t.Setenv("APP_PORT", "7777")

	const callers = 16
	results := make([]AppConfig, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = Load()
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, "load-test-secret", got.JWTSecret)
		require.Equal(t, "7777", got.AppPort)
	}

	// Later calls keep returning the cached snapshot.
	t.Setenv("APP_PORT", "8888")
	assert.Equal(t, "7777", Get().AppPort)
}

func TestApplyDefaults(t *testing.T) {
	var cfg AppConfig
	applyDefaults(&cfg)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, 6379, cfg.RedisPort)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisHost)
}

func TestApplyDefaultsKeepsExisting(t *testing.T) {
	cfg := AppConfig{AppPort: "9000", GinMode: "debug"}
	applyDefaults(&cfg)

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "debug", cfg.GinMode)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	var cfg AppConfig
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	assert.Equal(t, "9999", cfg.AppPort)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestApplyEnvOverridesIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg := AppConfig{RateLimitPerMinute: 60}
	applyEnvOverrides(&cfg)

	assert.Equal(t, 60, cfg.RateLimitPerMinute)
}
