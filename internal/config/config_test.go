package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gportal/internal/errors"
)

// withoutEmbedded clears the embedded defaults for the duration of a test
// so only the values set by the test are visible.
func withoutEmbedded(t *testing.T) {
	t.Helper()
	orig := embeddedEnv
	embeddedEnv = ""
	t.Cleanup(func() { embeddedEnv = orig })
}

func TestLoadConfigDefaults(t *testing.T) {
	withoutEmbedded(t)
	for _, key := range []string{"API_BASE_URL", "HTTP_TIMEOUT", "NOTIFICATION_DURATION", "SIMILARITY_THRESHOLD", "WORKER_POOL_SIZE", "DRY_RUN", "HEADLESS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout)
	assert.Equal(t, 3*time.Second, cfg.NotificationDuration)
	assert.Equal(t, 0.8, cfg.SimilarityThreshold)
	assert.Equal(t, 5, cfg.WorkerPoolSize)
	assert.False(t, cfg.DryRun)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoadConfigFromEnv(t *testing.T) {
	withoutEmbedded(t)
	t.Setenv("API_BASE_URL", "https://grievance.example.gov")
	t.Setenv("HTTP_TIMEOUT", "15s")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://grievance.example.gov", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoadConfigInvalid(t *testing.T) {
	withoutEmbedded(t)
	t.Setenv("API_BASE_URL", "not a url")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestEmbeddedDefaultsParse(t *testing.T) {
	assert.Contains(t, embeddedEnv, "API_BASE_URL=")
}

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "env var set",
			key:          "GPORTAL_TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env var not set",
			key:          "GPORTAL_NONEXISTENT_VAR",
			defaultValue: "default",
			envValue:     "",
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}
			assert.Equal(t, tt.expected, getEnvOrDefault(tt.key, tt.defaultValue))
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		expected     int
	}{
		{"valid int", "GPORTAL_TEST_INT", 10, "25", 25},
		{"invalid int uses default", "GPORTAL_TEST_INT_INVALID", 10, "notanumber", 10},
		{"empty uses default", "GPORTAL_TEST_INT_EMPTY", 10, "", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}
			assert.Equal(t, tt.expected, getEnvInt(tt.key, tt.defaultValue))
		})
	}
}

func TestGetEnvFloatAndBool(t *testing.T) {
	t.Setenv("GPORTAL_TEST_FLOAT", "0.65")
	t.Setenv("GPORTAL_TEST_BOOL", "yes")

	assert.Equal(t, 0.65, getEnvFloat("GPORTAL_TEST_FLOAT", 0.8))
	// "yes" is not a strconv bool
	assert.True(t, getEnvBool("GPORTAL_TEST_BOOL", true))
	assert.False(t, getEnvBool("GPORTAL_TEST_BOOL", false))
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BaseURL:              "http://localhost:8000",
			FrontendURL:          "http://localhost:5500",
			HTTPMaxConns:         10,
			NotificationDuration: time.Second,
			SimilarityThreshold:  0.8,
			NotificationLogLimit: 50,
			WorkerPoolSize:       2,
			WatchInterval:        time.Minute,
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		expectErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"empty base url", func(c *Config) { c.BaseURL = "" }, true},
		{"relative frontend url", func(c *Config) { c.FrontendURL = "/pages" }, true},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -time.Second }, true},
		{"threshold above one", func(c *Config) { c.SimilarityThreshold = 1.5 }, true},
		{"zero workers", func(c *Config) { c.WorkerPoolSize = 0 }, true},
		{"watch interval too short", func(c *Config) { c.WatchInterval = time.Millisecond }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
