// Package config provides configuration management for the gportal client.
//
// This package handles loading configuration from environment variables,
// validating settings, and providing sensible defaults for optional
// parameters. Configuration is loaded once at startup and remains immutable
// afterwards.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. External .env file in the working directory
//  3. Embedded defaults.env (lowest priority, included in binary)
package config

import (
	_ "embed"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"gportal/internal/errors"
)

// embeddedEnv contains defaults.env embedded at build time.
//
// It lets the binary run standalone against a local backend without
// any external .env file.
//
//go:embed defaults.env
var embeddedEnv string

// Config holds all client configuration.
type Config struct {
	// Backend and frontend addresses
	BaseURL     string // Base address of the grievance API
	FrontendURL string // Base address of the portal pages (browse command)

	// HTTP transport
	HTTPTimeout  time.Duration // 0 means the client never times a call out
	HTTPMaxConns int           // Idle connection pool size

	// UI feedback
	NotificationDuration time.Duration // How long a notification stays on screen

	// Request defaults
	SimilarityThreshold  float64 // Threshold sent with similarity checks
	NotificationLogLimit int     // Number of notification log entries requested

	// Batch lookups
	WorkerPoolSize int // Concurrent workers for multi-ID timeline/track lookups

	// Reminder watch loop
	WatchInterval   time.Duration // How often the reminder sweep is triggered
	HealthCheckPort string        // Port for the /health and /metrics server

	// ReminderStateFile remembers which reminders watch already announced
	ReminderStateFile string

	// Telegram digest (optional)
	TelegramBotToken string
	TelegramChatID   string
	SummaryImagePath string // Where the petition table PNG is written

	// DryRun simulates mutating officer calls without contacting the backend
	DryRun bool

	// Headless controls whether the browse command hides the browser window
	Headless bool

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json or console
}

// LoadConfig loads configuration from environment variables with defaults.
//
// Loading process:
//  1. Parse embedded defaults.env and set as fallback environment variables
//  2. Try to load external .env file (does not override existing values)
//  3. Read environment variables and apply hard-coded defaults
//  4. Validate the result
func LoadConfig() (*Config, error) {
	if envMap, err := godotenv.Unmarshal(embeddedEnv); err == nil {
		for k, v := range envMap {
			// Only set if not already in environment (env vars take precedence)
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:     getEnvOrDefault("API_BASE_URL", "http://localhost:8000"),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5500"),

		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", 0),
		HTTPMaxConns: getEnvInt("HTTP_MAX_CONNS", 100),

		NotificationDuration: getEnvDuration("NOTIFICATION_DURATION", 3*time.Second),

		SimilarityThreshold:  getEnvFloat("SIMILARITY_THRESHOLD", 0.8),
		NotificationLogLimit: getEnvInt("NOTIFICATION_LOG_LIMIT", 50),

		WorkerPoolSize: getEnvInt("WORKER_POOL_SIZE", 5),

		WatchInterval:   getEnvDuration("WATCH_INTERVAL", time.Hour),
		HealthCheckPort: getEnvOrDefault("HEALTH_CHECK_PORT", "8080"),

		ReminderStateFile: getEnvOrDefault("REMINDER_STATE_FILE", "reminders_seen.csv"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		SummaryImagePath: getEnvOrDefault("SUMMARY_IMAGE_PATH", "petitions.png"),

		DryRun:   getEnvBool("DRY_RUN", false),
		Headless: getEnvBool("HEADLESS", true),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that addresses parse and numeric values are sensible.
func (c *Config) Validate() error {
	if err := validateURL("API_BASE_URL", c.BaseURL); err != nil {
		return err
	}
	if err := validateURL("FRONTEND_URL", c.FrontendURL); err != nil {
		return err
	}

	if c.HTTPTimeout < 0 {
		return errors.NewConfigError("HTTP_TIMEOUT", "must not be negative")
	}
	if c.HTTPMaxConns < 1 {
		return errors.NewConfigError("HTTP_MAX_CONNS", "must be at least 1")
	}
	if c.NotificationDuration <= 0 {
		return errors.NewConfigError("NOTIFICATION_DURATION", "must be positive")
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return errors.NewConfigError("SIMILARITY_THRESHOLD", "must be in (0, 1]")
	}
	if c.NotificationLogLimit < 1 {
		return errors.NewConfigError("NOTIFICATION_LOG_LIMIT", "must be at least 1")
	}
	if c.WorkerPoolSize < 1 {
		return errors.NewConfigError("WORKER_POOL_SIZE", "must be at least 1")
	}
	if c.WatchInterval < time.Second {
		return errors.NewConfigError("WATCH_INTERVAL", "must be at least 1s")
	}

	return nil
}

// TelegramEnabled reports whether both Telegram settings are present.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

func validateURL(key, raw string) error {
	if raw == "" {
		return errors.NewConfigError(key, "cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.NewConfigError(key, "must be an absolute URL, got "+strconv.Quote(raw))
	}
	return nil
}

// Helper functions for environment variable parsing

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an integer or a default if not set/invalid
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default if not set/invalid.
//
// Accepts standard Go duration strings like "5s", "10m", "1h30m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
