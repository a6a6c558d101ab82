package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer string // Issuer claim for tokens (default: bookvault)

	DatabaseFile string // Path to SQLite database file (default: ./bookvault.db)
	PepperFile   string // Path to pepper file for password hashing (default: ./pepper)
	TokenKeyFile string // Optional: PEM file with the Ed25519 signing key; ephemeral when unset
	TokenTTL     time.Duration

	LockoutThreshold int           // Failed logins before lockout (default: 5)
	LockoutWindow    time.Duration // Lockout window (default: 300s)

	SentryDSN string // Optional: error reporting disabled when unset

	Env                  string // Environment (dev, staging, prod) (default: dev)
	LogLevel             string // Log level (debug, info, warn, error) (default: info)
	LogFormat            string // Log format (json, text) (default: json)
	Port                 int    // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration
	HousekeepingInterval time.Duration
}

// LoadConfig reads configuration from the environment, with an optional .env
// file for local development.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Issuer:               getEnvOrDefault("ISSUER", "bookvault"),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "bookvault.db"),
		PepperFile:           getEnvOrDefault("PEPPER_FILE", "pepper"),
		TokenKeyFile:         os.Getenv("TOKEN_KEY_FILE"),
		TokenTTL:             getEnvDurationOrDefault("TOKEN_TTL", 60*time.Minute),
		LockoutThreshold:     getEnvIntOrDefault("LOCKOUT_THRESHOLD", 5),
		LockoutWindow:        getEnvDurationOrDefault("LOCKOUT_WINDOW", 300*time.Second),
		SentryDSN:            os.Getenv("SENTRY_DSN"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// "5m", "300s" style
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are taken as seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
