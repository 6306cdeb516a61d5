package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port           int
	BskyServiceURL string
	LoginTimeout   time.Duration
}

// Load reads configuration from the environment, loading a local .env file
// first if one exists.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env file")
	}

	zerolog.SetGlobalLevel(logLevel())

	return &Config{
		Port:           getInt("PORT", 8080),
		BskyServiceURL: getString("BSKY_SERVICE_URL", ""),
		LoginTimeout:   getDuration("LOGIN_TIMEOUT", 10*time.Second),
	}
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Msg("Ignoring unparseable integer env var")
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Msg("Ignoring unparseable duration env var")
	}
	return fallback
}

func logLevel() zerolog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
