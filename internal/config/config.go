package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"example.com/kiosk/pkg/guidance"
)

type Config struct {
	Port            string
	Environment     string
	LogLevel        slog.Level
	RedisURL        string
	BuildingFile    string // empty selects the built-in floor plan
	ChatBackendURL  string
	PublicBaseURL   string
	DisplayTTL      time.Duration
	WorkerID        string
	DefaultLanguage guidance.Language
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("DISPLAY_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid DISPLAY_TTL: must be positive, got %s", ttl)
	}

	lang, err := guidance.ParseLanguage(getEnv("DEFAULT_LANGUAGE", "fr"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_LANGUAGE: %w", err)
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		BuildingFile:    os.Getenv("BUILDING_FILE"),
		ChatBackendURL:  strings.TrimRight(getEnv("CHAT_BACKEND_URL", "http://localhost:3000"), "/"),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		DisplayTTL:      ttl,
		WorkerID:        os.Getenv("WORKER_ID"),
		DefaultLanguage: lang,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
