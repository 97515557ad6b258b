package config

import (
	"log/slog"
	"testing"
	"time"

	"example.com/kiosk/pkg/guidance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "LOG_LEVEL", "REDIS_URL", "BUILDING_FILE",
		"CHAT_BACKEND_URL", "PUBLIC_BASE_URL", "DISPLAY_TTL", "WORKER_ID", "DEFAULT_LANGUAGE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Empty(t, cfg.BuildingFile)
	assert.Equal(t, "http://localhost:3000", cfg.ChatBackendURL)
	assert.Equal(t, 12*time.Hour, cfg.DisplayTTL)
	assert.Equal(t, guidance.LanguageFrench, cfg.DefaultLanguage)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CHAT_BACKEND_URL", "http://backend:3000/")
	t.Setenv("DISPLAY_TTL", "30m")
	t.Setenv("DEFAULT_LANGUAGE", "ar")
	t.Setenv("BUILDING_FILE", "/etc/kiosk/building.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "http://backend:3000", cfg.ChatBackendURL)
	assert.Equal(t, 30*time.Minute, cfg.DisplayTTL)
	assert.Equal(t, guidance.LanguageArabic, cfg.DefaultLanguage)
	assert.Equal(t, "/etc/kiosk/building.yaml", cfg.BuildingFile)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad ttl", key: "DISPLAY_TTL", value: "soon"},
		{name: "negative ttl", key: "DISPLAY_TTL", value: "-1h"},
		{name: "unsupported language", key: "DEFAULT_LANGUAGE", value: "de"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}
