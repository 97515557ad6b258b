package logger

import (
	"io"
	"log/slog"
	"os"

	"example.com/kiosk/internal/config"
	"github.com/google/uuid"
)

// Setup builds the process logger for one kiosk service ("api", "worker")
// and installs it as the slog default.
func Setup(cfg *config.Config, service string) *slog.Logger {
	l := New(os.Stdout, cfg, service)
	slog.SetDefault(l)
	return l
}

// New writes JSON in production and text everywhere else.
func New(w io.Writer, cfg *config.Config, service string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Environment == "production" {
		h = slog.NewJSONHandler(w, opts)
	}

	l := slog.New(h).With("service", service)
	if cfg.WorkerID != "" && service == "worker" {
		l = l.With("worker_id", cfg.WorkerID)
	}
	return l
}

func WithRequestID(l *slog.Logger, requestID string) *slog.Logger {
	return l.With("request_id", requestID)
}

// WithKiosk tags entries with the display they concern.
func WithKiosk(l *slog.Logger, kioskID uuid.UUID) *slog.Logger {
	return l.With("kiosk_id", kioskID.String())
}

// WithRoom groups the room fields under "room".
func WithRoom(l *slog.Logger, roomID, label string) *slog.Logger {
	return l.With(slog.Group("room", "id", roomID, "label", label))
}
