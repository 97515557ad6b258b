package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"example.com/kiosk/pkg/building"
)

const healthTimeout = 2 * time.Second

type HealthResponse struct {
	Status     string         `json:"status"`
	Timestamp  time.Time      `json:"timestamp"`
	Service    string         `json:"service"`
	Components map[string]any `json:"components"`
}

// Pinger is anything whose connectivity can be checked
type Pinger interface {
	Ping(ctx context.Context) error
}

// QueueDepther reports how many requests wait for a worker
type QueueDepther interface {
	RequestQueueDepth(ctx context.Context) (int, error)
}

// HealthHandler reports on display storage, the request queue and the loaded building.
// The queue and building are optional.
type HealthHandler struct {
	storage  Pinger
	queue    QueueDepther
	registry *building.Registry
	logger   *slog.Logger
}

func NewHealthHandler(storage Pinger, queue QueueDepther, registry *building.Registry, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		storage:  storage,
		queue:    queue,
		registry: registry,
		logger:   logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now(),
		Service:    "kiosk",
		Components: make(map[string]any),
	}

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Warn("Display storage unreachable", "error", err)
		resp.Components["storage"] = "unhealthy"
		resp.Status = "degraded"
	} else {
		resp.Components["storage"] = "healthy"
	}

	if h.queue != nil {
		depth, err := h.queue.RequestQueueDepth(ctx)
		if err != nil {
			h.logger.Warn("Request queue unreachable", "error", err)
			resp.Components["queue"] = map[string]any{"status": "unhealthy"}
			resp.Status = "degraded"
		} else {
			resp.Components["queue"] = map[string]any{"status": "healthy", "pending": depth}
		}
	}

	if h.registry != nil {
		resp.Components["building"] = map[string]any{
			"floors": len(h.registry.Floors()),
			"rooms":  len(h.registry.Rooms()),
		}
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, h.logger, status, resp)
}
