package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"example.com/kiosk/internal/middleware"
	"example.com/kiosk/internal/services"
	"example.com/kiosk/internal/services/events"
	"example.com/kiosk/pkg/guidance"
	"example.com/kiosk/pkg/queue"
	"example.com/kiosk/pkg/storage"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// RequestEnqueuer puts work on the worker queue
type RequestEnqueuer interface {
	EnqueueRequest(ctx context.Context, req *queue.Request) error
}

// Deps are the collaborators the API needs
type Deps struct {
	Storage         storage.Storage
	Guidance        *services.GuidanceService
	Queue           RequestEnqueuer
	Broadcaster     *events.Broadcaster // optional
	RedisClient     *redis.Client       // SSE subscriptions
	PublicBaseURL   string
	DefaultLanguage guidance.Language
	Logger          *slog.Logger
}

// NewRouter configures all routes and returns the router
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)

	depther, _ := d.Queue.(QueueDepther)
	healthHandler := NewHealthHandler(d.Storage, depther, d.Guidance.Planner().Registry(), d.Logger)
	planHandler := NewPlanHandler(d.Guidance.Planner(), d.Logger)
	displayHandler := NewDisplayHandler(d, d.Logger)

	r.Method(http.MethodGet, "/health", healthHandler)
	r.Get("/plans", planHandler.PlanQuery)

	r.Route("/v1", func(r chi.Router) {
		r.Method(http.MethodGet, "/building", NewBuildingHandler(d.Guidance.Planner().Registry(), d.Logger))
		r.Post("/guidance/plan", planHandler.PlanBody)

		r.Post("/displays", displayHandler.Create)
		r.Route("/displays/{id}", func(r chi.Router) {
			r.Get("/", displayHandler.Get)
			r.Delete("/", displayHandler.Delete)
			r.Post("/guidance", displayHandler.ApplyGuidance)
			r.Post("/visitor", displayHandler.RegisterVisitor)
			r.Post("/rooms/{roomID}/select", displayHandler.SelectRoom)
			r.Get("/share", displayHandler.Share)
		})

		if d.RedisClient != nil {
			r.Method(http.MethodGet, "/events/displays/{id}", NewEventsHandler(d.RedisClient, d.Logger))
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, d.Logger, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, d.Logger, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}
