package handlers

import (
	"log/slog"
	"net/http"

	"example.com/kiosk/pkg/building"
)

// BuildingHandler serves the floor and room table kiosks draw
type BuildingHandler struct {
	registry *building.Registry
	logger   *slog.Logger
}

func NewBuildingHandler(registry *building.Registry, logger *slog.Logger) *BuildingHandler {
	return &BuildingHandler{
		registry: registry,
		logger:   logger,
	}
}

// ServeHTTP handles GET /v1/building
func (h *BuildingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.registry)
}
