package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"example.com/kiosk/pkg/building"
	"example.com/kiosk/pkg/guidance"
)

// PlanRequest is the body of POST /v1/guidance/plan
type PlanRequest struct {
	Guidance string `json:"guidance"`
}

// PlanResponse describes a stateless plan. Resolved is false when the
// instruction names no reachable room; the other fields are then empty.
type PlanResponse struct {
	Guidance  string           `json:"guidance"`
	Resolved  bool             `json:"resolved"`
	Query     guidance.Query   `json:"query"`
	Highlight string           `json:"highlight,omitempty"`
	Room      *building.Room   `json:"room,omitempty"`
	Path      []building.Point `json:"path,omitempty"`
	Points    []float64        `json:"points,omitempty"`
}

// PlanHandler parses and plans instructions without touching any display
type PlanHandler struct {
	planner *guidance.Planner
	logger  *slog.Logger
}

func NewPlanHandler(planner *guidance.Planner, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		planner: planner,
		logger:  logger,
	}
}

// PlanQuery handles GET /plans?guidance=..., the page the kiosk QR code points at
func (h *PlanHandler) PlanQuery(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r.URL.Query().Get("guidance"))
}

// PlanBody handles POST /v1/guidance/plan
func (h *PlanHandler) PlanBody(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid plan request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	h.respond(w, req.Guidance)
}

func (h *PlanHandler) respond(w http.ResponseWriter, text string) {
	resp := PlanResponse{
		Guidance: text,
		Query:    guidance.Parse(text),
	}

	route, err := h.planner.Plan(resp.Query)
	switch {
	case errors.Is(err, guidance.ErrNoTarget):
		// unresolved is an answer, not a failure
	case err != nil:
		h.logger.Error("Failed to plan guidance", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to plan guidance")
		return
	default:
		room := route.Room
		resp.Resolved = true
		resp.Highlight = route.Highlight
		resp.Room = &room
		resp.Path = route.Path
		resp.Points = route.Flatten()
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
