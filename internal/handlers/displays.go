package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"example.com/kiosk/internal/logger"
	"example.com/kiosk/internal/services"
	"example.com/kiosk/pkg/guidance"
	"example.com/kiosk/pkg/queue"
	"example.com/kiosk/pkg/state"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateDisplayRequest is the optional body of POST /v1/displays
type CreateDisplayRequest struct {
	Language string `json:"language,omitempty"`
}

// GuidanceRequest is the body of POST /v1/displays/{id}/guidance
type GuidanceRequest struct {
	Guidance string `json:"guidance"`
}

// VisitorRequest is the body of POST /v1/displays/{id}/visitor
type VisitorRequest struct {
	Location string `json:"location,omitempty"`
	Contact  string `json:"contact,omitempty"`
}

// GuidanceResponse reports whether the instruction changed the display
type GuidanceResponse struct {
	Resolved bool                `json:"resolved"`
	Display  *state.DisplayState `json:"display"`
}

// SelectRoomRequest is the optional body of POST /v1/displays/{id}/rooms/{roomID}/select
type SelectRoomRequest struct {
	Language string `json:"language,omitempty"`
	Name     string `json:"name,omitempty"`
}

// SelectRoomResponse acknowledges a queued room selection
type SelectRoomResponse struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}

// ShareResponse carries the link shown as a QR code
type ShareResponse struct {
	URL      string `json:"url"`
	Guidance string `json:"guidance"`
}

// DisplayHandler manages kiosk floor-plan displays
type DisplayHandler struct {
	deps   Deps
	logger *slog.Logger
}

func NewDisplayHandler(deps Deps, logger *slog.Logger) *DisplayHandler {
	if deps.DefaultLanguage == "" {
		deps.DefaultLanguage = guidance.LanguageFrench
	}
	return &DisplayHandler{
		deps:   deps,
		logger: logger,
	}
}

// Create handles POST /v1/displays
func (h *DisplayHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDisplayRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	lang, ok := h.language(w, req.Language, h.deps.DefaultLanguage)
	if !ok {
		return
	}

	ds := state.NewDisplayState(lang)
	if err := h.deps.Storage.SaveDisplay(r.Context(), ds.ID, ds); err != nil {
		logger.WithKiosk(h.logger, ds.ID).Error("Failed to save display", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create display")
		return
	}

	logger.WithKiosk(h.logger, ds.ID).Info("Display created", "language", lang)
	writeJSON(w, h.logger, http.StatusCreated, ds)
}

// Get handles GET /v1/displays/{id}
func (h *DisplayHandler) Get(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, ds)
}

// Delete handles DELETE /v1/displays/{id}
func (h *DisplayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.deps.Storage.DeleteDisplay(r.Context(), ds.ID); err != nil {
		logger.WithKiosk(h.logger, ds.ID).Error("Failed to delete display", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete display")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyGuidance handles POST /v1/displays/{id}/guidance
func (h *DisplayHandler) ApplyGuidance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.displayID(w, r)
	if !ok {
		return
	}

	var req GuidanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	h.apply(w, r, id, req.Guidance)
}

// RegisterVisitor handles POST /v1/displays/{id}/visitor: a registered visitor's
// meeting place becomes the display guidance, in the display language.
func (h *DisplayHandler) RegisterVisitor(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}

	var req VisitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	text := guidance.ComposeGuidance(ds.Language, req.Location, req.Contact)
	if text == "" {
		writeError(w, h.logger, http.StatusBadRequest, "location or contact is required")
		return
	}

	h.apply(w, r, ds.ID, text)
}

func (h *DisplayHandler) apply(w http.ResponseWriter, r *http.Request, id uuid.UUID, text string) {
	ds, resolved, err := h.deps.Guidance.Apply(r.Context(), id, text)
	if err != nil {
		if errors.Is(err, services.ErrDisplayNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Display not found")
			return
		}
		logger.WithKiosk(h.logger, id).Error("Failed to apply guidance", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to apply guidance")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, GuidanceResponse{Resolved: resolved, Display: ds})
}

// SelectRoom handles POST /v1/displays/{id}/rooms/{roomID}/select. The chat
// message is queued for the worker; the response does not wait for the backend.
func (h *DisplayHandler) SelectRoom(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}

	roomID := chi.URLParam(r, "roomID")
	room, found := h.deps.Guidance.Planner().Registry().Room(roomID)
	if !found {
		writeError(w, h.logger, http.StatusNotFound, "Room not found")
		return
	}

	var req SelectRoomRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	lang, ok := h.language(w, req.Language, ds.Language)
	if !ok {
		return
	}

	message := guidance.RoomSelectionMessage(lang, room.Label, ds.Guidance)

	qreq := queue.NewRequest(queue.RequestTypeRoomSelection, ds.ID)
	qreq.RoomID = room.ID
	qreq.Message = message
	qreq.Language = string(lang)
	qreq.Name = strings.TrimSpace(req.Name)

	if err := h.deps.Queue.EnqueueRequest(r.Context(), qreq); err != nil {
		logger.WithKiosk(h.logger, ds.ID).Error("Failed to enqueue room selection", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to queue room selection")
		return
	}

	if b := h.deps.Broadcaster; b != nil {
		if err := b.PublishRoomSelected(r.Context(), ds.ID, qreq.RequestID, room.ID, room.Label, message); err != nil {
			h.logger.Error("Failed to publish room selection", "error", err)
		}
		if err := b.PublishRequestQueued(r.Context(), ds.ID, qreq.RequestID, string(qreq.Type)); err != nil {
			h.logger.Error("Failed to publish queued event", "error", err)
		}
	}

	logger.WithRoom(logger.WithKiosk(h.logger, ds.ID), room.ID, room.Label).Info("Room selected",
		"request_id", qreq.RequestID)

	writeJSON(w, h.logger, http.StatusAccepted, SelectRoomResponse{
		RequestID: qreq.RequestID,
		Message:   message,
	})
}

// Share handles GET /v1/displays/{id}/share
func (h *DisplayHandler) Share(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, ShareResponse{
		URL:      guidance.ShareURL(h.deps.PublicBaseURL, ds.Guidance),
		Guidance: ds.Guidance,
	})
}

func (h *DisplayHandler) displayID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Warn("Invalid display ID", "id", chi.URLParam(r, "id"), "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid display ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *DisplayHandler) load(w http.ResponseWriter, r *http.Request) (*state.DisplayState, bool) {
	id, ok := h.displayID(w, r)
	if !ok {
		return nil, false
	}

	ds, err := h.deps.Storage.LoadDisplay(r.Context(), id)
	if err != nil {
		logger.WithKiosk(h.logger, id).Error("Failed to load display", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load display")
		return nil, false
	}
	if ds == nil {
		writeError(w, h.logger, http.StatusNotFound, "Display not found")
		return nil, false
	}
	return ds, true
}

// language parses tag, falling back to def when it is empty
func (h *DisplayHandler) language(w http.ResponseWriter, tag string, def guidance.Language) (guidance.Language, bool) {
	if tag == "" {
		return def, true
	}
	lang, err := guidance.ParseLanguage(tag)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return "", false
	}
	return lang, true
}

// decodeOptional decodes a JSON body that may be absent
func decodeOptional(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
