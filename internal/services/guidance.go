package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"example.com/kiosk/pkg/guidance"
	"example.com/kiosk/pkg/state"
	"example.com/kiosk/pkg/storage"
	"github.com/google/uuid"
)

// ErrDisplayNotFound is returned when a kiosk display id is unknown or was
// deleted while guidance was being applied.
var ErrDisplayNotFound = storage.ErrDisplayNotFound

// GuidancePublisher announces display changes to connected kiosks
type GuidancePublisher interface {
	PublishGuidanceUpdated(ctx context.Context, ds *state.DisplayState) error
	PublishGuidanceUnresolved(ctx context.Context, kioskID uuid.UUID, guidance string) error
}

// GuidanceService applies wayfinding instructions to stored kiosk displays.
// Shared by the HTTP handlers and the queue worker.
type GuidanceService struct {
	storage   storage.Storage
	planner   *guidance.Planner
	publisher GuidancePublisher
	logger    *slog.Logger
}

// NewGuidanceService creates a guidance service; publisher may be nil
func NewGuidanceService(s storage.Storage, planner *guidance.Planner, publisher GuidancePublisher, logger *slog.Logger) *GuidanceService {
	return &GuidanceService{
		storage:   s,
		planner:   planner,
		publisher: publisher,
		logger:    logger,
	}
}

// Planner returns the planner used to resolve instructions
func (s *GuidanceService) Planner() *guidance.Planner {
	return s.planner
}

// Apply plans text for a display and stores text as its latest guidance. When the
// text resolves, the new route replaces the stored one and resolved is true.
// Otherwise highlight, path and query stay as they were.
func (s *GuidanceService) Apply(ctx context.Context, kioskID uuid.UUID, text string) (ds *state.DisplayState, resolved bool, err error) {
	ds, err = s.storage.LoadDisplay(ctx, kioskID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load display: %w", err)
	}
	if ds == nil {
		return nil, false, ErrDisplayNotFound
	}

	route, err := s.planner.PlanText(text)
	switch {
	case err == nil:
		ds.ApplyRoute(text, route)
		resolved = true
	case errors.Is(err, guidance.ErrNoTarget):
		if strings.TrimSpace(text) == "" {
			return ds, false, nil
		}
		ds.Guidance = text
	default:
		return nil, false, fmt.Errorf("failed to plan guidance: %w", err)
	}

	if err := s.storage.UpdateDisplay(ctx, kioskID, ds); err != nil {
		if errors.Is(err, storage.ErrDisplayNotFound) {
			return nil, false, ErrDisplayNotFound
		}
		return nil, false, fmt.Errorf("failed to save display: %w", err)
	}

	log := s.logger.With("kiosk_id", kioskID.String())
	if !resolved {
		log.Debug("Guidance did not resolve, keeping route", "guidance", text)
		if s.publisher != nil {
			if pubErr := s.publisher.PublishGuidanceUnresolved(ctx, kioskID, text); pubErr != nil {
				log.Error("Failed to publish unresolved guidance", "error", pubErr)
			}
		}
		return ds, false, nil
	}

	log.Info("Display guidance updated", "highlight", ds.Highlight, "points", len(ds.Path))
	if s.publisher != nil {
		if pubErr := s.publisher.PublishGuidanceUpdated(ctx, ds); pubErr != nil {
			log.Error("Failed to publish guidance update", "error", pubErr)
		}
	}
	return ds, true, nil
}
