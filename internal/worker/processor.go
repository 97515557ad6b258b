package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"example.com/kiosk/internal/services"
	"example.com/kiosk/pkg/chat"
	"example.com/kiosk/pkg/queue"
)

// RequestProcessor handles one dequeued kiosk request
type RequestProcessor struct {
	backend  services.ChatBackend
	guidance *services.GuidanceService
	logger   *slog.Logger
}

// NewRequestProcessor creates a processor forwarding room selections to backend
func NewRequestProcessor(backend services.ChatBackend, guidance *services.GuidanceService, logger *slog.Logger) *RequestProcessor {
	return &RequestProcessor{
		backend:  backend,
		guidance: guidance,
		logger:   logger,
	}
}

// Process runs req and returns the payload for the request.completed event
func (p *RequestProcessor) Process(ctx context.Context, req *queue.Request) (map[string]interface{}, error) {
	switch req.Type {
	case queue.RequestTypeRoomSelection:
		return p.processRoomSelection(ctx, req)
	case queue.RequestTypeGuidance:
		return p.applyGuidance(ctx, req, req.Guidance)
	default:
		return nil, fmt.Errorf("unknown request type: %s", req.Type)
	}
}

func (p *RequestProcessor) processRoomSelection(ctx context.Context, req *queue.Request) (map[string]interface{}, error) {
	resp, err := p.backend.Chat(ctx, chat.ChatRequest{
		Message:  req.Message,
		Language: req.Language,
		Fixed:    false, // a room tap is a question for the backend to answer
		Name:     req.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("chat backend failed: %w", err)
	}

	result := map[string]interface{}{
		"room_id":  req.RoomID,
		"messages": resp.Messages,
	}
	if resp.Guidance == "" {
		return result, nil
	}

	applied, err := p.applyGuidance(ctx, req, resp.Guidance)
	if err != nil {
		return nil, err
	}
	for k, v := range applied {
		result[k] = v
	}
	return result, nil
}

func (p *RequestProcessor) applyGuidance(ctx context.Context, req *queue.Request, text string) (map[string]interface{}, error) {
	ds, resolved, err := p.guidance.Apply(ctx, req.KioskID, text)
	if err != nil {
		if errors.Is(err, services.ErrDisplayNotFound) {
			// display expired while the request was queued
			p.logger.Warn("Dropping guidance for unknown display",
				"request_id", req.RequestID,
				"kiosk_id", req.KioskID.String())
			return map[string]interface{}{"guidance": text, "resolved": false}, nil
		}
		return nil, fmt.Errorf("failed to apply guidance: %w", err)
	}

	result := map[string]interface{}{
		"guidance": text,
		"resolved": resolved,
	}
	if resolved {
		result["highlight"] = ds.Highlight
	}
	return result, nil
}
