package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"example.com/kiosk/pkg/state"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeGuidanceUpdated    EventType = "guidance.updated"
	EventTypeGuidanceUnresolved EventType = "guidance.unresolved"
	EventTypeRoomSelected       EventType = "room.selected"
	EventTypeRequestQueued      EventType = "request.queued"
	EventTypeRequestCompleted   EventType = "request.completed"
	EventTypeRequestFailed      EventType = "request.failed"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType              `json:"type"`
	RequestID string                 `json:"request_id,omitempty"`
	KioskID   string                 `json:"kiosk_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Channel is the pub/sub channel of one kiosk display
func Channel(kioskID uuid.UUID) string {
	return fmt.Sprintf("kiosk-events:%s", kioskID.String())
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishGuidanceUpdated announces a newly resolved route
func (b *Broadcaster) PublishGuidanceUpdated(ctx context.Context, ds *state.DisplayState) error {
	event := Event{
		Type:    EventTypeGuidanceUpdated,
		KioskID: ds.ID.String(),
		Data: map[string]interface{}{
			"guidance":  ds.Guidance,
			"highlight": ds.Highlight,
			"points":    ds.Points,
		},
	}
	return b.publishToKiosk(ctx, ds.ID, event)
}

// PublishGuidanceUnresolved reports guidance that did not change the display
func (b *Broadcaster) PublishGuidanceUnresolved(ctx context.Context, kioskID uuid.UUID, guidance string) error {
	event := Event{
		Type:    EventTypeGuidanceUnresolved,
		KioskID: kioskID.String(),
		Data: map[string]interface{}{
			"guidance": guidance,
		},
	}
	return b.publishToKiosk(ctx, kioskID, event)
}

// PublishRoomSelected publishes a room.selected event
func (b *Broadcaster) PublishRoomSelected(ctx context.Context, kioskID uuid.UUID, requestID, roomID, label, message string) error {
	event := Event{
		Type:      EventTypeRoomSelected,
		RequestID: requestID,
		KioskID:   kioskID.String(),
		Data: map[string]interface{}{
			"room_id": roomID,
			"label":   label,
			"message": message,
		},
	}
	return b.publishToKiosk(ctx, kioskID, event)
}

// PublishRequestQueued publishes a request.queued event
func (b *Broadcaster) PublishRequestQueued(ctx context.Context, kioskID uuid.UUID, requestID string, requestType string) error {
	event := Event{
		Type:      EventTypeRequestQueued,
		RequestID: requestID,
		KioskID:   kioskID.String(),
		Data: map[string]interface{}{
			"status": "queued",
			"type":   requestType,
		},
	}
	return b.publishToKiosk(ctx, kioskID, event)
}

// PublishRequestCompleted publishes a request.completed event
func (b *Broadcaster) PublishRequestCompleted(ctx context.Context, kioskID uuid.UUID, requestID string, result map[string]interface{}) error {
	event := Event{
		Type:      EventTypeRequestCompleted,
		RequestID: requestID,
		KioskID:   kioskID.String(),
		Data: map[string]interface{}{
			"status": "completed",
			"result": result,
		},
	}
	return b.publishToKiosk(ctx, kioskID, event)
}

// PublishRequestFailed publishes a request.failed event
func (b *Broadcaster) PublishRequestFailed(ctx context.Context, kioskID uuid.UUID, requestID string, errorMsg string) error {
	event := Event{
		Type:      EventTypeRequestFailed,
		RequestID: requestID,
		KioskID:   kioskID.String(),
		Data: map[string]interface{}{
			"status": "failed",
			"error":  errorMsg,
		},
	}
	return b.publishToKiosk(ctx, kioskID, event)
}

// publishToKiosk publishes an event to the kiosk-specific channel
func (b *Broadcaster) publishToKiosk(ctx context.Context, kioskID uuid.UUID, event Event) error {
	channel := Channel(kioskID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"request_id", event.RequestID,
	)

	return nil
}
