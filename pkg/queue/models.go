package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestType identifies the type of request in the queue
type RequestType string

const (
	// RequestTypeRoomSelection is a visitor tapping a room on the floor plan
	RequestTypeRoomSelection RequestType = "room_selection"

	// RequestTypeGuidance is an instruction to apply to a kiosk display
	RequestTypeGuidance RequestType = "guidance"
)

// Request represents a unified request in the queue
type Request struct {
	RequestID string      `json:"request_id"`
	Type      RequestType `json:"type"`
	KioskID   uuid.UUID   `json:"kiosk_id"`

	// Room selection fields
	RoomID  string `json:"room_id,omitempty"`
	Message string `json:"message,omitempty"`
	Name    string `json:"name,omitempty"`

	// Guidance fields
	Guidance string `json:"guidance,omitempty"`

	Language   string    `json:"language,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewRequest creates a request with a fresh id
func NewRequest(reqType RequestType, kioskID uuid.UUID) *Request {
	return &Request{
		RequestID:  uuid.New().String(),
		Type:       reqType,
		KioskID:    kioskID,
		EnqueuedAt: time.Now(),
	}
}

// Validate checks that the request carries what its type needs
func (r *Request) Validate() error {
	if r.RequestID == "" {
		return fmt.Errorf("request_id is required")
	}
	if r.KioskID == uuid.Nil {
		return fmt.Errorf("kiosk_id is required")
	}
	switch r.Type {
	case RequestTypeRoomSelection:
		if r.Message == "" {
			return fmt.Errorf("message is required for %s requests", r.Type)
		}
	case RequestTypeGuidance:
		if r.Guidance == "" {
			return fmt.Errorf("guidance is required for %s requests", r.Type)
		}
	default:
		return fmt.Errorf("unknown request type: %q", r.Type)
	}
	return nil
}

// MarshalJSON serializes the request to JSON for Redis storage
func (r *Request) MarshalJSON() ([]byte, error) {
	type Alias Request
	return json.Marshal(&struct {
		KioskID string `json:"kiosk_id"`
		*Alias
	}{
		KioskID: r.KioskID.String(),
		Alias:   (*Alias)(r),
	})
}

// UnmarshalJSON deserializes the request from JSON in Redis
func (r *Request) UnmarshalJSON(data []byte) error {
	type Alias Request
	aux := &struct {
		KioskID string `json:"kiosk_id"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	kioskID, err := uuid.Parse(aux.KioskID)
	if err != nil {
		return err
	}

	r.KioskID = kioskID
	return nil
}

// ToJSON converts the request to JSON bytes for Redis
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes
func FromJSON(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
