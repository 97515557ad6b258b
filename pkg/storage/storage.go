package storage

import (
	"context"
	"errors"

	"example.com/kiosk/pkg/state"
	"github.com/google/uuid"
)

// ErrDisplayNotFound is returned by UpdateDisplay when the display is gone.
var ErrDisplayNotFound = errors.New("display not found")

// Storage persists kiosk display state.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveDisplay stores a display, refreshing its UpdatedAt timestamp
	SaveDisplay(ctx context.Context, id uuid.UUID, ds *state.DisplayState) error

	// UpdateDisplay overwrites an existing display only. A display deleted
	// since it was loaded stays deleted and ErrDisplayNotFound is returned.
	UpdateDisplay(ctx context.Context, id uuid.UUID, ds *state.DisplayState) error

	// LoadDisplay returns nil, nil when the display does not exist
	LoadDisplay(ctx context.Context, id uuid.UUID) (*state.DisplayState, error)

	DeleteDisplay(ctx context.Context, id uuid.UUID) error
}
