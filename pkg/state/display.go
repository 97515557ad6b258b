package state

import (
	"time"

	"example.com/kiosk/pkg/building"
	"example.com/kiosk/pkg/guidance"
	"github.com/google/uuid"
)

// DisplayState is what one kiosk floor-plan display currently shows.
type DisplayState struct {
	ID        uuid.UUID         `json:"id"`
	Language  guidance.Language `json:"language"`
	Guidance  string            `json:"guidance,omitempty"`  // latest instruction, resolved or not
	Highlight string            `json:"highlight,omitempty"` // highlighted room id
	Path      []building.Point  `json:"path,omitempty"`
	Points    []float64         `json:"points,omitempty"` // Path flattened for line renderers
	Query     *guidance.Query   `json:"query,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewDisplayState creates an empty display in the given language.
func NewDisplayState(lang guidance.Language) *DisplayState {
	now := time.Now()
	return &DisplayState{
		ID:        uuid.New(),
		Language:  lang,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyRoute replaces the shown route wholesale.
func (ds *DisplayState) ApplyRoute(text string, route *guidance.Route) {
	q := route.Query
	ds.Guidance = text
	ds.Highlight = route.Highlight
	ds.Path = route.Path
	ds.Points = route.Flatten()
	ds.Query = &q
}

// HasRoute reports whether a route was ever resolved for this display.
func (ds *DisplayState) HasRoute() bool {
	return ds.Highlight != ""
}
