package building

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a room on the floor plan.
type Kind string

const (
	KindEntrance Kind = "entrance"
	KindOffice   Kind = "office"
	KindMeeting  Kind = "meeting"
	KindElevator Kind = "elevator"
)

// GroundFloorMarker is the label fragment that identifies floor 0.
const GroundFloorMarker = "rez-de-chaussée"

// ErrInvalidRegistry is returned when a floor table breaks a registry invariant.
var ErrInvalidRegistry = errors.New("invalid room registry")

// Point is a 2-D position on the floor plan.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Room is a rectangle on the floor plan.
type Room struct {
	ID     string  `json:"id" yaml:"id"`
	Label  string  `json:"label" yaml:"label"`
	Kind   Kind    `json:"type" yaml:"type"`
	Floor  int     `json:"floor" yaml:"floor"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Center returns the middle of the room rectangle.
func (r Room) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Floor is one level of the building.
type Floor struct {
	Label string  `json:"label" yaml:"label"`
	Y     float64 `json:"y" yaml:"y"`
	Rooms []Room  `json:"rooms" yaml:"rooms"`
}

// Elevator returns the floor's vertical-transit anchor.
func (f Floor) Elevator() (Room, bool) {
	for _, r := range f.Rooms {
		if r.Kind == KindElevator {
			return r, true
		}
	}
	return Room{}, false
}

// matches reports whether the floor's display label designates floor n.
func (f Floor) matches(n int) bool {
	label := strings.ToLower(f.Label)
	if n == 0 {
		return strings.Contains(label, GroundFloorMarker)
	}
	return strings.Contains(label, strconv.Itoa(n))
}

// Registry is the immutable multi-floor room table of the building.
// Build it once with NewRegistry, Default or Load and share it freely.
type Registry struct {
	floors []Floor
	byID   map[string]Room
}

// NewRegistry validates the floor table and returns a registry holding its own copy.
func NewRegistry(floors []Floor) (*Registry, error) {
	if len(floors) == 0 {
		return nil, fmt.Errorf("%w: no floors", ErrInvalidRegistry)
	}

	reg := &Registry{
		floors: make([]Floor, len(floors)),
		byID:   make(map[string]Room),
	}

	for i, f := range floors {
		elevators := 0
		entrances := 0
		rooms := make([]Room, len(f.Rooms))
		copy(rooms, f.Rooms)

		for _, r := range rooms {
			if r.ID == "" {
				return nil, fmt.Errorf("%w: room %q on floor %q has no id", ErrInvalidRegistry, r.Label, f.Label)
			}
			if _, dup := reg.byID[r.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate room id %q", ErrInvalidRegistry, r.ID)
			}
			if r.Floor != i {
				return nil, fmt.Errorf("%w: room %q declares floor %d but sits on floor %d", ErrInvalidRegistry, r.ID, r.Floor, i)
			}
			if r.Width <= 0 || r.Height <= 0 {
				return nil, fmt.Errorf("%w: room %q has a non-positive size", ErrInvalidRegistry, r.ID)
			}
			switch r.Kind {
			case KindElevator:
				elevators++
			case KindEntrance:
				entrances++
			case KindOffice, KindMeeting:
			default:
				return nil, fmt.Errorf("%w: room %q has unknown type %q", ErrInvalidRegistry, r.ID, r.Kind)
			}
			reg.byID[r.ID] = r
		}

		if elevators != 1 {
			return nil, fmt.Errorf("%w: floor %q has %d elevators, want 1", ErrInvalidRegistry, f.Label, elevators)
		}
		if i == 0 && entrances != 1 {
			return nil, fmt.Errorf("%w: ground floor %q has %d entrances, want 1", ErrInvalidRegistry, f.Label, entrances)
		}

		reg.floors[i] = Floor{Label: f.Label, Y: f.Y, Rooms: rooms}
	}

	return reg, nil
}

// Floors returns a copy of the floor table in registry order.
func (r *Registry) Floors() []Floor {
	out := make([]Floor, len(r.floors))
	for i, f := range r.floors {
		rooms := make([]Room, len(f.Rooms))
		copy(rooms, f.Rooms)
		out[i] = Floor{Label: f.Label, Y: f.Y, Rooms: rooms}
	}
	return out
}

// Rooms returns every room, floor by floor.
func (r *Registry) Rooms() []Room {
	var out []Room
	for _, f := range r.floors {
		out = append(out, f.Rooms...)
	}
	return out
}

// Room looks a room up by id.
func (r *Registry) Room(id string) (Room, bool) {
	room, ok := r.byID[id]
	return room, ok
}

// FloorFor resolves floor n by its display label: the ground-floor marker for
// 0, otherwise the first floor whose label contains the numeral.
func (r *Registry) FloorFor(n int) (Floor, bool) {
	if n < 0 {
		return Floor{}, false
	}
	for _, f := range r.floors {
		if f.matches(n) {
			return f, true
		}
	}
	return Floor{}, false
}

// Elevator returns the elevator of floor n.
func (r *Registry) Elevator(n int) (Room, bool) {
	f, ok := r.FloorFor(n)
	if !ok {
		return Room{}, false
	}
	return f.Elevator()
}

// Entrance returns the ground-floor entrance.
func (r *Registry) Entrance() Room {
	for _, room := range r.floors[0].Rooms {
		if room.Kind == KindEntrance {
			return room
		}
	}
	// unreachable: NewRegistry guarantees one entrance on floor 0
	return Room{}
}
