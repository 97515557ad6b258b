package guidance

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"example.com/kiosk/pkg/building"
)

// lateralOffset is how far past the elevator wall the turn point sits.
const lateralOffset = 50

// ErrNoTarget means the instruction did not resolve to a room. Callers keep
// whatever they were showing before.
var ErrNoTarget = errors.New("no resolvable target")

// Route is a resolved guidance: the room to highlight and the path leading to it.
type Route struct {
	Highlight string           `json:"highlight"`
	Room      building.Room    `json:"room"`
	Path      []building.Point `json:"path"`
	Query     Query            `json:"query"`
}

// Flatten returns the path as [x0, y0, x1, y1, ...] for line renderers.
func (r *Route) Flatten() []float64 {
	out := make([]float64, 0, len(r.Path)*2)
	for _, p := range r.Path {
		out = append(out, p.X, p.Y)
	}
	return out
}

// Planner resolves queries against a room registry.
type Planner struct {
	registry *building.Registry
	logger   *slog.Logger
}

// NewPlanner creates a planner over the given registry.
func NewPlanner(registry *building.Registry, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		registry: registry,
		logger:   logger,
	}
}

// Registry returns the registry the planner resolves against.
func (p *Planner) Registry() *building.Registry {
	return p.registry
}

// PlanText parses the instruction and plans it.
func (p *Planner) PlanText(text string) (*Route, error) {
	return p.Plan(Parse(text))
}

// Plan resolves the target room of q and builds the path from the entrance.
// It returns an error wrapping ErrNoTarget when nothing can be highlighted.
func (p *Planner) Plan(q Query) (*Route, error) {
	if q.IsEmpty() {
		p.logger.Debug("Guidance carries no target")
		return nil, fmt.Errorf("%w: empty query", ErrNoTarget)
	}

	room, err := p.resolve(q)
	if err != nil {
		p.logger.Info("No target room found",
			"target_label", q.TargetLabel,
			"start_floor", optional(q.StartFloor),
			"target_floor", optional(q.TargetFloor),
			"reason", err)
		return nil, err
	}

	startFloor := q.EffectiveStartFloor()
	entrance := p.registry.Entrance()

	path := []building.Point{entrance.Center()}

	if elevator, ok := p.registry.Elevator(startFloor); ok {
		path = append(path, elevator.Center())
	}

	if room.Floor != startFloor {
		if elevator, ok := p.registry.Elevator(room.Floor); ok {
			path = append(path, elevator.Center())

			y := elevator.Center().Y
			switch q.Direction {
			case DirectionRight:
				path = append(path, building.Point{X: elevator.X + elevator.Width + lateralOffset, Y: y})
			case DirectionLeft:
				path = append(path, building.Point{X: elevator.X - lateralOffset, Y: y})
			}
		}
	}

	path = append(path, room.Center())

	p.logger.Debug("Guidance route planned",
		"highlight", room.ID,
		"points", len(path))

	return &Route{
		Highlight: room.ID,
		Room:      room,
		Path:      path,
		Query:     q,
	}, nil
}

func (p *Planner) resolve(q Query) (building.Room, error) {
	floorNum := q.EffectiveTargetFloor()
	floor, ok := p.registry.FloorFor(floorNum)
	if !ok {
		return building.Room{}, fmt.Errorf("%w: floor %d not found", ErrNoTarget, floorNum)
	}

	if q.TargetLabel == "" {
		elevator, ok := floor.Elevator()
		if !ok {
			return building.Room{}, fmt.Errorf("%w: floor %d has no elevator", ErrNoTarget, floorNum)
		}
		return elevator, nil
	}

	want := strings.ToLower(q.TargetLabel)
	for _, room := range floor.Rooms {
		if strings.Contains(strings.ToLower(room.Label), want) {
			return room, nil
		}
	}

	return building.Room{}, fmt.Errorf("%w: %q not on floor %d", ErrNoTarget, q.TargetLabel, floorNum)
}

// optional renders an unset floor as nil in log lines instead of a pointer.
func optional(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
