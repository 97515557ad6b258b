package guidance

// Direction is the lateral turn taken after leaving the elevator.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Query is the structured target extracted from one guidance instruction.
// Unset fields are nil or empty; a zero Query means "no specific guidance".
type Query struct {
	TargetLabel string    `json:"target_label,omitempty"`
	StartFloor  *int      `json:"start_floor,omitempty"`
	TargetFloor *int      `json:"target_floor,omitempty"`
	Direction   Direction `json:"direction,omitempty"`
}

// IsEmpty reports whether no field was recognised.
func (q Query) IsEmpty() bool {
	return q.TargetLabel == "" && q.StartFloor == nil && q.TargetFloor == nil && q.Direction == DirectionNone
}

// EffectiveTargetFloor falls back from the target floor to the start floor, then to the ground floor.
func (q Query) EffectiveTargetFloor() int {
	if q.TargetFloor != nil {
		return *q.TargetFloor
	}
	if q.StartFloor != nil {
		return *q.StartFloor
	}
	return 0
}

// EffectiveStartFloor is the start floor, or the ground floor when unset.
func (q Query) EffectiveStartFloor() int {
	if q.StartFloor != nil {
		return *q.StartFloor
	}
	return 0
}

func intPtr(n int) *int {
	return &n
}
