package guidance

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"example.com/kiosk/pkg/building"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner() *Planner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPlanner(building.Default(), logger)
}

func TestPlanner_FullRoute(t *testing.T) {
	p := newTestPlanner()

	route, err := p.PlanText("Allez de rez-de-chaussée au 2ème étage, Bureau 301, puis à droite.")
	require.NoError(t, err)

	assert.Equal(t, "b301", route.Highlight)
	assert.Equal(t, []building.Point{
		{X: 90, Y: 100},  // entrance
		{X: 400, Y: 100}, // ground floor elevator
		{X: 400, Y: 500}, // second floor elevator
		{X: 500, Y: 500}, // turn right
		{X: 190, Y: 500}, // Bureau 301
	}, route.Path)
	assert.Equal(t, []float64{90, 100, 400, 100, 400, 500, 500, 500, 190, 500}, route.Flatten())
}

func TestPlanner_Routes(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantHighlight string
		wantPath      []building.Point
	}{
		{
			name:          "turn left",
			input:         "Montez au 1er étage puis à gauche vers le bureau 201",
			wantHighlight: "b201",
			wantPath: []building.Point{
				{X: 90, Y: 100},
				{X: 400, Y: 100},
				{X: 400, Y: 300},
				{X: 300, Y: 300},
				{X: 190, Y: 300},
			},
		},
		{
			name:          "same floor has no elevator change",
			input:         "Le Bureau 101 est juste à côté.",
			wantHighlight: "b101",
			wantPath: []building.Point{
				{X: 90, Y: 100},
				{X: 400, Y: 100},
				{X: 190, Y: 100},
			},
		},
		{
			name:          "direction ignored without floor change",
			input:         "Salle réunion 1 puis à droite",
			wantHighlight: "sr1",
			wantPath: []building.Point{
				{X: 90, Y: 100},
				{X: 400, Y: 100},
				{X: 290, Y: 100},
			},
		},
		{
			name:          "elevator fallback",
			input:         "Allez au 1er étage, ascenseur.",
			wantHighlight: "elevator2",
			wantPath: []building.Point{
				{X: 90, Y: 100},
				{X: 400, Y: 100},
				{X: 400, Y: 300},
				{X: 400, Y: 300},
			},
		},
		{
			name:          "floor without room lands on its elevator",
			input:         "Rendez-vous à l'étage 2",
			wantHighlight: "elevator3",
			wantPath: []building.Point{
				{X: 90, Y: 100},
				{X: 400, Y: 100},
				{X: 400, Y: 500},
				{X: 400, Y: 500},
			},
		},
		{
			name:          "start floor used as target floor",
			input:         "Depuis la salle, partez de 1er étage vers la Direction",
			wantHighlight: "direction",
			wantPath: []building.Point{
				{X: 90, Y: 100},
				{X: 400, Y: 300},
				{X: 515, Y: 300},
			},
		},
		{
			name:          "case insensitive label",
			input:         "BUREAU 201 à l'étage 1",
			wantHighlight: "b201",
			wantPath: []building.Point{
				{X: 90, Y: 100},
				{X: 400, Y: 100},
				{X: 400, Y: 300},
				{X: 190, Y: 300},
			},
		},
	}

	p := newTestPlanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := p.PlanText(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHighlight, route.Highlight)
			assert.Equal(t, tt.wantPath, route.Path)
		})
	}
}

func TestPlanner_NoTarget(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no tokens", input: "Bonjour et bienvenue."},
		{name: "room not on ground floor", input: "Rendez-vous avec direction."},
		{name: "unknown floor", input: "Allez au 9ème étage, bureau 901."},
		{name: "room on another floor", input: "Bureau 301 à l'étage 1"},
	}

	p := newTestPlanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := p.PlanText(tt.input)
			assert.Nil(t, route)
			assert.True(t, errors.Is(err, ErrNoTarget), "got %v", err)
		})
	}
}

func TestPlanner_LabelSubstringMatch(t *testing.T) {
	p := newTestPlanner()

	// "Salle 2" is contained only in its own label; "Salle Réunion 2" sits on floor 1.
	route, err := p.Plan(Query{TargetLabel: "salle 2", TargetFloor: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, "s2", route.Highlight)

	route, err = p.Plan(Query{TargetLabel: "réunion", TargetFloor: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, "sr2", route.Highlight)
}
