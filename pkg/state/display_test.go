package state

import (
	"io"
	"log/slog"
	"testing"

	"example.com/kiosk/pkg/building"
	"example.com/kiosk/pkg/guidance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisplayState(t *testing.T) {
	ds := NewDisplayState(guidance.LanguageEnglish)

	assert.NotEmpty(t, ds.ID.String())
	assert.Equal(t, guidance.LanguageEnglish, ds.Language)
	assert.False(t, ds.HasRoute())
	assert.False(t, ds.CreatedAt.IsZero())
}

func TestDisplayState_ApplyRoute(t *testing.T) {
	planner := guidance.NewPlanner(building.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	text := "Allez de rez-de-chaussée au 2ème étage, Bureau 301, puis à droite."

	route, err := planner.PlanText(text)
	require.NoError(t, err)

	ds := NewDisplayState(guidance.LanguageFrench)
	ds.ApplyRoute(text, route)

	assert.True(t, ds.HasRoute())
	assert.Equal(t, "b301", ds.Highlight)
	assert.Equal(t, text, ds.Guidance)
	assert.Len(t, ds.Path, 5)
	assert.Len(t, ds.Points, 10)
	require.NotNil(t, ds.Query)
	assert.Equal(t, "Bureau 301", ds.Query.TargetLabel)
}
