package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"example.com/kiosk/pkg/building"
	"example.com/kiosk/pkg/guidance"
	"example.com/kiosk/pkg/state"
	"example.com/kiosk/pkg/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu         sync.Mutex
	updated    []string
	unresolved []string
}

func (p *recordingPublisher) PublishGuidanceUpdated(ctx context.Context, ds *state.DisplayState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, ds.Highlight)
	return nil
}

func (p *recordingPublisher) PublishGuidanceUnresolved(ctx context.Context, kioskID uuid.UUID, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unresolved = append(p.unresolved, text)
	return nil
}

func newGuidanceFixture(t *testing.T) (*GuidanceService, *storage.MockStorage, *recordingPublisher, *state.DisplayState) {
	t.Helper()
	store := storage.NewMockStorage()
	pub := &recordingPublisher{}
	planner := guidance.NewPlanner(building.Default(), discardLogger())
	svc := NewGuidanceService(store, planner, pub, discardLogger())

	ds := state.NewDisplayState(guidance.LanguageFrench)
	require.NoError(t, store.SaveDisplay(context.Background(), ds.ID, ds))
	return svc, store, pub, ds
}

func TestGuidanceService_ApplyResolved(t *testing.T) {
	svc, store, pub, ds := newGuidanceFixture(t)
	ctx := context.Background()

	got, resolved, err := svc.Apply(ctx, ds.ID, "Allez de rez-de-chaussée au 2ème étage, Bureau 301, puis à droite.")
	require.NoError(t, err)
	assert.True(t, resolved)
	assert.Equal(t, "b301", got.Highlight)
	assert.Equal(t, []float64{90, 100, 400, 100, 400, 500, 500, 500, 190, 500}, got.Points)

	stored, err := store.LoadDisplay(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, "b301", stored.Highlight)
	assert.Equal(t, []string{"b301"}, pub.updated)
}

func TestGuidanceService_UnresolvedKeepsRoute(t *testing.T) {
	svc, store, pub, ds := newGuidanceFixture(t)
	ctx := context.Background()

	_, resolved, err := svc.Apply(ctx, ds.ID, "Bureau 101")
	require.NoError(t, err)
	require.True(t, resolved)

	for _, text := range []string{"Bonjour", "Rendez-vous avec direction."} {
		got, resolved, err := svc.Apply(ctx, ds.ID, text)
		require.NoError(t, err, text)
		assert.False(t, resolved, text)
		assert.Equal(t, "b101", got.Highlight, text)
		assert.Equal(t, text, got.Guidance, text)

		stored, err := store.LoadDisplay(ctx, ds.ID)
		require.NoError(t, err)
		assert.Equal(t, text, stored.Guidance, "latest instruction is stored")
		assert.Equal(t, "b101", stored.Highlight)
		require.NotNil(t, stored.Query)
		assert.Equal(t, "Bureau 101", stored.Query.TargetLabel)
	}

	assert.Len(t, pub.unresolved, 2)
	assert.Equal(t, []string{"b101"}, pub.updated)
}

// vanishingStorage deletes the display right after handing it out.
type vanishingStorage struct {
	*storage.MockStorage
}

func (v vanishingStorage) LoadDisplay(ctx context.Context, id uuid.UUID) (*state.DisplayState, error) {
	ds, err := v.MockStorage.LoadDisplay(ctx, id)
	if err != nil || ds == nil {
		return ds, err
	}
	return ds, v.MockStorage.DeleteDisplay(ctx, id)
}

func TestGuidanceService_DeletedDuringApply(t *testing.T) {
	mock := storage.NewMockStorage()
	ds := state.NewDisplayState(guidance.LanguageFrench)
	require.NoError(t, mock.SaveDisplay(context.Background(), ds.ID, ds))

	pub := &recordingPublisher{}
	svc := NewGuidanceService(vanishingStorage{mock}, guidance.NewPlanner(building.Default(), discardLogger()), pub, discardLogger())

	_, resolved, err := svc.Apply(context.Background(), ds.ID, "Bureau 101")
	assert.ErrorIs(t, err, ErrDisplayNotFound)
	assert.False(t, resolved)

	gone, err := mock.LoadDisplay(context.Background(), ds.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "a deleted display is not written back")
	assert.Empty(t, pub.updated)
}

func TestGuidanceService_UnknownDisplay(t *testing.T) {
	svc, _, _, _ := newGuidanceFixture(t)

	_, _, err := svc.Apply(context.Background(), uuid.New(), "Bureau 101")
	assert.ErrorIs(t, err, ErrDisplayNotFound)
}

func TestGuidanceService_SaveFailure(t *testing.T) {
	svc, store, pub, ds := newGuidanceFixture(t)
	store.SetSaveError(errors.New("redis down"))

	_, resolved, err := svc.Apply(context.Background(), ds.ID, "Bureau 101")
	assert.Error(t, err)
	assert.False(t, resolved)
	assert.Empty(t, pub.updated)
}

func TestGuidanceService_NilPublisher(t *testing.T) {
	store := storage.NewMockStorage()
	svc := NewGuidanceService(store, guidance.NewPlanner(building.Default(), discardLogger()), nil, discardLogger())

	ds := state.NewDisplayState(guidance.LanguageEnglish)
	require.NoError(t, store.SaveDisplay(context.Background(), ds.ID, ds))

	_, resolved, err := svc.Apply(context.Background(), ds.ID, "Salle 2 à l'étage 2")
	require.NoError(t, err)
	assert.True(t, resolved)

	_, resolved, err = svc.Apply(context.Background(), ds.ID, "nowhere")
	require.NoError(t, err)
	assert.False(t, resolved)
}
