package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"example.com/kiosk/pkg/state"
	"github.com/google/uuid"
)

// MockStorage is an in-memory Storage for tests
type MockStorage struct {
	mu        sync.RWMutex
	displays  map[uuid.UUID]state.DisplayState
	pingError error
	saveError error
	saves     int
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		displays: make(map[uuid.UUID]state.DisplayState),
	}
}

// SetPingSuccess configures the mock to succeed on ping
func (m *MockStorage) SetPingSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = nil
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes every SaveDisplay fail with err
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// Saves returns how many times SaveDisplay succeeded
func (m *MockStorage) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveDisplay(ctx context.Context, id uuid.UUID, ds *state.DisplayState) error {
	if ds == nil {
		return errors.New("display state cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	ds.UpdatedAt = time.Now()
	// store a copy so callers cannot mutate what was saved
	m.displays[id] = *ds
	m.saves++
	return nil
}

func (m *MockStorage) UpdateDisplay(ctx context.Context, id uuid.UUID, ds *state.DisplayState) error {
	if ds == nil {
		return errors.New("display state cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	if _, ok := m.displays[id]; !ok {
		return ErrDisplayNotFound
	}
	ds.UpdatedAt = time.Now()
	m.displays[id] = *ds
	m.saves++
	return nil
}

func (m *MockStorage) LoadDisplay(ctx context.Context, id uuid.UUID) (*state.DisplayState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ds, ok := m.displays[id]
	if !ok {
		return nil, nil
	}
	return &ds, nil
}

func (m *MockStorage) DeleteDisplay(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.displays, id)
	return nil
}
