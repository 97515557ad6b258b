package services

import (
	"context"
	"sync"

	"example.com/kiosk/pkg/chat"
)

// MockChatBackend is a mock implementation of ChatBackend for testing
type MockChatBackend struct {
	ChatFunc func(ctx context.Context, req chat.ChatRequest) (*chat.ChatResponse, error)

	// Track calls for testing
	ChatCalls []chat.ChatRequest

	mu sync.Mutex // protects all fields above
}

// Ensure MockChatBackend implements ChatBackend interface
var _ ChatBackend = (*MockChatBackend)(nil)

// NewMockChatBackend creates a new mock chat backend
func NewMockChatBackend() *MockChatBackend {
	return &MockChatBackend{
		ChatCalls: make([]chat.ChatRequest, 0),
	}
}

// Chat records the request and returns ChatFunc's answer, or an empty reply
func (m *MockChatBackend) Chat(ctx context.Context, req chat.ChatRequest) (*chat.ChatResponse, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, req)
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	// Default behavior - empty reply
	return &chat.ChatResponse{}, nil
}

// Calls returns a copy of the recorded requests
func (m *MockChatBackend) Calls() []chat.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]chat.ChatRequest, len(m.ChatCalls))
	copy(calls, m.ChatCalls)
	return calls
}
