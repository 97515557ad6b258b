package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"example.com/kiosk/pkg/chat"
)

// ChatBackend forwards visitor messages to the avatar chat service
type ChatBackend interface {
	Chat(ctx context.Context, req chat.ChatRequest) (*chat.ChatResponse, error)
}

// HTTPChatBackend implements ChatBackend over the backend's JSON API
type HTTPChatBackend struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure HTTPChatBackend implements ChatBackend interface
var _ ChatBackend = (*HTTPChatBackend)(nil)

// NewHTTPChatBackend creates a client for the chat backend at baseURL
func NewHTTPChatBackend(baseURL string, logger *slog.Logger) *HTTPChatBackend {
	return &HTTPChatBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// Chat posts one message to {baseURL}/chat
func (s *HTTPChatBackend) Chat(ctx context.Context, chatReq chat.ChatRequest) (*chat.ChatResponse, error) {
	if err := chatReq.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chat request: %w", err)
	}

	jsonBody, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := s.baseURL + "/chat"

	s.logger.Debug("Making chat backend request",
		"url", url,
		"language", chatReq.Language,
		"fixed", chatReq.Fixed)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Language", chatReq.Language)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("Chat backend returned error",
			"status_code", resp.StatusCode,
			"status", resp.Status,
			"response_body", responseBody.String())
		return nil, fmt.Errorf("chat backend request failed with status: %d", resp.StatusCode)
	}

	var chatResp chat.ChatResponse
	if err := json.Unmarshal(responseBody.Bytes(), &chatResp); err != nil {
		s.logger.Error("Failed to decode chat backend response",
			"error", err,
			"response_body", responseBody.String())
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &chatResp, nil
}
