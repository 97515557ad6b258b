package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"example.com/kiosk/internal/handlers"
	"example.com/kiosk/pkg/guidance"
	"example.com/kiosk/pkg/state"
	"github.com/google/uuid"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// doJSON sends in (when non-nil) as JSON and decodes the reply into out.
// Any status other than want is reported using the API error body.
func doJSON(client *http.Client, method, url string, in interface{}, want int, out interface{}) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		var errorResp handlers.ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func createDisplay(client *http.Client, baseURL string, lang guidance.Language) (*state.DisplayState, error) {
	var ds state.DisplayState
	err := doJSON(client, http.MethodPost, baseURL+"/v1/displays",
		handlers.CreateDisplayRequest{Language: string(lang)}, http.StatusCreated, &ds)
	if err != nil {
		return nil, fmt.Errorf("failed to create display: %w", err)
	}
	return &ds, nil
}

func postGuidance(client *http.Client, baseURL string, displayID uuid.UUID, text string) (*handlers.GuidanceResponse, error) {
	var gr handlers.GuidanceResponse
	err := doJSON(client, http.MethodPost, fmt.Sprintf("%s/v1/displays/%s/guidance", baseURL, displayID),
		handlers.GuidanceRequest{Guidance: text}, http.StatusOK, &gr)
	if err != nil {
		return nil, fmt.Errorf("failed to send guidance: %w", err)
	}
	return &gr, nil
}

func selectRoom(client *http.Client, baseURL string, displayID uuid.UUID, roomID string, lang guidance.Language) (*handlers.SelectRoomResponse, error) {
	var sr handlers.SelectRoomResponse
	err := doJSON(client, http.MethodPost, fmt.Sprintf("%s/v1/displays/%s/rooms/%s/select", baseURL, displayID, roomID),
		handlers.SelectRoomRequest{Language: string(lang)}, http.StatusAccepted, &sr)
	if err != nil {
		return nil, fmt.Errorf("failed to select room: %w", err)
	}
	return &sr, nil
}

// SSEEvent represents an event from the SSE stream
type SSEEvent struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// listenToSSE connects to the display's event stream and forwards events
// to eventChan until the stream ends or ctx is cancelled.
func listenToSSE(ctx context.Context, client *http.Client, baseURL string, displayID uuid.UUID, eventChan chan<- SSEEvent) error {
	url := fmt.Sprintf("%s/v1/events/displays/%s", baseURL, displayID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to SSE: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SSE connection failed with status %d: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	var currentEvent SSEEvent

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			// Empty line ends the event
			if currentEvent.Type != "" {
				select {
				case eventChan <- currentEvent:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			currentEvent = SSEEvent{}
		case strings.HasPrefix(line, "event: "):
			currentEvent.Type = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			var data map[string]interface{}
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &data); err == nil {
				currentEvent.Data = data
			}
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("error reading SSE stream: %w", err)
	}
	return nil
}
