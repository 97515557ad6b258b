package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"example.com/kiosk/pkg/state"
	"github.com/google/uuid"
)

const (
	// PollInterval is how often to check the display for updates
	PollInterval = 500 * time.Millisecond
	// WorkerTimeout is max time to wait for the worker to apply a reply
	WorkerTimeout = 30 * time.Second
)

// PostJSON sends body to url and decodes the reply into out when the
// status matches want
func PostJSON(ctx context.Context, client *http.Client, url string, body interface{}, want int, out interface{}) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned %d (expected %d): %s", url, resp.StatusCode, want, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// GetDisplay retrieves the current display state
func GetDisplay(ctx context.Context, client *http.Client, baseURL string, displayID uuid.UUID) (*state.DisplayState, error) {
	url := fmt.Sprintf("%s/v1/displays/%s", baseURL, displayID.String())
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create display request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send display request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("display endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var ds state.DisplayState
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode display: %w", err)
	}
	return &ds, nil
}

// PollForHighlight polls the display until it highlights roomID
func PollForHighlight(ctx context.Context, client *http.Client, baseURL string, displayID uuid.UUID, roomID string) (*state.DisplayState, error) {
	timeout := time.After(WorkerTimeout)
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeout:
			return nil, fmt.Errorf("timeout waiting for highlight %q (waited %v)", roomID, WorkerTimeout)
		case <-ticker.C:
			ds, err := GetDisplay(ctx, client, baseURL, displayID)
			if err != nil {
				// keep polling, the API may be restarting
				continue
			}
			if ds.Highlight == roomID {
				return ds, nil
			}
		}
	}
}
