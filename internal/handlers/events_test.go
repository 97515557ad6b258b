package handlers

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"example.com/kiosk/internal/services/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStreamServer registers Close first so open streams are cancelled before it runs
func newStreamServer(t *testing.T, api *testAPI) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(api.router)
	t.Cleanup(server.Close)
	return server
}

// openStream connects to the SSE endpoint and returns a line reader
func openStream(t *testing.T, server *httptest.Server, kioskID uuid.UUID) *bufio.Reader {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/v1/events/displays/"+kioskID.String(), nil)
	require.NoError(t, err)

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body)
}

// readUntil returns the first line starting with prefix
func readUntil(t *testing.T, r *bufio.Reader, prefix string) string {
	t.Helper()

	found := make(chan string, 1)
	go func() {
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				close(found)
				return
			}
			if strings.HasPrefix(line, prefix) {
				found <- strings.TrimSpace(line)
				return
			}
		}
	}()

	select {
	case line, ok := <-found:
		require.True(t, ok, "stream closed before %q", prefix)
		return line
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for %q", prefix)
		return ""
	}
}

func TestEventsHandler_ForwardsKioskEvents(t *testing.T) {
	api := newTestAPI(t)
	server := newStreamServer(t, api)

	kioskID := uuid.New()
	stream := openStream(t, server, kioskID)

	assert.Equal(t, "event: connected", readUntil(t, stream, "event: "))
	assert.Contains(t, readUntil(t, stream, "data: "), kioskID.String())

	b := events.NewBroadcaster(api.rdb, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, b.PublishRoomSelected(context.Background(), kioskID, "req-42", "s2", "Salle 2", "Vous avez sélectionné Salle 2."))

	assert.Equal(t, "event: room.selected", readUntil(t, stream, "event: "))
	data := readUntil(t, stream, "data: ")
	assert.Contains(t, data, `"room_id":"s2"`)
	assert.Contains(t, data, `"request_id":"req-42"`)
}

func TestEventsHandler_IgnoresOtherKiosks(t *testing.T) {
	api := newTestAPI(t)
	server := newStreamServer(t, api)

	kioskID := uuid.New()
	stream := openStream(t, server, kioskID)
	readUntil(t, stream, "data: ")

	b := events.NewBroadcaster(api.rdb, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, b.PublishGuidanceUnresolved(context.Background(), uuid.New(), "ailleurs"))
	require.NoError(t, b.PublishGuidanceUnresolved(context.Background(), kioskID, "ici"))

	assert.Equal(t, "event: guidance.unresolved", readUntil(t, stream, "event: "))
	assert.Contains(t, readUntil(t, stream, "data: "), `"guidance":"ici"`)
}

func TestEventsHandler_Keepalive(t *testing.T) {
	prev := keepaliveInterval
	keepaliveInterval = 20 * time.Millisecond
	t.Cleanup(func() { keepaliveInterval = prev })

	api := newTestAPI(t)
	server := newStreamServer(t, api)

	stream := openStream(t, server, uuid.New())
	assert.Equal(t, ": keepalive", readUntil(t, stream, ": keepalive"))
}

func TestEventsHandler_InvalidID(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/v1/events/displays/nope", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
