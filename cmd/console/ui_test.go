package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"example.com/kiosk/internal/handlers"
	"example.com/kiosk/pkg/building"
	"example.com/kiosk/pkg/guidance"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUI(t *testing.T) ConsoleUI {
	t.Helper()

	planner := guidance.NewPlanner(building.Default(), nil)
	display := guidance.NewDisplay(planner, 0, nil)
	t.Cleanup(display.Close)

	cfg := &ConsoleConfig{
		APIBaseURL:    "http://api.invalid",
		PublicBaseURL: "http://kiosk.local",
		Language:      guidance.LanguageFrench,
	}
	ui := NewConsoleUI(cfg, planner, display, nil)

	m, _ := ui.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(ConsoleUI)
}

func update(t *testing.T, ui ConsoleUI, msg tea.Msg) (ConsoleUI, tea.Cmd) {
	t.Helper()
	m, cmd := ui.Update(msg)
	return m.(ConsoleUI), cmd
}

func logText(ui ConsoleUI) string {
	var lines []string
	for _, l := range ui.log {
		lines = append(lines, l.text)
	}
	return strings.Join(lines, "\n")
}

func TestConsoleUI_ApplyGuidance(t *testing.T) {
	ui := newTestUI(t)

	ui, cmd := update(t, ui, submitMsg("Allez au 2ème étage, Bureau 301"))
	assert.Nil(t, cmd, "offline mode sends nothing")
	assert.Equal(t, "Allez au 2ème étage, Bureau 301", ui.guidance)
	assert.Equal(t, "b301", ui.display.Route().Highlight)
	assert.Contains(t, logText(ui), "Route to Bureau 301.")

	ui, _ = update(t, ui, submitMsg("Bonjour"))
	assert.Equal(t, "Bonjour", ui.guidance, "latest instruction is kept for sharing")
	assert.Equal(t, "b301", ui.display.Route().Highlight)
	assert.Contains(t, logText(ui), "No room recognised")
}

func TestConsoleUI_CursorWraps(t *testing.T) {
	ui := newTestUI(t)
	n := len(ui.rooms)

	ui, _ = update(t, ui, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, n-1, ui.cursor)

	ui, _ = update(t, ui, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, ui.cursor)

	ui, _ = update(t, ui, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "b101", ui.rooms[ui.cursor].ID)
}

func TestConsoleUI_SelectRoomOffline(t *testing.T) {
	ui := newTestUI(t)
	ui, _ = update(t, ui, submitMsg("Bureau 101"))

	ui, _ = update(t, ui, tea.KeyMsg{Type: tea.KeyTab})
	ui, cmd := update(t, ui, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Nil(t, cmd)

	log := logText(ui)
	assert.Contains(t, log, "Vous avez sélectionné Bureau 101. Bureau 101")
	assert.Contains(t, log, "Offline")
}

func TestConsoleUI_ClickSelectsRoom(t *testing.T) {
	ui := newTestUI(t)
	v := ui.planView()

	ui, _ = update(t, ui, tea.MouseMsg{
		X:      v.col(290) + planPadLeft,
		Y:      v.row(100) + planPadTop,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})

	assert.Equal(t, "sr1", ui.rooms[ui.cursor].ID)
	assert.Contains(t, logText(ui), "Vous avez sélectionné Salle Réunion 1. Suivez le chemin rouge.")
}

func TestConsoleUI_SelectRoomOnline(t *testing.T) {
	id := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/displays/"+id.String()+"/rooms/entrance/select", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(handlers.SelectRoomResponse{RequestID: "req-42"})
	}))
	defer server.Close()

	ui := newTestUI(t)
	ui.config.APIBaseURL = server.URL
	ui = ui.Online(server.Client(), id, nil)

	ui, cmd := update(t, ui, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, roomSelectedMsg{}, msg)
	ui, _ = update(t, ui, msg)
	assert.Contains(t, logText(ui), "Queued request req-42")
}

func TestConsoleUI_Share(t *testing.T) {
	var copied string
	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { clipboardWrite = defaultClipboardWrite })

	ui := newTestUI(t)

	ui, cmd := update(t, ui, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Nil(t, cmd)
	assert.Contains(t, logText(ui), "Nothing to share yet.")

	ui, _ = update(t, ui, submitMsg("Salle 2 à l'étage 2"))
	ui, cmd = update(t, ui, tea.KeyMsg{Type: tea.KeyCtrlY})
	require.NotNil(t, cmd)
	ui, _ = update(t, ui, cmd())

	want := "http://kiosk.local/plans?guidance=Salle+2+%C3%A0+l%27%C3%A9tage+2"
	assert.Equal(t, want, copied)
	assert.Contains(t, logText(ui), want)
}

func TestConsoleUI_Events(t *testing.T) {
	ui := newTestUI(t)

	ui, _ = update(t, ui, sseMsg{Type: "guidance.updated", Data: map[string]interface{}{"guidance": "Bureau 201 à l'étage 1"}})
	assert.Equal(t, "b201", ui.display.Route().Highlight)
	assert.Equal(t, "Bureau 201 à l'étage 1", ui.guidance)

	ui, _ = update(t, ui, sseMsg{Type: "guidance.unresolved", Data: map[string]interface{}{"guidance": "Rendez-vous avec Mme Dupont"}})
	assert.Equal(t, "b201", ui.display.Route().Highlight)
	assert.Equal(t, "Rendez-vous avec Mme Dupont", ui.guidance)

	ui, _ = update(t, ui, sseMsg{Type: "request.completed", Data: map[string]interface{}{
		"result": map[string]interface{}{
			"messages": []interface{}{
				map[string]interface{}{"text": "Le bureau 201 est au premier étage."},
				map[string]interface{}{"content": "Bonne visite !"},
			},
		},
	}})
	ui, _ = update(t, ui, sseMsg{Type: "request.failed", Data: map[string]interface{}{"error": "backend down"}})

	log := logText(ui)
	assert.Contains(t, log, "Le bureau 201 est au premier étage.")
	assert.Contains(t, log, "Bonne visite !")
	assert.Contains(t, log, "Request failed: backend down")
}

func TestConsoleUI_FramesAdvanceOffset(t *testing.T) {
	ui := newTestUI(t)
	frames := make(chan float64, 1)
	ui.frames = frames

	ui, cmd := update(t, ui, frameMsg(-3.5))
	assert.Equal(t, -3.5, ui.offset)
	require.NotNil(t, cmd, "the model keeps listening for frames")

	frames <- -4
	assert.Equal(t, frameMsg(-4), cmd())
}

func TestConsoleUI_QuitModal(t *testing.T) {
	ui := newTestUI(t)

	ui, _ = update(t, ui, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, ui.showQuitModal)
	assert.Contains(t, ui.View(), "Quit Kiosk?")

	ui, _ = update(t, ui, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.False(t, ui.showQuitModal)

	ui, _ = update(t, ui, tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd := update(t, ui, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestConsoleUI_View(t *testing.T) {
	ui := newTestUI(t)
	ui, _ = update(t, ui, submitMsg("Bureau 101"))

	out := ui.View()
	assert.Contains(t, out, "KIOSK")
	assert.Contains(t, out, "Bureau 101")
}
