package main

import (
	"fmt"
	"net/http"
	"strings"

	"example.com/kiosk/internal/handlers"
	"example.com/kiosk/internal/services/events"
	"example.com/kiosk/pkg/building"
	"example.com/kiosk/pkg/guidance"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"
)

const (
	AgentName       = "Accueil"
	PlaceHolderText = "Type a guidance instruction..."

	// plan panel padding, used to map mouse clicks onto the grid
	planPadTop  = 1
	planPadLeft = 2
)

var (
	defaultClipboardWrite = clipboard.WriteAll
	clipboardWrite        = defaultClipboardWrite
)

// ConsoleUI is the BubbleTea model that runs the kiosk floor plan.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config   *ConsoleConfig
	planner  *guidance.Planner
	display  *guidance.Display
	frames   <-chan float64
	textarea textarea.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool

	// API connection; client is nil when running offline
	client    *http.Client
	displayID uuid.UUID
	events    <-chan SSEEvent

	offset   float64
	guidance string // last instruction that resolved
	rooms    []building.Room
	cursor   int
	log      []logLine

	showQuitModal bool
}

type logKind int

const (
	logInfo logKind = iota
	logVisitor
	logAgent
	logError
)

type logLine struct {
	kind logKind
	text string
}

type frameMsg float64

type sseMsg SSEEvent

type sseClosedMsg struct{}

// submitMsg asks the model to apply an instruction as if it were typed.
type submitMsg string

type guidanceSyncedMsg struct {
	resolved bool
	err      error
}

type roomSelectedMsg struct {
	resp *handlers.SelectRoomResponse
	err  error
}

type copiedMsg struct {
	url string
	err error
}

var (
	planPanelStyle = lipgloss.NewStyle().
			PaddingTop(planPadTop).
			PaddingLeft(planPadLeft)

	sidePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	visitorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, planner *guidance.Planner, display *guidance.Display, frames <-chan float64) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	vp := viewport.New(30, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:   cfg,
		planner:  planner,
		display:  display,
		frames:   frames,
		textarea: ta,
		viewport: vp,
		rooms:    planner.Registry().Rooms(),
	}
}

// Online attaches the model to a display registered with the API.
func (m ConsoleUI) Online(client *http.Client, displayID uuid.UUID, stream <-chan SSEEvent) ConsoleUI {
	m.client = client
	m.displayID = displayID
	m.events = stream
	return m
}

func (m ConsoleUI) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, waitForFrame(m.frames), waitForEvent(m.events)}
	if text := strings.TrimSpace(m.config.InitialGuidance); text != "" {
		cmds = append(cmds, func() tea.Msg { return submitMsg(text) })
	}
	return tea.Batch(cmds...)
}

func waitForFrame(frames <-chan float64) tea.Cmd {
	if frames == nil {
		return nil
	}
	return func() tea.Msg {
		return frameMsg(<-frames)
	}
}

func waitForEvent(ch <-chan SSEEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return sseClosedMsg{}
		}
		return sseMsg(ev)
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if room, ok := m.planView().roomAt(msg.X-planPadLeft, msg.Y-planPadTop); ok {
				return m.selectRoom(room)
			}
		}
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		planWidth, sideWidth := m.panelWidths()
		m.viewport.Width = sideWidth - 3
		m.viewport.Height = m.height - 2
		m.textarea.SetWidth(planWidth - planPadLeft)
		m.ready = true
		m.writeLog()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			return m.applyGuidance(input)
		case tea.KeyTab:
			m.cursor = (m.cursor + 1) % len(m.rooms)
			return m, nil
		case tea.KeyShiftTab:
			m.cursor = (m.cursor + len(m.rooms) - 1) % len(m.rooms)
			return m, nil
		case tea.KeyCtrlO:
			return m.selectRoom(m.rooms[m.cursor])
		case tea.KeyCtrlY:
			return m.share()
		}

	case submitMsg:
		return m.applyGuidance(string(msg))

	case frameMsg:
		m.offset = float64(msg)
		return m, waitForFrame(m.frames)

	case sseMsg:
		m.handleEvent(SSEEvent(msg))
		return m, waitForEvent(m.events)

	case sseClosedMsg:
		m.addLog(logError, "Event stream closed.")

	case guidanceSyncedMsg:
		if msg.err != nil {
			m.addLog(logError, "Error: "+msg.err.Error())
		}

	case roomSelectedMsg:
		if msg.err != nil {
			m.addLog(logError, "Error: "+msg.err.Error())
		} else {
			m.addLog(logInfo, "Queued request "+msg.resp.RequestID)
		}

	case copiedMsg:
		if msg.err != nil {
			m.addLog(logError, "Clipboard unavailable: "+msg.err.Error())
		}
		m.addLog(logInfo, "Share link: "+msg.url)
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

// applyGuidance plans text locally and mirrors it to the API when online.
func (m ConsoleUI) applyGuidance(text string) (tea.Model, tea.Cmd) {
	route, ok := m.display.Apply(text)
	if strings.TrimSpace(text) != "" {
		m.guidance = text
	}
	if ok {
		m.addLog(logInfo, fmt.Sprintf("Route to %s.", route.Room.Label))
	} else {
		m.addLog(logError, "No room recognised, keeping the current plan.")
	}

	if m.client == nil {
		return m, nil
	}
	client, base, id := m.client, m.config.APIBaseURL, m.displayID
	return m, func() tea.Msg {
		gr, err := postGuidance(client, base, id, text)
		if err != nil {
			return guidanceSyncedMsg{err: err}
		}
		return guidanceSyncedMsg{resolved: gr.Resolved}
	}
}

func (m ConsoleUI) selectRoom(room building.Room) (tea.Model, tea.Cmd) {
	for i := range m.rooms {
		if m.rooms[i].ID == room.ID {
			m.cursor = i
		}
	}
	m.addLog(logVisitor, guidance.RoomSelectionMessage(m.config.Language, room.Label, m.guidance))

	if m.client == nil {
		m.addLog(logError, "Offline, the message was not sent.")
		return m, nil
	}
	client, base, id, lang := m.client, m.config.APIBaseURL, m.displayID, m.config.Language
	return m, func() tea.Msg {
		resp, err := selectRoom(client, base, id, room.ID, lang)
		return roomSelectedMsg{resp: resp, err: err}
	}
}

func (m ConsoleUI) share() (tea.Model, tea.Cmd) {
	if m.guidance == "" {
		m.addLog(logError, "Nothing to share yet.")
		return m, nil
	}
	url := guidance.ShareURL(m.config.PublicBaseURL, m.guidance)
	return m, func() tea.Msg {
		return copiedMsg{url: url, err: clipboardWrite(url)}
	}
}

func (m *ConsoleUI) handleEvent(ev SSEEvent) {
	switch events.EventType(ev.Type) {
	case events.EventTypeGuidanceUpdated:
		text, _ := ev.Data["guidance"].(string)
		if text == "" || text == m.guidance {
			return
		}
		if _, ok := m.display.Apply(text); ok {
			m.guidance = text
			m.addLog(logAgent, text)
		}
	case events.EventTypeGuidanceUnresolved:
		if text, _ := ev.Data["guidance"].(string); text != "" {
			m.guidance = text
		}
	case events.EventTypeRequestCompleted:
		result, _ := ev.Data["result"].(map[string]interface{})
		messages, _ := result["messages"].([]interface{})
		for _, raw := range messages {
			msg, _ := raw.(map[string]interface{})
			body, _ := msg["text"].(string)
			if body == "" {
				body, _ = msg["content"].(string)
			}
			if body != "" {
				m.addLog(logAgent, body)
			}
		}
	case events.EventTypeRequestFailed:
		errMsg, _ := ev.Data["error"].(string)
		m.addLog(logError, "Request failed: "+errMsg)
	case "connected":
		m.addLog(logInfo, "Connected to event stream.")
	}
}

func (m *ConsoleUI) addLog(kind logKind, text string) {
	m.log = append(m.log, logLine{kind: kind, text: text})
	m.writeLog()
}

// writeLog rebuilds the side panel for the current viewport width
func (m *ConsoleUI) writeLog() {
	width := m.viewport.Width
	if width < 10 {
		width = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("KIOSK") + "\n\n")
	if m.client != nil {
		content.WriteString("Display: " + m.displayID.String()[:8] + "...\n")
	} else {
		content.WriteString("Display: offline\n")
	}
	content.WriteString("Language: " + string(m.config.Language) + "\n\n")
	content.WriteString(promptStyle.Render(wordwrap.String(
		"Enter: apply • Tab: next room • Ctrl+O: select • Ctrl+Y: share • Ctrl+C: quit", width)))
	content.WriteString("\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, line := range m.log {
		text := wordwrap.String(line.text, width)
		switch line.kind {
		case logVisitor:
			text = visitorStyle.Render(text)
		case logAgent:
			text = agentStyle.Render(AgentName+": ") + text
		case logError:
			text = errorStyle.Render(text)
		}
		content.WriteString(text + "\n\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

func (m ConsoleUI) panelWidths() (int, int) {
	planWidth := int(float64(m.width) * 0.7)
	return planWidth, m.width - planWidth
}

func (m ConsoleUI) planView() planView {
	planWidth, _ := m.panelWidths()
	// room for the separator and the textarea under the plan
	return newPlanView(m.planner.Registry(), planWidth-planPadLeft, m.height-planPadTop-4)
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameMsg:
		m.offset = float64(msg)
		return m, waitForFrame(m.frames)

	case sseMsg:
		m.handleEvent(SSEEvent(msg))
		return m, waitForEvent(m.events)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Kiosk?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to close the floor plan?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	planWidth, sideWidth := m.panelWidths()
	view := m.planView()

	planPanel := planPanelStyle.Width(planWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			view.Render(m.display.Route(), m.offset, m.rooms[m.cursor].ID),
			"",
			separatorStyle.Render(strings.Repeat("─", max(planWidth-planPadLeft, 0))),
			m.textarea.View(),
		),
	)

	sidePanel := sidePanelStyle.Width(sideWidth).Render(m.viewport.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, planPanel, sidePanel)
}
