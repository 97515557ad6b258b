package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"example.com/kiosk/pkg/building"
	"example.com/kiosk/pkg/guidance"
	tea "github.com/charmbracelet/bubbletea"
)

// frameInterval paces the dash animation for a terminal; a GUI would use
// guidance.DefaultFrameInterval.
const frameInterval = 50 * time.Millisecond

type ConsoleConfig struct {
	APIBaseURL      string
	PublicBaseURL   string
	BuildingFile    string
	Language        guidance.Language
	InitialGuidance string
	Timeout         time.Duration
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:8080"),
		BuildingFile:    os.Getenv("BUILDING_FILE"),
		InitialGuidance: strings.Join(os.Args[1:], " "),
		Timeout:         30 * time.Second,
	}
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", cfg.APIBaseURL)

	lang, err := guidance.ParseLanguage(getEnv("KIOSK_LANGUAGE", string(guidance.LanguageFrench)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid KIOSK_LANGUAGE: %v\n", err)
		os.Exit(1)
	}
	cfg.Language = lang

	reg, err := building.LoadOrDefault(cfg.BuildingFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load building: %v\n", err)
		os.Exit(1)
	}
	planner := guidance.NewPlanner(reg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Frames are dropped while the UI is still drawing the previous one.
	frames := make(chan float64, 1)
	display := guidance.NewDisplay(planner, frameInterval, func(offset float64) {
		select {
		case frames <- offset:
		default:
		}
	})
	defer display.Close()

	ui := NewConsoleUI(cfg, planner, display, frames)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &http.Client{Timeout: cfg.Timeout}
	if testConnection(client, cfg.APIBaseURL) {
		ds, err := createDisplay(client, cfg.APIBaseURL, cfg.Language)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to register display: %v\n", err)
			os.Exit(1)
		}

		// The stream must outlive the request timeout.
		events := make(chan SSEEvent, 16)
		go func() {
			defer close(events)
			_ = listenToSSE(ctx, &http.Client{}, cfg.APIBaseURL, ds.ID, events)
		}()

		ui = ui.Online(client, ds.ID, events)
	} else {
		fmt.Fprintf(os.Stderr, "API not reachable at %s, running offline.\n", cfg.APIBaseURL)
	}

	p := tea.NewProgram(ui,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
