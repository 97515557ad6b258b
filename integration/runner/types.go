package runner

import (
	"time"

	"example.com/kiosk/pkg/building"
	"github.com/google/uuid"
)

// TestSuite defines a scripted kiosk session against one display.
// It either has Steps, or references other case files through Cases.
type TestSuite struct {
	Name     string     `json:"name"`
	Language string     `json:"language,omitempty"`
	Steps    []TestStep `json:"steps,omitempty"`
	Cases    []string   `json:"cases,omitempty"`
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one interaction with the display. Exactly one of Guidance,
// Visitor or SelectRoom should be set.
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Guidance     string       `json:"guidance,omitempty"`
	Visitor      *Visitor     `json:"visitor,omitempty"`
	SelectRoom   string       `json:"select_room,omitempty"`
	Expectations Expectations `json:"expect"`
}

// Visitor is a registration as the reception desk would send it
type Visitor struct {
	Location string `json:"location,omitempty"`
	Contact  string `json:"contact,omitempty"`
}

// Expectations defines what to check after a step executes
type Expectations struct {
	Resolved  *bool            `json:"resolved,omitempty"`
	Highlight *string          `json:"highlight,omitempty"`
	Guidance  *string          `json:"guidance,omitempty"`
	Path      []building.Point `json:"path,omitempty"`

	// Room selection
	MessageContains []string `json:"message_contains,omitempty"`
	// Waits for the worker to apply the chat backend's guidance
	EventuallyHighlight *string `json:"eventually_highlight,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	ResponseText string
	RequestID    string
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	Display  uuid.UUID // display created for this run
}
