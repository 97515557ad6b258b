package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"example.com/kiosk/internal/handlers"
	"example.com/kiosk/pkg/state"
	"github.com/google/uuid"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running kiosk API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// a sequence may reference another sequence
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite registers a fresh display and executes every step against it
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	var ds state.DisplayState
	err := PostJSON(ctx, r.Client, r.BaseURL+"/v1/displays",
		handlers.CreateDisplayRequest{Language: suite.Language}, http.StatusCreated, &ds)
	if err != nil {
		result.Error = fmt.Errorf("failed to create display: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.Display = ds.ID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)

		stepCtx, cancel := context.WithTimeout(ctx, r.Timeout+WorkerTimeout)
		stepResult := r.executeStep(stepCtx, ds.ID, step)
		cancel()
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// executeStep performs one step and checks its expectations
func (r *Runner) executeStep(ctx context.Context, displayID uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}
	fail := func(err error) TestResult {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	base := fmt.Sprintf("%s/v1/displays/%s", r.BaseURL, displayID)

	var (
		gr       handlers.GuidanceResponse
		resolved *bool
		err      error
	)
	switch {
	case step.Visitor != nil:
		err = PostJSON(ctx, r.Client, base+"/visitor", handlers.VisitorRequest{
			Location: step.Visitor.Location,
			Contact:  step.Visitor.Contact,
		}, http.StatusOK, &gr)
		resolved = &gr.Resolved

	case step.SelectRoom != "":
		var sr handlers.SelectRoomResponse
		err = PostJSON(ctx, r.Client, base+"/rooms/"+step.SelectRoom+"/select",
			handlers.SelectRoomRequest{}, http.StatusAccepted, &sr)
		result.RequestID = sr.RequestID
		result.ResponseText = sr.Message

	default:
		err = PostJSON(ctx, r.Client, base+"/guidance",
			handlers.GuidanceRequest{Guidance: step.Guidance}, http.StatusOK, &gr)
		resolved = &gr.Resolved
	}
	if err != nil {
		return fail(err)
	}

	var ds *state.DisplayState
	if step.Expectations.EventuallyHighlight != nil {
		ds, err = PollForHighlight(ctx, r.Client, r.BaseURL, displayID, *step.Expectations.EventuallyHighlight)
	} else {
		ds, err = GetDisplay(ctx, r.Client, r.BaseURL, displayID)
	}
	if err != nil {
		return fail(err)
	}

	if err := checkExpectations(step.Expectations, resolved, ds, result.ResponseText); err != nil {
		return fail(fmt.Errorf("expectation failed: %w", err))
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

// checkExpectations validates a step against the display it left behind
func checkExpectations(exp Expectations, resolved *bool, ds *state.DisplayState, message string) error {
	if exp.Resolved != nil {
		if resolved == nil {
			return fmt.Errorf("resolved is only reported for guidance and visitor steps")
		}
		if *resolved != *exp.Resolved {
			return fmt.Errorf("expected resolved %t, got %t", *exp.Resolved, *resolved)
		}
	}

	if exp.Highlight != nil && ds.Highlight != *exp.Highlight {
		return fmt.Errorf("expected highlight %q, got %q", *exp.Highlight, ds.Highlight)
	}

	if exp.Guidance != nil && ds.Guidance != *exp.Guidance {
		return fmt.Errorf("expected guidance %q, got %q", *exp.Guidance, ds.Guidance)
	}

	if len(exp.Path) > 0 {
		if len(exp.Path) != len(ds.Path) {
			return fmt.Errorf("expected path %v, got %v", exp.Path, ds.Path)
		}
		for i := range exp.Path {
			if exp.Path[i] != ds.Path[i] {
				return fmt.Errorf("expected path %v, got %v", exp.Path, ds.Path)
			}
		}
	}

	for _, want := range exp.MessageContains {
		if !strings.Contains(message, want) {
			return fmt.Errorf("expected message to contain %q, got %q", want, message)
		}
	}

	return nil
}
