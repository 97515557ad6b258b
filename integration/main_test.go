//go:build integration
// +build integration

package integration

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"example.com/kiosk/integration/runner"
)

const casesDir = "cases"

var (
	caseFlag = flag.String("case", "", "comma-separated case names from integration/cases/ (sequences are expanded)")
	errFlag  = flag.String("err", "continue", "on a failed step: 'continue' with the next step or 'exit' the suite")
)

func TestMain(m *testing.M) {
	flag.Parse()
	fmt.Printf("Kiosk integration tests against %s\n", apiBaseURL())
	os.Exit(m.Run())
}

// TestIntegrationSuites runs every standalone case. Sequences only regroup
// cases that are already picked up on their own.
func TestIntegrationSuites(t *testing.T) {
	requireAPI(t)

	files, err := filepath.Glob(filepath.Join(casesDir, "*.json"))
	if err != nil {
		t.Fatalf("listing %s: %v", casesDir, err)
	}

	var jobs []runner.TestJob
	for _, file := range files {
		suite, err := runner.LoadTestSuite(file)
		if err != nil {
			t.Errorf("loading %s: %v", file, err)
			continue
		}
		if !suite.IsSequence() {
			jobs = append(jobs, runner.TestJob{Name: suite.Name, Suite: suite, CaseFile: file})
		}
	}
	if len(jobs) == 0 {
		t.Fatalf("no runnable cases in %s", casesDir)
	}

	runJobs(t, newRunner(runner.ErrorHandlingContinue), jobs)
}

// TestSingleSuite runs the cases named by -case, e.g. -case "full_route,smoke".
func TestSingleSuite(t *testing.T) {
	if *caseFlag == "" {
		t.Skip("no -case given")
	}
	mode := runner.ErrorHandlingMode(*errFlag)
	if mode != runner.ErrorHandlingExit && mode != runner.ErrorHandlingContinue {
		t.Fatalf("-err must be 'exit' or 'continue', got %q", *errFlag)
	}
	requireAPI(t)

	var jobs []runner.TestJob
	for _, name := range caseFiles(*caseFlag) {
		expanded, err := runner.LoadTestSuiteWithExpansion(name, casesDir)
		if err != nil {
			t.Fatalf("loading %s: %v", name, err)
		}
		jobs = append(jobs, expanded...)
	}
	if len(jobs) == 0 {
		t.Fatalf("-case %q names no cases", *caseFlag)
	}

	runJobs(t, newRunner(mode), jobs)
}

// runJobs gives each suite its own subtest so failures are reported per case.
func runJobs(t *testing.T, r *runner.Runner, jobs []runner.TestJob) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	passed := 0
	for _, job := range jobs {
		ok := t.Run(job.Name, func(t *testing.T) {
			result, err := r.RunSuite(ctx, job.Suite)
			t.Logf("display %s, %d steps in %v", result.Display, len(result.Results), result.Duration)

			for _, step := range result.Results {
				if step.Success {
					t.Logf("ok   %s (%v)", step.StepName, step.Duration)
				} else {
					t.Errorf("FAIL %s: %v", step.StepName, step.Error)
				}
			}
			if err == nil {
				err = result.Error
			}
			if err != nil {
				t.Fatalf("suite failed: %v", err)
			}
		})
		if ok {
			passed++
		} else if r.ErrorHandlingMode == runner.ErrorHandlingExit {
			break
		}
	}
	t.Logf("%d/%d suites passed", passed, len(jobs))
}

func newRunner(mode runner.ErrorHandlingMode) *runner.Runner {
	r := runner.NewRunner(apiBaseURL())
	r.Timeout = time.Duration(intEnv("TEST_TIMEOUT_SECONDS", 30)) * time.Second
	r.ErrorHandlingMode = mode
	r.Logger = func(format string, args ...interface{}) {
		fmt.Printf(format+"\n", args...)
	}
	return r
}

// requireAPI skips instead of failing when no kiosk API is listening.
func requireAPI(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(apiBaseURL() + "/health")
	if err != nil {
		t.Skipf("kiosk API not reachable at %s: %v", apiBaseURL(), err)
	}
	_ = resp.Body.Close()
}

func caseFiles(list string) []string {
	var files []string
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !strings.HasSuffix(name, ".json") {
			name += ".json"
		}
		files = append(files, filepath.Join(casesDir, name))
	}
	return files
}

func apiBaseURL() string {
	if url, ok := os.LookupEnv("API_BASE_URL"); ok && url != "" {
		return strings.TrimRight(url, "/")
	}
	return "http://localhost:8080"
}

func intEnv(name string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return v
}
