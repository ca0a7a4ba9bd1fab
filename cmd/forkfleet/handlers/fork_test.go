package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/forkfleet/internal/config"
	"github.com/imamik/forkfleet/internal/orchestration"
	"github.com/imamik/forkfleet/internal/provisioning"
	"github.com/imamik/forkfleet/internal/report"
	"github.com/imamik/forkfleet/internal/util/prerequisites"
	"github.com/imamik/forkfleet/internal/util/retry"
)

func TestFork_NoConfigFile(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) {
		return nil, fmt.Errorf("failed to read config file: %w", os.ErrNotExist)
	}

	err := Fork(context.Background(), "", nil, true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "forkfleet init")
}

func TestFork_ConfigLoadError(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) {
		return nil, errors.New("bad yaml")
	}

	err := Fork(context.Background(), "fleet.yaml", nil, true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestFork_MissingToken(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	cfg.Token = ""
	loadConfigFile = func(_ string) (*config.Config, error) { return cfg, nil }

	err := Fork(context.Background(), "fleet.yaml", nil, true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
}

func TestFork_PrereqFailure(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }
	checkDefaultPrereqs = func() *prerequisites.CheckResults {
		git := prerequisites.Tool{Name: "git", Required: true, InstallURL: "https://git-scm.com"}
		return &prerequisites.CheckResults{
			Results: []prerequisites.CheckResult{{Tool: git, Found: false}},
			Missing: []prerequisites.Tool{git},
		}
	}

	err := Fork(context.Background(), "fleet.yaml", nil, true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "prerequisites check failed")
}

func TestFork_PlainRunSuccess(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }

	runner := &mockRunner{run: makeRun(
		provisioning.Result{Service: "partition", Status: provisioning.StatusSuccess, Message: "Repository initialized successfully"},
		provisioning.Result{Service: "legal", Status: provisioning.StatusSkipped, Message: "Repository already initialized"},
	)}
	newFleetRunner = func(_ orchestration.Params) fleetRunner { return runner }

	var reportDir string
	var written *report.RunReport
	writeReport = func(dir string, r *report.RunReport) (string, error) {
		reportDir = dir
		written = r
		return dir + "/run.json", nil
	}

	var err error
	out := captureOutput(func() {
		err = Fork(context.Background(), "fleet.yaml", nil, true)
	})

	require.NoError(t, err)
	assert.Contains(t, out, "Fleet run complete")
	assert.Contains(t, out, "partition")
	assert.Contains(t, out, "1 initialized, 1 skipped, 0 failed")

	assert.Equal(t, "reports", reportDir)
	require.NotNil(t, written)
	assert.Equal(t, "osdu-forks", written.Organization)
	assert.True(t, written.AllOK)
}

func TestFork_FailureReturnsError(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }
	newFleetRunner = func(_ orchestration.Params) fleetRunner {
		return &mockRunner{run: makeRun(
			provisioning.Result{Service: "partition", Status: provisioning.StatusSuccess, Message: "Repository initialized successfully"},
			provisioning.Result{Service: "legal", Status: provisioning.StatusError, Message: "Failed to create repository: 422"},
		)}
	}

	var err error
	captureOutput(func() {
		err = Fork(context.Background(), "fleet.yaml", nil, true)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "legal")
}

func TestFork_DefaultsToCatalogServices(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }

	runner := &mockRunner{run: makeRun(
		provisioning.Result{Service: "partition", Status: provisioning.StatusSuccess},
		provisioning.Result{Service: "legal", Status: provisioning.StatusSuccess},
	)}
	newFleetRunner = func(_ orchestration.Params) fleetRunner { return runner }

	captureOutput(func() {
		_ = Fork(context.Background(), "fleet.yaml", nil, true)
	})

	assert.Equal(t, []string{"partition", "legal"}, runner.gotServices)
}

func TestFork_ExplicitServicesPassedThrough(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }

	runner := &mockRunner{run: makeRun(
		provisioning.Result{Service: "legal", Status: provisioning.StatusSuccess},
	)}
	newFleetRunner = func(_ orchestration.Params) fleetRunner { return runner }

	captureOutput(func() {
		_ = Fork(context.Background(), "fleet.yaml", []string{"legal"}, true)
	})

	assert.Equal(t, []string{"legal"}, runner.gotServices)
}

func TestFork_ReportWriteFailureDoesNotFailRun(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }
	newFleetRunner = func(_ orchestration.Params) fleetRunner {
		return &mockRunner{run: makeRun(
			provisioning.Result{Service: "partition", Status: provisioning.StatusSuccess},
			provisioning.Result{Service: "legal", Status: provisioning.StatusSuccess},
		)}
	}
	writeReport = func(_ string, _ *report.RunReport) (string, error) {
		return "", errors.New("disk full")
	}

	var err error
	captureOutput(func() {
		err = Fork(context.Background(), "fleet.yaml", nil, true)
	})

	assert.NoError(t, err)
}

// testConfig returns a small two-service fleet configuration.
func testConfig() *config.Config {
	return &config.Config{
		Organization:  "osdu-forks",
		Template:      "azure/osdu-spi",
		Token:         "test-token",
		DefaultBranch: "main",
		CloneRoot:     "repos",
		ReportDir:     "reports",
		Services: []config.ServiceSpec{
			{Name: "partition", Upstream: "https://example.com/osdu/partition.git"},
			{Name: "legal", Upstream: "https://example.com/osdu/legal.git"},
		},
	}
}

// makeRun builds a finished orchestration run from the given results.
func makeRun(results ...provisioning.Result) *orchestration.Run {
	run := &orchestration.Run{
		ID:         "run-test",
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
		Results:    make(map[string]provisioning.Result, len(results)),
	}
	for _, res := range results {
		run.Results[res.Service] = res
	}
	return run
}

// mockRunner implements fleetRunner and records the requested services.
type mockRunner struct {
	run         *orchestration.Run
	gotServices []string
}

func (m *mockRunner) ProvisionAll(_ context.Context, services []string) *orchestration.Run {
	m.gotServices = services
	return m.run
}

// fakeHosting implements provisioning.HostingClient for handler tests.
type fakeHosting struct {
	existing  map[string]bool
	existsErr error
}

func (f *fakeHosting) Exists(_ context.Context, service string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[service], nil
}

func (f *fakeHosting) CreateFromTemplate(context.Context, string, string, string) error {
	return nil
}

func (f *fakeHosting) FindWorkflowRun(context.Context, string, string) (*provisioning.WorkflowRunSnapshot, error) {
	return nil, nil
}

func (f *fakeHosting) FindOpenIssue(context.Context, string, string) (*provisioning.IssueRef, error) {
	return nil, nil
}

func (f *fakeHosting) CommentOnIssue(context.Context, string, provisioning.IssueRef, string) error {
	return nil
}

func (f *fakeHosting) RepositoryURL(service string) string {
	return "https://github.com/osdu-forks/" + service
}

// fakeWorkspace implements provisioning.Workspace for handler tests.
type fakeWorkspace struct {
	local map[string]bool
}

func (f *fakeWorkspace) HasLocalCopy(service string) bool {
	return f.local[service]
}

func (f *fakeWorkspace) CloneOrPull(context.Context, string, string) (provisioning.SyncAction, error) {
	return provisioning.SyncCloned, nil
}

// saveAndRestoreFactories snapshots every factory variable and restores it
// when the test finishes.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLoadConfigFile := loadConfigFile
	origLoadTimeouts := loadTimeouts
	origCheckDefaultPrereqs := checkDefaultPrereqs
	origCheckAllPrereqs := checkAllPrereqs
	origNewHostingClient := newHostingClient
	origNewWorkspace := newWorkspace
	origNewFleetRunner := newFleetRunner
	origRunFleetTUI := runFleetTUI
	origWriteReport := writeReport
	origFileExists := fileExists
	origRunWizard := runWizard
	origWriteConfigFile := writeConfigFile
	origNewArchiveClient := newArchiveClient
	origLoadLatestReport := loadLatestReport
	origOpenTranscript := openTranscript

	t.Cleanup(func() {
		loadConfigFile = origLoadConfigFile
		loadTimeouts = origLoadTimeouts
		checkDefaultPrereqs = origCheckDefaultPrereqs
		checkAllPrereqs = origCheckAllPrereqs
		newHostingClient = origNewHostingClient
		newWorkspace = origNewWorkspace
		newFleetRunner = origNewFleetRunner
		runFleetTUI = origRunFleetTUI
		writeReport = origWriteReport
		fileExists = origFileExists
		runWizard = origRunWizard
		writeConfigFile = origWriteConfigFile
		newArchiveClient = origNewArchiveClient
		loadLatestReport = origLoadLatestReport
		openTranscript = origOpenTranscript
	})

	// Tests never exercise real tools, GitHub, or git.
	checkDefaultPrereqs = func() *prerequisites.CheckResults {
		git := prerequisites.Tool{Name: "git", Required: true}
		return &prerequisites.CheckResults{
			Results: []prerequisites.CheckResult{{Tool: git, Found: true, Version: "git version 2.43.0"}},
		}
	}
	checkAllPrereqs = checkDefaultPrereqs
	newHostingClient = func(_, _ string, _ logr.Logger, _ ...retry.Option) provisioning.HostingClient {
		return &fakeHosting{}
	}
	newWorkspace = func(_ string, _ logr.Logger) provisioning.Workspace {
		return &fakeWorkspace{}
	}
}

// captureOutput redirects stdout for the duration of f and returns what
// was written.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}
