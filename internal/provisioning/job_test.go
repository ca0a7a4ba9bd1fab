package provisioning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/forkfleet/internal/provisioning"
	ftest "github.com/imamik/forkfleet/internal/testing"
)

const (
	testTemplate = "testorg/service-template"
	testUpstream = "https://example.org/upstream/partition"
)

func newTestJob(hosting *ftest.MockHostingClient, workspace *ftest.MockWorkspace, sink provisioning.StatusSink) *provisioning.Job {
	return provisioning.NewJob(provisioning.JobParams{
		Service:     "partition",
		Branch:      "main",
		TemplateRef: testTemplate,
		Upstream:    testUpstream,
		Hosting:     hosting,
		Workspace:   workspace,
		Sink:        sink,
		Timeouts:    ftest.FastTimeouts(),
	})
}

func TestJobCreatesAndInitializes(t *testing.T) {
	t.Parallel()

	hosting := ftest.NewMockHostingClient()
	workspace := ftest.NewMockWorkspace()
	sink := ftest.NewRecordingSink()
	ftest.ScriptCreationSuccess(hosting, workspace, "partition", "https://github.com/testorg/partition")

	result := newTestJob(hosting, workspace, sink).Run(ftest.TestContext(t))

	require.Equal(t, provisioning.StatusSuccess, result.Status)
	assert.Equal(t, "partition", result.Service)
	assert.Equal(t, "Repository initialized successfully", result.Message)
	assert.Equal(t, "https://github.com/testorg/partition", result.RepoURL)

	hosting.AssertExpectations(t)
	workspace.AssertExpectations(t)
}

func TestJobReportsEveryTransition(t *testing.T) {
	t.Parallel()

	hosting := ftest.NewMockHostingClient()
	workspace := ftest.NewMockWorkspace()
	sink := ftest.NewRecordingSink()
	ftest.ScriptCreationSuccess(hosting, workspace, "partition", "https://github.com/testorg/partition")

	newTestJob(hosting, workspace, sink).Run(ftest.TestContext(t))

	var details []string
	var kinds []provisioning.StatusKind
	for _, u := range sink.ForService("partition") {
		details = append(details, u.Detail)
		kinds = append(kinds, u.Status)
	}

	assert.Equal(t, []string{
		"Checking if repository exists...",
		"Creating repository from template...",
		"Waiting for Initialize Fork workflow...",
		"Commenting on initialization issue...",
		"Waiting for Initialize Complete workflow...",
		"Cloning repository locally...",
		"Repository initialized successfully",
	}, details)
	assert.Equal(t, []provisioning.StatusKind{
		provisioning.StatusRunning,
		provisioning.StatusRunning,
		provisioning.StatusWaiting,
		provisioning.StatusRunning,
		provisioning.StatusWaiting,
		provisioning.StatusRunning,
		provisioning.StatusSuccess,
	}, kinds)
}

func TestJobSkipsExistingRepo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		hasLocal    bool
		wantMessage string
	}{
		{name: "local copy present", hasLocal: true, wantMessage: "Repository exists - synced latest changes"},
		{name: "local copy absent", hasLocal: false, wantMessage: "Repository exists - cloned locally"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hosting := ftest.NewMockHostingClient()
			workspace := ftest.NewMockWorkspace()
			hosting.On("Exists", mock.Anything, "partition").Return(true, nil)
			hosting.On("RepositoryURL", "partition").Return("https://github.com/testorg/partition")
			workspace.On("HasLocalCopy", "partition").Return(tt.hasLocal)
			workspace.On("CloneOrPull", mock.Anything, "partition", "https://github.com/testorg/partition").
				Return(provisioning.SyncPulled, nil)

			result := newTestJob(hosting, workspace, nil).Run(ftest.TestContext(t))

			require.Equal(t, provisioning.StatusSkipped, result.Status)
			assert.Equal(t, tt.wantMessage, result.Message)
			assert.Equal(t, "https://github.com/testorg/partition", result.RepoURL)
			hosting.AssertNotCalled(t, "CreateFromTemplate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestJobCreateFailureIsFatal(t *testing.T) {
	t.Parallel()

	hosting := ftest.NewMockHostingClient()
	workspace := ftest.NewMockWorkspace()
	hosting.On("Exists", mock.Anything, "partition").Return(false, nil)
	hosting.On("CreateFromTemplate", mock.Anything, "partition", testTemplate, "main").
		Return(errors.New("name already taken"))

	result := newTestJob(hosting, workspace, nil).Run(ftest.TestContext(t))

	require.Equal(t, provisioning.StatusError, result.Status)
	assert.Contains(t, result.Message, "Failed to create repository")
	assert.Contains(t, result.Message, "name already taken")
	assert.Empty(t, result.RepoURL)
	hosting.AssertNotCalled(t, "FindWorkflowRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestJobFailsOnWorkflowConclusion(t *testing.T) {
	t.Parallel()

	hosting := ftest.NewMockHostingClient()
	workspace := ftest.NewMockWorkspace()
	hosting.On("Exists", mock.Anything, "partition").Return(false, nil)
	hosting.On("CreateFromTemplate", mock.Anything, "partition", testTemplate, "main").Return(nil)
	hosting.On("RepositoryURL", "partition").Return("https://github.com/testorg/partition")
	hosting.On("FindWorkflowRun", mock.Anything, "partition", provisioning.InitWorkflowName).
		Return(ftest.CompletedRun(provisioning.InitWorkflowName, "failure"), nil)

	result := newTestJob(hosting, workspace, nil).Run(ftest.TestContext(t))

	require.Equal(t, provisioning.StatusError, result.Status)
	assert.Equal(t, "Initialize Fork workflow failed: failure", result.Message)
}

func TestJobFailsOnWorkflowTimeout(t *testing.T) {
	t.Parallel()

	hosting := ftest.NewMockHostingClient()
	workspace := ftest.NewMockWorkspace()
	hosting.On("Exists", mock.Anything, "partition").Return(false, nil)
	hosting.On("CreateFromTemplate", mock.Anything, "partition", testTemplate, "main").Return(nil)
	hosting.On("RepositoryURL", "partition").Return("https://github.com/testorg/partition")
	hosting.On("FindWorkflowRun", mock.Anything, "partition", provisioning.InitWorkflowName).
		Return(ftest.InProgressRun(provisioning.InitWorkflowName), nil)

	result := newTestJob(hosting, workspace, nil).Run(ftest.TestContext(t))

	require.Equal(t, provisioning.StatusError, result.Status)
	// The budget renders in whole seconds, so the fast test budget shows as 0s.
	assert.Contains(t, result.Message, "Initialize Fork workflow did not complete within 0s")
}

func TestJobKeepsPollingUntilRunAppears(t *testing.T) {
	t.Parallel()

	hosting := ftest.NewMockHostingClient()
	workspace := ftest.NewMockWorkspace()
	hosting.On("Exists", mock.Anything, "partition").Return(false, nil)
	hosting.On("CreateFromTemplate", mock.Anything, "partition", testTemplate, "main").Return(nil)
	hosting.On("RepositoryURL", "partition").Return("https://github.com/testorg/partition")

	// The workflow is invisible for two polls, runs on the third, completes on the fourth.
	hosting.On("FindWorkflowRun", mock.Anything, "partition", provisioning.InitWorkflowName).
		Return(nil, nil).Twice()
	hosting.On("FindWorkflowRun", mock.Anything, "partition", provisioning.InitWorkflowName).
		Return(ftest.InProgressRun(provisioning.InitWorkflowName), nil).Once()
	hosting.On("FindWorkflowRun", mock.Anything, "partition", provisioning.InitWorkflowName).
		Return(ftest.SuccessfulRun(provisioning.InitWorkflowName), nil)
	hosting.On("FindWorkflowRun", mock.Anything, "partition", provisioning.CompletionWorkflowName).
		Return(ftest.SuccessfulRun(provisioning.CompletionWorkflowName), nil)
	hosting.On("FindOpenIssue", mock.Anything, "partition", mock.Anything).Return(nil, nil)
	workspace.On("CloneOrPull", mock.Anything, "partition", mock.Anything).Return(provisioning.SyncCloned, nil)

	result := newTestJob(hosting, workspace, nil).Run(ftest.TestContext(t))

	require.Equal(t, provisioning.StatusSuccess, result.Status)
}

func TestJobIssueAnnotationIsNonFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script func(hosting *ftest.MockHostingClient)
	}{
		{
			name: "issue not found",
			script: func(hosting *ftest.MockHostingClient) {
				hosting.On("FindOpenIssue", mock.Anything, "partition", provisioning.InitIssueTitle).Return(nil, nil)
			},
		},
		{
			name: "issue lookup fails",
			script: func(hosting *ftest.MockHostingClient) {
				hosting.On("FindOpenIssue", mock.Anything, "partition", provisioning.InitIssueTitle).
					Return(nil, errors.New("boom"))
			},
		},
		{
			name: "comment fails",
			script: func(hosting *ftest.MockHostingClient) {
				issue := &provisioning.IssueRef{Number: 7, Title: "Initialization Required"}
				hosting.On("FindOpenIssue", mock.Anything, "partition", provisioning.InitIssueTitle).Return(issue, nil)
				hosting.On("CommentOnIssue", mock.Anything, "partition", *issue, testUpstream).
					Return(errors.New("forbidden"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hosting := ftest.NewMockHostingClient()
			workspace := ftest.NewMockWorkspace()
			hosting.On("Exists", mock.Anything, "partition").Return(false, nil)
			hosting.On("CreateFromTemplate", mock.Anything, "partition", testTemplate, "main").Return(nil)
			hosting.On("RepositoryURL", "partition").Return("https://github.com/testorg/partition")
			hosting.On("FindWorkflowRun", mock.Anything, "partition", provisioning.InitWorkflowName).
				Return(ftest.SuccessfulRun(provisioning.InitWorkflowName), nil)
			hosting.On("FindWorkflowRun", mock.Anything, "partition", provisioning.CompletionWorkflowName).
				Return(ftest.SuccessfulRun(provisioning.CompletionWorkflowName), nil)
			workspace.On("CloneOrPull", mock.Anything, "partition", mock.Anything).Return(provisioning.SyncCloned, nil)
			tt.script(hosting)

			result := newTestJob(hosting, workspace, nil).Run(ftest.TestContext(t))

			require.Equal(t, provisioning.StatusSuccess, result.Status)
			assert.Equal(t, "Repository initialized successfully", result.Message)
		})
	}
}

func TestJobPostsUpstreamOnInitIssue(t *testing.T) {
	t.Parallel()

	hosting := ftest.NewMockHostingClient()
	workspace := ftest.NewMockWorkspace()
	issue := &provisioning.IssueRef{Number: 3, Title: "Initialization Required: configure SPI"}
	hosting.On("Exists", mock.Anything, "partition").Return(false, nil)
	hosting.On("CreateFromTemplate", mock.Anything, "partition", testTemplate, "main").Return(nil)
	hosting.On("RepositoryURL", "partition").Return("https://github.com/testorg/partition")
	hosting.On("FindWorkflowRun", mock.Anything, "partition", provisioning.InitWorkflowName).
		Return(ftest.SuccessfulRun(provisioning.InitWorkflowName), nil)
	hosting.On("FindWorkflowRun", mock.Anything, "partition", provisioning.CompletionWorkflowName).
		Return(ftest.SuccessfulRun(provisioning.CompletionWorkflowName), nil)
	hosting.On("FindOpenIssue", mock.Anything, "partition", provisioning.InitIssueTitle).Return(issue, nil)
	hosting.On("CommentOnIssue", mock.Anything, "partition", *issue, testUpstream).Return(nil)
	workspace.On("CloneOrPull", mock.Anything, "partition", mock.Anything).Return(provisioning.SyncCloned, nil)

	result := newTestJob(hosting, workspace, nil).Run(ftest.TestContext(t))

	require.Equal(t, provisioning.StatusSuccess, result.Status)
	hosting.AssertExpectations(t)
}

func TestJobUnknownService(t *testing.T) {
	t.Parallel()

	hosting := ftest.NewMockHostingClient()
	workspace := ftest.NewMockWorkspace()

	job := provisioning.NewJob(provisioning.JobParams{
		Service:     "mystery",
		Branch:      "main",
		TemplateRef: testTemplate,
		Hosting:     hosting,
		Workspace:   workspace,
		Timeouts:    ftest.FastTimeouts(),
	})
	result := job.Run(ftest.TestContext(t))

	require.Equal(t, provisioning.StatusError, result.Status)
	assert.Equal(t, "Unknown service: mystery", result.Message)
	hosting.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestJobExistenceCheckErrorFailsJob(t *testing.T) {
	t.Parallel()

	hosting := ftest.NewMockHostingClient()
	workspace := ftest.NewMockWorkspace()
	hosting.On("Exists", mock.Anything, "partition").
		Return(false, provisioning.Transient(errors.New("502 bad gateway")))

	result := newTestJob(hosting, workspace, nil).Run(ftest.TestContext(t))

	require.Equal(t, provisioning.StatusError, result.Status)
	assert.Contains(t, result.Message, "Unexpected error")
	assert.Contains(t, result.Message, "502 bad gateway")
}

func TestJobCancellationSurfacesAsError(t *testing.T) {
	t.Parallel()

	hosting := ftest.NewMockHostingClient()
	workspace := ftest.NewMockWorkspace()
	hosting.On("Exists", mock.Anything, "partition").Return(false, nil)
	hosting.On("CreateFromTemplate", mock.Anything, "partition", testTemplate, "main").Return(nil)
	hosting.On("RepositoryURL", "partition").Return("https://github.com/testorg/partition")
	hosting.On("FindWorkflowRun", mock.Anything, "partition", provisioning.InitWorkflowName).
		Return(ftest.InProgressRun(provisioning.InitWorkflowName), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := newTestJob(hosting, workspace, nil).Run(ctx)

	require.Equal(t, provisioning.StatusError, result.Status)
	assert.Contains(t, result.Message, "Cancelled while waiting for Initialize Fork workflow")
}

func TestJobToleratesLocalSyncFailure(t *testing.T) {
	t.Parallel()

	hosting := ftest.NewMockHostingClient()
	workspace := ftest.NewMockWorkspace()
	hosting.On("Exists", mock.Anything, "partition").Return(true, nil)
	hosting.On("RepositoryURL", "partition").Return("https://github.com/testorg/partition")
	workspace.On("HasLocalCopy", "partition").Return(true)
	workspace.On("CloneOrPull", mock.Anything, "partition", mock.Anything).
		Return(provisioning.SyncAction(""), errors.New("git pull: connection reset"))

	result := newTestJob(hosting, workspace, nil).Run(ftest.TestContext(t))

	require.Equal(t, provisioning.StatusSkipped, result.Status)
	assert.Equal(t, "Repository exists - synced latest changes", result.Message)
}
