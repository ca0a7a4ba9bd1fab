package testing

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/forkfleet/internal/provisioning"
)

// CompletedRun returns a completed workflow run with the given conclusion.
func CompletedRun(name, conclusion string) *provisioning.WorkflowRunSnapshot {
	return &provisioning.WorkflowRunSnapshot{
		Name:       name,
		Status:     provisioning.WorkflowStatusCompleted,
		Conclusion: conclusion,
	}
}

// SuccessfulRun returns a completed run with conclusion success.
func SuccessfulRun(name string) *provisioning.WorkflowRunSnapshot {
	return CompletedRun(name, provisioning.WorkflowConclusionSuccess)
}

// InProgressRun returns a run that has not completed yet.
func InProgressRun(name string) *provisioning.WorkflowRunSnapshot {
	return &provisioning.WorkflowRunSnapshot{
		Name:   name,
		Status: provisioning.WorkflowStatusInProgress,
	}
}

// FastTimeouts returns job timeouts shrunk for tests: millisecond polls,
// budgets well under a second.
func FastTimeouts() provisioning.Timeouts {
	return provisioning.Timeouts{
		PollInterval:       time.Millisecond,
		InitWorkflow:       100 * time.Millisecond,
		CompletionWorkflow: 100 * time.Millisecond,
	}
}

// ScriptCreationSuccess scripts hosting and workspace mocks for the full
// create-and-initialize path of one service: repository absent, creation ok,
// both workflows succeed immediately, no init issue, clone succeeds.
func ScriptCreationSuccess(hosting *MockHostingClient, workspace *MockWorkspace, service, repoURL string) {
	hosting.On("Exists", mock.Anything, service).Return(false, nil)
	hosting.On("CreateFromTemplate", mock.Anything, service, mock.Anything, mock.Anything).Return(nil)
	hosting.On("FindWorkflowRun", mock.Anything, service, provisioning.InitWorkflowName).
		Return(SuccessfulRun(provisioning.InitWorkflowName), nil)
	hosting.On("FindWorkflowRun", mock.Anything, service, provisioning.CompletionWorkflowName).
		Return(SuccessfulRun(provisioning.CompletionWorkflowName), nil)
	hosting.On("FindOpenIssue", mock.Anything, service, mock.Anything).Return(nil, nil)
	hosting.On("RepositoryURL", service).Return(repoURL)
	workspace.On("CloneOrPull", mock.Anything, service, repoURL).Return(provisioning.SyncCloned, nil)
}

// ScriptExistingRepo scripts hosting and workspace mocks for the skip path:
// repository present remotely and locally, pull succeeds.
func ScriptExistingRepo(hosting *MockHostingClient, workspace *MockWorkspace, service, repoURL string) {
	hosting.On("Exists", mock.Anything, service).Return(true, nil)
	hosting.On("RepositoryURL", service).Return(repoURL)
	workspace.On("HasLocalCopy", service).Return(true)
	workspace.On("CloneOrPull", mock.Anything, service, repoURL).Return(provisioning.SyncPulled, nil)
}
