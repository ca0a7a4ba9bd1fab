package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/forkfleet/internal/provisioning"
)

// MockHostingClient is a mock implementation of provisioning.HostingClient.
// It can be shared by every test that needs to script hosting behavior.
type MockHostingClient struct {
	mock.Mock
}

// NewMockHostingClient creates an unscripted hosting mock.
func NewMockHostingClient() *MockHostingClient {
	return &MockHostingClient{}
}

// Exists reports whether the scripted repository exists.
func (m *MockHostingClient) Exists(ctx context.Context, service string) (bool, error) {
	args := m.Called(ctx, service)
	return args.Bool(0), args.Error(1)
}

// CreateFromTemplate returns the scripted creation outcome.
func (m *MockHostingClient) CreateFromTemplate(ctx context.Context, service, templateRef, branch string) error {
	args := m.Called(ctx, service, templateRef, branch)
	return args.Error(0)
}

// FindWorkflowRun returns the scripted workflow run snapshot.
func (m *MockHostingClient) FindWorkflowRun(ctx context.Context, service, nameSubstring string) (*provisioning.WorkflowRunSnapshot, error) {
	args := m.Called(ctx, service, nameSubstring)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provisioning.WorkflowRunSnapshot), args.Error(1)
}

// FindOpenIssue returns the scripted issue reference.
func (m *MockHostingClient) FindOpenIssue(ctx context.Context, service, titleSubstring string) (*provisioning.IssueRef, error) {
	args := m.Called(ctx, service, titleSubstring)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provisioning.IssueRef), args.Error(1)
}

// CommentOnIssue returns the scripted comment outcome.
func (m *MockHostingClient) CommentOnIssue(ctx context.Context, service string, issue provisioning.IssueRef, body string) error {
	args := m.Called(ctx, service, issue, body)
	return args.Error(0)
}

// RepositoryURL returns the scripted browse URL.
func (m *MockHostingClient) RepositoryURL(service string) string {
	args := m.Called(service)
	return args.String(0)
}

// MockWorkspace is a mock implementation of provisioning.Workspace.
type MockWorkspace struct {
	mock.Mock
}

// NewMockWorkspace creates an unscripted workspace mock.
func NewMockWorkspace() *MockWorkspace {
	return &MockWorkspace{}
}

// HasLocalCopy reports the scripted local-copy presence.
func (m *MockWorkspace) HasLocalCopy(service string) bool {
	args := m.Called(service)
	return args.Bool(0)
}

// CloneOrPull returns the scripted sync action.
func (m *MockWorkspace) CloneOrPull(ctx context.Context, service, repoURL string) (provisioning.SyncAction, error) {
	args := m.Called(ctx, service, repoURL)
	return args.Get(0).(provisioning.SyncAction), args.Error(1)
}
