package provisioning

import "context"

// Workflow run status values as reported by the hosting API.
const (
	WorkflowStatusQueued     = "queued"
	WorkflowStatusInProgress = "in_progress"
	WorkflowStatusCompleted  = "completed"
)

// WorkflowConclusionSuccess is the only conclusion that advances a job.
const WorkflowConclusionSuccess = "success"

// WorkflowRunSnapshot is a point-in-time view of a workflow run.
// Conclusion is empty until Status is completed.
type WorkflowRunSnapshot struct {
	Name       string
	Status     string
	Conclusion string
}

// Completed reports whether the run has finished, successfully or not.
func (s WorkflowRunSnapshot) Completed() bool {
	return s.Status == WorkflowStatusCompleted
}

// IssueRef identifies an open issue on a service repository.
type IssueRef struct {
	Number int
	Title  string
}

// SyncAction reports what a workspace sync did to the local copy.
type SyncAction string

const (
	// SyncCloned means a fresh clone was created.
	SyncCloned SyncAction = "cloned"
	// SyncPulled means an existing clone was updated.
	SyncPulled SyncAction = "pulled"
)

// HostingClient is the remote repository-hosting surface a job consumes.
// It is stateless and safe for concurrent use across jobs; retry policy for
// transient failures lives inside the implementation, never in the job.
type HostingClient interface {
	// Exists reports whether the service repository exists. Failures are
	// classified as transient (network, 5xx, throttling) or permanent
	// (auth, permission); see IsTransient and IsPermanent.
	Exists(ctx context.Context, service string) (bool, error)

	// CreateFromTemplate instantiates the service repository from the
	// template repository reference ("owner/repo") on the given branch.
	CreateFromTemplate(ctx context.Context, service, templateRef, branch string) error

	// FindWorkflowRun returns the most recent run whose display name
	// contains nameSubstring (case-insensitive), inspecting only the ~10
	// most recent runs. Returns nil when no such run is visible yet.
	FindWorkflowRun(ctx context.Context, service, nameSubstring string) (*WorkflowRunSnapshot, error)

	// FindOpenIssue returns the first open issue whose title contains
	// titleSubstring (case-insensitive), or nil when none matches.
	FindOpenIssue(ctx context.Context, service, titleSubstring string) (*IssueRef, error)

	// CommentOnIssue posts body as a comment on the referenced issue.
	CommentOnIssue(ctx context.Context, service string, issue IssueRef, body string) error

	// RepositoryURL returns the browse URL for the service repository.
	RepositoryURL(service string) string
}

// Workspace abstracts the local working copies, one directory per service.
// Concurrent jobs never contend: each touches only its own service directory.
type Workspace interface {
	// HasLocalCopy reports whether a working copy for the service exists.
	HasLocalCopy(service string) bool

	// CloneOrPull clones the repository when no local copy exists, or
	// pulls the latest changes into the existing one.
	CloneOrPull(ctx context.Context, service, repoURL string) (SyncAction, error)
}

// StatusSink receives one call per job transition, synchronously on the step
// that changed state. Implementations must be safe for concurrent invocation
// from many jobs and must not block the caller beyond bounded latency.
type StatusSink interface {
	Update(service string, status StatusKind, detail string)
}

// SinkFunc adapts a function to the StatusSink interface.
type SinkFunc func(service string, status StatusKind, detail string)

// Update implements StatusSink.
func (f SinkFunc) Update(service string, status StatusKind, detail string) {
	f(service, status, detail)
}
