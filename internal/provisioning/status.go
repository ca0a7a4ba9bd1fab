package provisioning

// State identifies a step in a job's lifecycle.
type State string

const (
	// StateCheckingExistence queries the hosting API for the repository.
	StateCheckingExistence State = "checking_existence"
	// StateSyncingKnownRepo syncs the local copy of an already-provisioned repository.
	StateSyncingKnownRepo State = "syncing_known_repo"
	// StateCreatingFromTemplate instantiates the repository from the template.
	StateCreatingFromTemplate State = "creating_from_template"
	// StateWaitingForInitWorkflow polls for the "Initialize Fork" workflow.
	StateWaitingForInitWorkflow State = "waiting_for_init_workflow"
	// StateAnnotatingIssue comments the upstream reference on the initialization issue.
	StateAnnotatingIssue State = "annotating_issue"
	// StateWaitingForCompletionWorkflow polls for the "Initialize Complete" workflow.
	StateWaitingForCompletionWorkflow State = "waiting_for_completion_workflow"
	// StateSyncingLocal clones or pulls the initialized repository.
	StateSyncingLocal State = "syncing_local"

	// StateSucceeded is terminal: the repository was created and initialized.
	StateSucceeded State = "succeeded"
	// StateSkipped is terminal: the repository already existed.
	StateSkipped State = "skipped"
	// StateFailed is terminal: the job could not complete.
	StateFailed State = "failed"
)

// Terminal reports whether no further transitions can occur from s.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateSkipped || s == StateFailed
}

// StatusKind is the coarse per-service status reported through a StatusSink
// and carried by terminal Results.
type StatusKind string

const (
	// StatusPending means the job has not started yet.
	StatusPending StatusKind = "pending"
	// StatusRunning means the job is actively calling the hosting API or git.
	StatusRunning StatusKind = "running"
	// StatusWaiting means the job is polling for an external workflow.
	StatusWaiting StatusKind = "waiting"
	// StatusSuccess means the repository was created and initialized.
	StatusSuccess StatusKind = "success"
	// StatusSkipped means the repository already existed and was left as is.
	StatusSkipped StatusKind = "skipped"
	// StatusError means the job failed or faulted.
	StatusError StatusKind = "error"
)

// Kind maps a lifecycle state onto the status a sink observes for it.
func (s State) Kind() StatusKind {
	switch s {
	case StateWaitingForInitWorkflow, StateWaitingForCompletionWorkflow:
		return StatusWaiting
	case StateSucceeded:
		return StatusSuccess
	case StateSkipped:
		return StatusSkipped
	case StateFailed:
		return StatusError
	default:
		return StatusRunning
	}
}

// Result is the immutable terminal outcome of one job. Exactly one Result
// exists per requested service after an orchestrator run completes.
type Result struct {
	Service string     `json:"service"`
	Status  StatusKind `json:"status"`
	Message string     `json:"message"`
	RepoURL string     `json:"repoUrl,omitempty"`
}

// OK reports whether the result counts toward an all-ok run.
func (r Result) OK() bool {
	return r.Status == StatusSuccess || r.Status == StatusSkipped
}
