package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// Workflow and issue names the template repository's initialization
// convention uses. Matching is case-insensitive substring.
const (
	InitWorkflowName       = "Initialize Fork"
	CompletionWorkflowName = "Initialize Complete"
	InitIssueTitle         = "Initialization Required"
)

// Timeouts carries the polling cadence and the wall-clock budgets for the
// two workflow waits. Budgets are measured from entry into the waiting
// state, not from job start.
type Timeouts struct {
	PollInterval       time.Duration
	InitWorkflow       time.Duration
	CompletionWorkflow time.Duration
}

// DefaultTimeouts returns the standard cadence: 10s polls, 300s for the
// init workflow, 600s for the completion workflow.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		PollInterval:       10 * time.Second,
		InitWorkflow:       300 * time.Second,
		CompletionWorkflow: 600 * time.Second,
	}
}

// JobParams groups the inputs for NewJob.
type JobParams struct {
	// Service is the unique service identifier within a run.
	Service string
	// Branch is the target branch for a newly created repository.
	Branch string
	// TemplateRef is the "owner/repo" template to instantiate from.
	TemplateRef string
	// Upstream is the upstream repository reference posted on the
	// initialization issue. Empty means the service is not in the catalog.
	Upstream string

	Hosting   HostingClient
	Workspace Workspace
	Sink      StatusSink
	Timeouts  Timeouts
	Logger    logr.Logger
}

// Job drives one service repository through the initialization lifecycle.
// A job never transitions backward and reaches exactly one terminal state.
// One instance exists per service per run; it is not reusable.
type Job struct {
	service     string
	branch      string
	templateRef string
	upstream    string

	hosting   HostingClient
	workspace Workspace
	sink      StatusSink
	timeouts  Timeouts
	logger    logr.Logger

	state   State
	detail  string
	repoURL string
}

// NewJob creates a job in its initial state. A nil Sink is replaced by
// NullSink; zero Timeouts by DefaultTimeouts.
func NewJob(p JobParams) *Job {
	if p.Sink == nil {
		p.Sink = NullSink{}
	}
	if p.Timeouts == (Timeouts{}) {
		p.Timeouts = DefaultTimeouts()
	}
	if p.Logger.GetSink() == nil {
		p.Logger = logr.Discard()
	}
	return &Job{
		service:     p.Service,
		branch:      p.Branch,
		templateRef: p.TemplateRef,
		upstream:    p.Upstream,
		hosting:     p.Hosting,
		workspace:   p.Workspace,
		sink:        p.Sink,
		timeouts:    p.Timeouts,
		logger:      p.Logger.WithValues("service", p.Service),
		state:       StateCheckingExistence,
	}
}

// Service returns the service identifier this job provisions.
func (j *Job) Service() string { return j.service }

// State returns the current lifecycle state.
func (j *Job) State() State { return j.state }

// Run drives the state machine to a terminal state and returns its Result.
// It never returns an error: every outcome, including cancellation, is
// expressed in the Result. Run must be called at most once.
func (j *Job) Run(ctx context.Context) Result {
	if j.upstream == "" {
		return j.fail(fmt.Sprintf("Unknown service: %s", j.service))
	}

	j.logger.Info("starting provisioning", "branch", j.branch)
	j.transition(StateCheckingExistence, "Checking if repository exists...")

	exists, err := j.hosting.Exists(ctx, j.service)
	if err != nil {
		return j.fail(fmt.Sprintf("Unexpected error: %v", err))
	}
	if exists {
		return j.syncKnownRepo(ctx)
	}

	if res, failed := j.createFromTemplate(ctx); failed {
		return res
	}
	if res, failed := j.waitForWorkflow(ctx, StateWaitingForInitWorkflow, InitWorkflowName, j.timeouts.InitWorkflow); failed {
		return res
	}

	j.annotateIssue(ctx)

	if res, failed := j.waitForWorkflow(ctx, StateWaitingForCompletionWorkflow, CompletionWorkflowName, j.timeouts.CompletionWorkflow); failed {
		return res
	}

	j.transition(StateSyncingLocal, "Cloning repository locally...")
	j.syncLocal(ctx)

	j.logger.Info("provisioning succeeded")
	return j.succeed("Repository initialized successfully")
}

// syncKnownRepo handles an already-provisioned repository: sync the local
// copy and finish as Skipped. This is intentional idempotence, not an error.
func (j *Job) syncKnownRepo(ctx context.Context) Result {
	j.repoURL = j.hosting.RepositoryURL(j.service)
	j.logger.Info("repository already exists, skipping creation")

	var message string
	if j.workspace.HasLocalCopy(j.service) {
		j.transition(StateSyncingKnownRepo, "Repository exists - syncing latest changes...")
		message = "Repository exists - synced latest changes"
	} else {
		j.transition(StateSyncingKnownRepo, "Repository exists - cloning locally...")
		message = "Repository exists - cloned locally"
	}
	j.syncLocal(ctx)

	j.transition(StateSkipped, message)
	return Result{Service: j.service, Status: StatusSkipped, Message: message, RepoURL: j.repoURL}
}

// createFromTemplate instantiates the repository. Creation failure is fatal
// to the job; there is no retry at this layer.
func (j *Job) createFromTemplate(ctx context.Context) (Result, bool) {
	j.logger.Info("creating repository from template", "template", j.templateRef)
	j.transition(StateCreatingFromTemplate, "Creating repository from template...")

	if err := j.hosting.CreateFromTemplate(ctx, j.service, j.templateRef, j.branch); err != nil {
		return j.fail(fmt.Sprintf("Failed to create repository: %v", err)), true
	}
	j.repoURL = j.hosting.RepositoryURL(j.service)
	return Result{}, false
}

// waitForWorkflow polls for the named workflow every PollInterval until a
// completed run is observed or the budget elapses. Only a completed run
// decides the outcome; an absent or still-running workflow keeps polling.
func (j *Job) waitForWorkflow(ctx context.Context, state State, name string, budget time.Duration) (Result, bool) {
	j.logger.Info("waiting for workflow", "workflow", name, "budget", budget)
	j.transition(state, fmt.Sprintf("Waiting for %s workflow...", name))

	deadline := time.Now().Add(budget)
	ticker := time.NewTicker(j.timeouts.PollInterval)
	defer ticker.Stop()

	for {
		snap, err := j.hosting.FindWorkflowRun(ctx, j.service, name)
		if err != nil {
			return j.fail(fmt.Sprintf("Unexpected error: %v", err)), true
		}
		if snap != nil && snap.Completed() {
			if snap.Conclusion == WorkflowConclusionSuccess {
				j.logger.Info("workflow completed", "workflow", name)
				return Result{}, false
			}
			return j.fail(fmt.Sprintf("%s workflow failed: %s", name, snap.Conclusion)), true
		}

		if time.Now().After(deadline) {
			return j.fail(fmt.Sprintf("%s workflow did not complete within %ds", name, int(budget.Seconds()))), true
		}

		select {
		case <-ctx.Done():
			return j.fail(fmt.Sprintf("Cancelled while waiting for %s workflow: %v", name, ctx.Err())), true
		case <-ticker.C:
		}
	}
}

// annotateIssue comments the upstream reference on the initialization issue.
// Every failure here is non-fatal: the comment is advisory, not a
// precondition for the repository being usable.
func (j *Job) annotateIssue(ctx context.Context) {
	j.transition(StateAnnotatingIssue, "Commenting on initialization issue...")

	issue, err := j.hosting.FindOpenIssue(ctx, j.service, InitIssueTitle)
	if err != nil {
		j.logger.Error(err, "could not look up initialization issue")
		return
	}
	if issue == nil {
		j.logger.Info("initialization issue not found")
		return
	}
	if err := j.hosting.CommentOnIssue(ctx, j.service, *issue, j.upstream); err != nil {
		j.logger.Error(err, "could not comment on initialization issue", "issue", issue.Number)
	}
}

// syncLocal clones or pulls the working copy. Sync problems are logged and
// tolerated; the remote repository is the source of truth.
func (j *Job) syncLocal(ctx context.Context) {
	action, err := j.workspace.CloneOrPull(ctx, j.service, j.repoURL)
	if err != nil {
		j.logger.Error(err, "local sync failed")
		return
	}
	j.logger.Info("local copy synced", "action", string(action))
}

// transition records the new state and reports it synchronously through the
// sink, so observers always see monotonically progressing detail strings.
func (j *Job) transition(state State, detail string) {
	j.state = state
	j.detail = detail
	j.sink.Update(j.service, state.Kind(), detail)
}

func (j *Job) fail(message string) Result {
	j.logger.Info("provisioning failed", "reason", message)
	j.transition(StateFailed, message)
	return Result{Service: j.service, Status: StatusError, Message: message}
}

func (j *Job) succeed(message string) Result {
	j.transition(StateSucceeded, message)
	return Result{Service: j.service, Status: StatusSuccess, Message: message, RepoURL: j.repoURL}
}
