// Package github provides the repository hosting client backed by the GitHub API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/go-github/v72/github"

	"github.com/imamik/forkfleet/internal/provisioning"
	"github.com/imamik/forkfleet/internal/util/retry"
)

// recentRunWindow bounds how many recent workflow runs and issues are
// inspected per query. Workflow runs are listed newest first, so a small
// window is enough to find the run for the current provisioning pass.
const recentRunWindow = 10

// Client implements repository hosting operations against a GitHub
// organization. All read and write calls are retried with exponential
// backoff; authentication and permission failures are not retried.
type Client struct {
	gh        *github.Client
	org       string
	logger    logr.Logger
	retryOpts []retry.Option
}

var _ provisioning.HostingClient = (*Client)(nil)

// NewClient creates a hosting client for the given organization.
// Extra retry options override the built-in backoff settings.
func NewClient(token, organization string, logger logr.Logger, retryOpts ...retry.Option) *Client {
	if len(retryOpts) == 0 {
		retryOpts = []retry.Option{
			retry.WithMaxRetries(2),
			retry.WithInitialDelay(2 * time.Second),
		}
	}
	return &Client{
		gh:        github.NewClient(nil).WithAuthToken(token),
		org:       organization,
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// Exists reports whether the repository for service exists in the organization.
func (c *Client) Exists(ctx context.Context, service string) (bool, error) {
	var exists bool
	err := retry.WithExponentialBackoff(ctx, func() error {
		_, resp, err := c.gh.Repositories.Get(ctx, c.org, service)
		if err == nil {
			exists = true
			return nil
		}
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			exists = false
			return nil
		}
		return classify(err)
	}, c.retryOpts...)
	if err != nil {
		return false, fmt.Errorf("failed to check repository %s/%s: %w", c.org, service, err)
	}
	return exists, nil
}

// CreateFromTemplate creates the repository for service in the organization
// from the template repository given as "owner/name". The template's default
// branch seeds the new repository, so the branch argument is not sent.
func (c *Client) CreateFromTemplate(ctx context.Context, service, templateRef, _ string) error {
	tplOwner, tplName, err := splitTemplateRef(templateRef)
	if err != nil {
		return err
	}

	err = retry.WithExponentialBackoff(ctx, func() error {
		_, _, err := c.gh.Repositories.CreateFromTemplate(ctx, tplOwner, tplName, &github.TemplateRepoRequest{
			Name:  github.Ptr(service),
			Owner: github.Ptr(c.org),
		})
		return classify(err)
	}, c.retryOpts...)
	if err != nil {
		return fmt.Errorf("failed to create repository %s/%s from template %s: %w", c.org, service, templateRef, err)
	}

	c.logger.Info("created repository from template", "service", service, "template", templateRef)
	return nil
}

// FindWorkflowRun returns the most recent workflow run whose name contains
// nameSubstring, ignoring case, or nil if none of the recent runs match.
func (c *Client) FindWorkflowRun(ctx context.Context, service, nameSubstring string) (*provisioning.WorkflowRunSnapshot, error) {
	var snapshot *provisioning.WorkflowRunSnapshot
	err := retry.WithExponentialBackoff(ctx, func() error {
		runs, _, err := c.gh.Actions.ListRepositoryWorkflowRuns(ctx, c.org, service, &github.ListWorkflowRunsOptions{
			ListOptions: github.ListOptions{PerPage: recentRunWindow},
		})
		if err != nil {
			return classify(err)
		}
		snapshot = matchWorkflowRun(runs.WorkflowRuns, nameSubstring)
		return nil
	}, c.retryOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow runs for %s/%s: %w", c.org, service, err)
	}
	return snapshot, nil
}

// FindOpenIssue returns the first open issue whose title contains
// titleSubstring, ignoring case, or nil if there is none.
func (c *Client) FindOpenIssue(ctx context.Context, service, titleSubstring string) (*provisioning.IssueRef, error) {
	var ref *provisioning.IssueRef
	err := retry.WithExponentialBackoff(ctx, func() error {
		issues, _, err := c.gh.Issues.ListByRepo(ctx, c.org, service, &github.IssueListByRepoOptions{
			State:       "open",
			ListOptions: github.ListOptions{PerPage: recentRunWindow},
		})
		if err != nil {
			return classify(err)
		}
		ref = matchIssue(issues, titleSubstring)
		return nil
	}, c.retryOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues for %s/%s: %w", c.org, service, err)
	}
	return ref, nil
}

// CommentOnIssue posts a comment on the given issue.
func (c *Client) CommentOnIssue(ctx context.Context, service string, issue provisioning.IssueRef, body string) error {
	err := retry.WithExponentialBackoff(ctx, func() error {
		_, _, err := c.gh.Issues.CreateComment(ctx, c.org, service, issue.Number, &github.IssueComment{
			Body: github.Ptr(body),
		})
		return classify(err)
	}, c.retryOpts...)
	if err != nil {
		return fmt.Errorf("failed to comment on issue #%d in %s/%s: %w", issue.Number, c.org, service, err)
	}
	return nil
}

// RepositoryURL returns the browser URL of the repository for service.
func (c *Client) RepositoryURL(service string) string {
	return fmt.Sprintf("https://github.com/%s/%s", c.org, service)
}

// matchWorkflowRun returns a snapshot of the first run whose name contains
// substr, ignoring case. Runs arrive newest first from the API.
func matchWorkflowRun(runs []*github.WorkflowRun, substr string) *provisioning.WorkflowRunSnapshot {
	needle := strings.ToLower(substr)
	for _, run := range runs {
		if strings.Contains(strings.ToLower(run.GetName()), needle) {
			return &provisioning.WorkflowRunSnapshot{
				Name:       run.GetName(),
				Status:     run.GetStatus(),
				Conclusion: run.GetConclusion(),
			}
		}
	}
	return nil
}

// matchIssue returns a reference to the first issue whose title contains
// substr, ignoring case. Pull requests share the issue namespace and are
// skipped.
func matchIssue(issues []*github.Issue, substr string) *provisioning.IssueRef {
	needle := strings.ToLower(substr)
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		if strings.Contains(strings.ToLower(issue.GetTitle()), needle) {
			return &provisioning.IssueRef{
				Number: issue.GetNumber(),
				Title:  issue.GetTitle(),
			}
		}
	}
	return nil
}

// splitTemplateRef splits an "owner/name" template reference.
func splitTemplateRef(ref string) (string, string, error) {
	owner, name, ok := strings.Cut(ref, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid template reference %q, expected owner/name", ref)
	}
	return owner, name, nil
}
