// Package workspace manages local git clones of fleet repositories.
package workspace

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-logr/logr"

	"github.com/imamik/forkfleet/internal/provisioning"
)

// serviceNamePattern restricts service names to characters that are safe in
// repository names and filesystem paths.
var serviceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Dir keeps one clone per service under a single root directory.
type Dir struct {
	root   string
	logger logr.Logger
}

var _ provisioning.Workspace = (*Dir)(nil)

// New creates a workspace rooted at root. The directory is created on first
// clone, not here.
func New(root string, logger logr.Logger) *Dir {
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	return &Dir{root: root, logger: logger}
}

// Path returns the local directory for service.
func (d *Dir) Path(service string) string {
	return filepath.Join(d.root, service)
}

// HasLocalCopy reports whether a clone of service already exists.
func (d *Dir) HasLocalCopy(service string) bool {
	info, err := os.Stat(filepath.Join(d.Path(service), ".git"))
	return err == nil && info.IsDir()
}

// CloneOrPull brings the local copy of service up to date, cloning when none
// exists yet and fast-forwarding otherwise.
func (d *Dir) CloneOrPull(ctx context.Context, service, repoURL string) (provisioning.SyncAction, error) {
	if !serviceNamePattern.MatchString(service) {
		return "", fmt.Errorf("invalid service name %q", service)
	}

	if d.HasLocalCopy(service) {
		if err := d.git(ctx, d.Path(service), "pull", "--ff-only"); err != nil {
			return "", err
		}
		d.logger.Info("pulled repository", "service", service)
		return provisioning.SyncPulled, nil
	}

	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create workspace root %s: %w", d.root, err)
	}
	if err := d.git(ctx, d.root, "clone", repoURL, service); err != nil {
		return "", err
	}
	d.logger.Info("cloned repository", "service", service)
	return provisioning.SyncCloned, nil
}

// git runs a git subcommand in dir.
func (d *Dir) git(ctx context.Context, dir string, args ...string) error {
	d.logger.V(1).Info("running git", "args", args, "dir", dir)

	// #nosec G204 -- arguments are fixed git verbs and validated service names
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %v: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
