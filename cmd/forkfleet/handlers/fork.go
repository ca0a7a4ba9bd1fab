// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/mattn/go-isatty"

	"github.com/imamik/forkfleet/internal/config"
	"github.com/imamik/forkfleet/internal/orchestration"
	"github.com/imamik/forkfleet/internal/platform/github"
	"github.com/imamik/forkfleet/internal/platform/workspace"
	"github.com/imamik/forkfleet/internal/provisioning"
	"github.com/imamik/forkfleet/internal/report"
	"github.com/imamik/forkfleet/internal/ui/tui"
	"github.com/imamik/forkfleet/internal/util/prerequisites"
	"github.com/imamik/forkfleet/internal/util/retry"
)

// fleetRunner interface for testing - matches orchestration.Orchestrator.
type fleetRunner interface {
	ProvisionAll(ctx context.Context, services []string) *orchestration.Run
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// loadTimeouts reads timeout overrides from the environment.
	loadTimeouts = config.LoadTimeouts

	// checkDefaultPrereqs runs prerequisite checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// newHostingClient creates a GitHub API client.
	newHostingClient = func(token, organization string, logger logr.Logger, opts ...retry.Option) provisioning.HostingClient {
		return github.NewClient(token, organization, logger, opts...)
	}

	// newWorkspace creates the local clone workspace.
	newWorkspace = func(root string, logger logr.Logger) provisioning.Workspace {
		return workspace.New(root, logger)
	}

	// newFleetRunner creates the fleet orchestrator.
	newFleetRunner = func(p orchestration.Params) fleetRunner {
		return orchestration.New(p)
	}

	// runFleetTUI drives the live dashboard around a fleet run.
	runFleetTUI = tui.RunFleetTUI

	// writeReport persists a run report to the report directory.
	writeReport = report.Write
)

// Fork provisions the repository fleet on GitHub.
//
// This function orchestrates the complete fleet provisioning workflow:
//  1. Loads and validates the fleet configuration
//  2. Verifies local prerequisites (git) and the GitHub token
//  3. Provisions every requested service concurrently, creating missing
//     repositories from the template and waiting for their initialization
//     workflows
//  4. Writes a JSON run report to the report directory
//  5. Prints a per-service summary
//
// On interactive terminals a live dashboard shows per-service progress;
// --plain or a non-TTY stdout falls back to log lines. The function returns
// an error when any service ends in failure so CI pipelines fail loudly.
func Fork(ctx context.Context, configPath string, services []string, plain bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if err := checkPrerequisites(); err != nil {
		return err
	}

	if cfg.Token == "" {
		return fmt.Errorf("no GitHub token configured: set GITHUB_TOKEN or add github_token to the config")
	}

	if len(services) == 0 {
		services = cfg.ServiceNames()
	}

	log.Printf("Provisioning %d repositories in organization: %s", len(services), cfg.Organization)

	run, err := runFleet(ctx, cfg, services, plain)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("fleet run aborted before completion")
	}

	persistReport(cfg, run)
	printForkSummary(run)

	if !run.AllOK() {
		failed := make([]string, 0)
		for _, res := range run.Failed() {
			failed = append(failed, res.Service)
		}
		return fmt.Errorf("fleet run finished with failures: %s", strings.Join(failed, ", "))
	}
	return nil
}

// loadConfig loads and validates the fleet configuration.
// If configPath is empty, it auto-detects the config in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			// Let the loader produce the not-found error for the default name.
			found = config.DefaultFileName
		}
		configPath = found
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no config file found at %s: run 'forkfleet init' to create one", configPath)
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log.Printf("Using config: %s", configPath)
	return cfg, nil
}

// checkPrerequisites verifies required client tools are available.
func checkPrerequisites() error {
	log.Println("Checking prerequisites...")
	results := checkDefaultPrereqs()

	// Log found tools
	for _, r := range results.Results {
		if r.Found {
			version := r.Version
			if version == "" {
				version = "unknown version"
			}
			log.Printf("  Found %s (%s)", r.Tool.Name, version)
		}
	}

	// Return error if required tools are missing
	if err := results.Error(); err != nil {
		return fmt.Errorf("prerequisites check failed: %w", err)
	}

	return nil
}

// runFleet executes the provisioning run, with the live dashboard on
// interactive terminals and plain log output otherwise.
func runFleet(ctx context.Context, cfg *config.Config, services []string, plain bool) (*orchestration.Run, error) {
	timeouts := loadTimeouts()

	params := func(sink provisioning.StatusSink, logger logr.Logger) orchestration.Params {
		return orchestration.Params{
			Hosting:     newHostingClient(cfg.Token, cfg.Organization, logger, timeouts.RetryOptions()...),
			Workspace:   newWorkspace(cfg.CloneRoot, logger),
			Branch:      cfg.DefaultBranch,
			TemplateRef: cfg.Template,
			Upstreams:   cfg.Upstreams(),
			Timeouts:    timeouts.Provisioning(),
			Sink:        sink,
			Logger:      logger,
		}
	}

	if !plain && isInteractiveTTY() {
		// The dashboard owns the terminal, so the run itself stays quiet.
		return runFleetTUI(ctx, cfg.Organization, cfg.Template, services,
			func(ctx context.Context, sink provisioning.StatusSink) (*orchestration.Run, error) {
				return newFleetRunner(params(sink, logr.Discard())).ProvisionAll(ctx, services), nil
			})
	}

	logger := stderrLogger()
	sink := provisioning.NewLogrSink(logger)
	return newFleetRunner(params(sink, logger)).ProvisionAll(ctx, services), nil
}

// stderrLogger adapts the standard logger so orchestration logs share one
// output stream with handler progress messages.
func stderrLogger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			log.Printf("%s: %s", prefix, args)
			return
		}
		log.Print(args)
	}, funcr.Options{})
}

// persistReport writes the run report. Report persistence is advisory and
// never fails a run that already finished.
func persistReport(cfg *config.Config, run *orchestration.Run) {
	rep := report.FromRun(run, cfg.Organization, cfg.DefaultBranch)
	path, err := writeReport(cfg.ReportDir, rep)
	if err != nil {
		log.Printf("Warning: failed to write run report: %v", err)
		return
	}
	log.Printf("Run report written to: %s", path)
}

// printForkSummary outputs the per-service outcome and aggregate counts.
func printForkSummary(run *orchestration.Run) {
	fmt.Printf("\nFleet run complete in %s\n\n", run.Duration().Round(time.Second))

	var initialized, skipped, failed int
	for _, svc := range run.Services() {
		res := run.Results[svc]
		printRow(svc, res.OK(), res.Message)

		switch res.Status {
		case provisioning.StatusSuccess:
			initialized++
		case provisioning.StatusSkipped:
			skipped++
		default:
			failed++
		}
	}

	fmt.Printf("\n  %d initialized, %d skipped, %d failed\n", initialized, skipped, failed)

	if failed == 0 {
		fmt.Printf("\nAll repositories are ready. Local clones live under the configured clone root.\n")
	}
}

// printRow prints one aligned status line with a pass/fail indicator.
func printRow(name string, ok bool, extra string) {
	indicator := "✓"
	if !ok {
		indicator = "✗"
	}

	if extra != "" {
		fmt.Printf("  %s  %-20s %s\n", indicator, name, extra)
		return
	}
	fmt.Printf("  %s  %s\n", indicator, name)
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
