package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"

	"github.com/imamik/forkfleet/internal/config"
	"github.com/imamik/forkfleet/internal/util/prerequisites"
)

// checkAllPrereqs checks required and optional tools (for testing injection).
var checkAllPrereqs = prerequisites.CheckAll

// DoctorStatus represents the fleet diagnostic status.
type DoctorStatus struct {
	Organization string        `json:"organization,omitempty"`
	Template     string        `json:"template,omitempty"`
	Services     int           `json:"services,omitempty"`
	Checks       []DoctorCheck `json:"checks"`
}

// DoctorCheck represents one diagnostic probe.
type DoctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Doctor handles the doctor command.
//
// It checks local tooling, validates the configuration, and probes GitHub
// and the optional report archive. All probes are read-only. An error is
// returned when any check fails, so scripts can gate on the exit code.
func Doctor(ctx context.Context, configPath string, jsonOutput bool) error {
	status := &DoctorStatus{}

	status.Checks = append(status.Checks, toolChecks()...)

	cfg, err := loadConfig(configPath)
	if err != nil {
		status.Checks = append(status.Checks, DoctorCheck{Name: "config", OK: false, Message: err.Error()})
		renderDoctor(status, jsonOutput)
		return fmt.Errorf("doctor found problems")
	}

	status.Organization = cfg.Organization
	status.Template = cfg.Template
	status.Services = len(cfg.Services)
	status.Checks = append(status.Checks,
		DoctorCheck{Name: "config", OK: true, Message: fmt.Sprintf("%d services in catalog", len(cfg.Services))},
		tokenCheck(cfg),
		apiCheck(ctx, cfg),
		cloneRootCheck(cfg.CloneRoot),
		archiveCheck(ctx, cfg.Archive),
	)

	renderDoctor(status, jsonOutput)

	if problems := countProblems(status.Checks); problems > 0 {
		return fmt.Errorf("doctor found %d problems", problems)
	}
	return nil
}

// toolChecks probes the required and optional client tools.
func toolChecks() []DoctorCheck {
	results := checkAllPrereqs()

	checks := make([]DoctorCheck, 0, len(results.Results))
	for _, r := range results.Results {
		check := DoctorCheck{Name: "tool: " + r.Tool.Name, OK: r.Found || !r.Tool.Required}

		switch {
		case r.Found && r.Version != "":
			check.Message = r.Version
		case r.Found:
			check.Message = "found"
		case r.Tool.Required:
			check.Message = fmt.Sprintf("not found, install from %s", r.Tool.InstallURL)
		default:
			check.Message = "not found (optional)"
		}

		checks = append(checks, check)
	}
	return checks
}

// tokenCheck verifies a GitHub token is configured.
func tokenCheck(cfg *config.Config) DoctorCheck {
	if cfg.Token == "" {
		return DoctorCheck{Name: "github token", OK: false, Message: "not set, export GITHUB_TOKEN"}
	}
	return DoctorCheck{Name: "github token", OK: true, Message: "configured"}
}

// apiCheck probes GitHub API connectivity with a read-only lookup of the
// first catalog service. Any definite answer means the API is reachable.
func apiCheck(ctx context.Context, cfg *config.Config) DoctorCheck {
	hosting := newHostingClient(cfg.Token, cfg.Organization, logr.Discard(), loadTimeouts().RetryOptions()...)

	probe := cfg.ServiceNames()[0]
	exists, err := hosting.Exists(ctx, probe)
	if err != nil {
		return DoctorCheck{Name: "github api", OK: false, Message: err.Error()}
	}

	msg := fmt.Sprintf("reachable, %s/%s not created yet", cfg.Organization, probe)
	if exists {
		msg = fmt.Sprintf("reachable, %s/%s exists", cfg.Organization, probe)
	}
	return DoctorCheck{Name: "github api", OK: true, Message: msg}
}

// cloneRootCheck verifies the clone root is usable. A missing directory is
// fine, fork creates it on first clone.
func cloneRootCheck(root string) DoctorCheck {
	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		return DoctorCheck{Name: "clone root", OK: true, Message: fmt.Sprintf("%s will be created", root)}
	case err != nil:
		return DoctorCheck{Name: "clone root", OK: false, Message: err.Error()}
	case !info.IsDir():
		return DoctorCheck{Name: "clone root", OK: false, Message: fmt.Sprintf("%s is not a directory", root)}
	}
	return DoctorCheck{Name: "clone root", OK: true, Message: root}
}

// archiveCheck probes the report archive when one is configured.
func archiveCheck(ctx context.Context, archive *config.ArchiveConfig) DoctorCheck {
	if archive == nil {
		return DoctorCheck{Name: "report archive", OK: true, Message: "not configured"}
	}

	client, err := newArchiveClient(archive)
	if err != nil {
		return DoctorCheck{Name: "report archive", OK: false, Message: err.Error()}
	}

	exists, err := client.BucketExists(ctx, archive.Bucket)
	switch {
	case err != nil:
		return DoctorCheck{Name: "report archive", OK: false, Message: err.Error()}
	case !exists:
		return DoctorCheck{Name: "report archive", OK: true, Message: fmt.Sprintf("bucket %s will be created on first upload", archive.Bucket)}
	}
	return DoctorCheck{Name: "report archive", OK: true, Message: fmt.Sprintf("bucket %s reachable", archive.Bucket)}
}

// renderDoctor prints the diagnostic results, as JSON when requested.
func renderDoctor(status *DoctorStatus, jsonOutput bool) {
	if jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			fmt.Printf("failed to marshal status: %v\n", err)
			return
		}
		fmt.Println(string(data))
		return
	}

	printHeader("forkfleet doctor")
	for _, check := range status.Checks {
		printRow(check.Name, check.OK, check.Message)
	}

	fmt.Println()
	if problems := countProblems(status.Checks); problems > 0 {
		fmt.Printf("  %d of %d checks failed\n", problems, len(status.Checks))
		return
	}
	fmt.Printf("  All %d checks passed\n", len(status.Checks))
}

func countProblems(checks []DoctorCheck) int {
	var n int
	for _, check := range checks {
		if !check.OK {
			n++
		}
	}
	return n
}

// printHeader prints a section title with an underline.
func printHeader(title string) {
	fmt.Printf("  %s\n", title)
	fmt.Println("  " + strings.Repeat("═", len(title)))
	fmt.Println()
}
