// Package report persists fleet provisioning run reports as JSON files and
// builds the object keys used for archiving them.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/imamik/forkfleet/internal/orchestration"
	"github.com/imamik/forkfleet/internal/provisioning"
)

// stampLayout orders report filenames chronologically when sorted by name.
const stampLayout = "20060102T150405"

// ArchivePrefix is the key prefix used for reports in the S3 archive.
const ArchivePrefix = "reports/"

// RunReport is the persisted outcome of one fleet provisioning pass.
type RunReport struct {
	RunID        string                `json:"runId"`
	StartedAt    time.Time             `json:"startedAt"`
	FinishedAt   time.Time             `json:"finishedAt"`
	Organization string                `json:"organization"`
	Branch       string                `json:"branch"`
	AllOK        bool                  `json:"allOk"`
	Results      []provisioning.Result `json:"results"`
}

// FromRun converts an orchestration run into a report. Results are ordered
// by service name so reports diff cleanly.
func FromRun(run *orchestration.Run, organization, branch string) *RunReport {
	results := make([]provisioning.Result, 0, len(run.Results))
	for _, service := range run.Services() {
		results = append(results, run.Results[service])
	}
	return &RunReport{
		RunID:        run.ID,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Organization: organization,
		Branch:       branch,
		AllOK:        run.AllOK(),
		Results:      results,
	}
}

// Filename returns the report's file name, unique per run and sortable by
// start time.
func (r *RunReport) Filename() string {
	return fmt.Sprintf("%s_%s.json", r.StartedAt.UTC().Format(stampLayout), r.RunID)
}

// ArchiveKey returns the object key for the report in the S3 archive.
func (r *RunReport) ArchiveKey() string {
	return ArchivePrefix + r.Filename()
}

// Failed returns the results that did not end in success or skip.
func (r *RunReport) Failed() []provisioning.Result {
	var failed []provisioning.Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Marshal renders the report as indented JSON.
func (r *RunReport) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// Write stores the report in dir and returns the file path.
func Write(dir string, r *RunReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	data, err := r.Marshal()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, r.Filename())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}

// Load reads a single report file.
func Load(path string) (*RunReport, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}

	var r RunReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}

// LoadLatest reads the most recent report in dir.
func LoadLatest(dir string) (*RunReport, error) {
	paths, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no reports found in %s", dir)
	}
	return Load(paths[len(paths)-1])
}

// List returns the report file paths in dir, oldest first.
func List(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports in %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
