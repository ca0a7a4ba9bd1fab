// Package prerequisites verifies that the external tools the CLI shells
// out to are installed before a run starts.
package prerequisites

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// versionProbeTimeout bounds a single version probe. A tool that hangs
// on --version must not stall the whole check.
const versionProbeTimeout = 3 * time.Second

// Tool is an external binary the CLI depends on at run time.
type Tool struct {
	Name        string // binary name looked up in PATH
	Required    bool
	Description string
	InstallURL  string
}

// DefaultTools returns the tools a provisioning run cannot work without.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "git",
			Required:    true,
			Description: "Clones and pulls service repositories",
			InstallURL:  "https://git-scm.com/downloads",
		},
	}
}

// OptionalTools returns tools that are handy but never block a run.
func OptionalTools() []Tool {
	return []Tool{
		{
			Name:        "gh",
			Required:    false,
			Description: "Inspect workflow runs and issues by hand",
			InstallURL:  "https://cli.github.com/",
		},
	}
}

// CheckResult is the outcome of probing one tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults collects the outcomes of one check pass.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// requiredMissing filters Missing down to the tools a run cannot work
// without.
func (r *CheckResults) requiredMissing() []Tool {
	var required []Tool
	for _, tool := range r.Missing {
		if tool.Required {
			required = append(required, tool)
		}
	}
	return required
}

// HasErrors reports whether a required tool is missing.
func (r *CheckResults) HasErrors() bool {
	return len(r.requiredMissing()) > 0
}

// Error returns one error naming every missing required tool and where
// to get it, or nil when at most optional tools are absent.
func (r *CheckResults) Error() error {
	missing := r.requiredMissing()
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, tool := range missing {
		names[i] = fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL)
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(names, ", "))
}

// Check probes every given tool in PATH.
func Check(tools []Tool) *CheckResults {
	checked := &CheckResults{Results: make([]CheckResult, 0, len(tools))}
	for _, tool := range tools {
		result := probe(tool)
		if !result.Found {
			checked.Missing = append(checked.Missing, tool)
		}
		checked.Results = append(checked.Results, result)
	}
	return checked
}

// CheckDefault probes the required tools.
func CheckDefault() *CheckResults {
	return Check(DefaultTools())
}

// CheckAll probes the required and the optional tools.
func CheckAll() *CheckResults {
	defaults := DefaultTools()
	all := make([]Tool, 0, len(defaults)+len(OptionalTools()))
	all = append(all, defaults...)
	all = append(all, OptionalTools()...)
	return Check(all)
}

// probe looks the tool up in PATH and, when present, asks it for its
// version.
func probe(tool Tool) CheckResult {
	path, err := exec.LookPath(tool.Name)
	if err != nil {
		return CheckResult{Tool: tool}
	}
	return CheckResult{
		Tool:    tool,
		Found:   true,
		Path:    path,
		Version: readVersion(tool.Name),
	}
}

// readVersion asks the tool for its version, best effort. Both common
// spellings are tried, git uses a flag while some tools use a
// subcommand.
func readVersion(name string) string {
	for _, arg := range []string{"--version", "version"} {
		ctx, cancel := context.WithTimeout(context.Background(), versionProbeTimeout)
		// #nosec G204 - name comes from the fixed tool catalog, not user input
		out, err := exec.CommandContext(ctx, name, arg).Output()
		cancel()
		if err == nil {
			return firstLine(out)
		}
	}
	return ""
}

// firstLine returns the first output line, trimmed. Version banners are
// often multi-line, only the leading line is worth reporting.
func firstLine(out []byte) string {
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line)
}
