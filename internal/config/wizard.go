package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the user's choices from the wizard.
type WizardResult struct {
	Organization string
	Template     string
	CloneRoot    string
	Services     []string
	Archive      bool
}

// RunWizard runs the interactive fleet configuration wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		// Defaults
		Organization: DefaultOrganization,
		Template:     DefaultTemplate,
		CloneRoot:    DefaultCloneRoot,
	}

	// Build the form
	form := huh.NewForm(
		// Fleet identity
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub organization").
				Description("The organization that holds (or will hold) the fork repositories").
				Placeholder(DefaultOrganization).
				Value(&result.Organization).
				Validate(validateOrganization),

			huh.NewInput().
				Title("Template repository").
				Description("owner/name of the template that seeds new forks").
				Placeholder(DefaultTemplate).
				Value(&result.Template).
				Validate(validateTemplateRef),
		),

		// Service selection
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Services").
				Description("Fleet services to manage (space to toggle)").
				Options(serviceOptions()...).
				Value(&result.Services).
				Validate(func(selected []string) error {
					if len(selected) == 0 {
						return fmt.Errorf("select at least one service")
					}
					return nil
				}),
		),

		// Local workspace
		huh.NewGroup(
			huh.NewInput().
				Title("Clone directory").
				Description("Where local clones are kept, one subdirectory per service").
				Placeholder(DefaultCloneRoot).
				Value(&result.CloneRoot),
		),

		// Report archive
		huh.NewGroup(
			huh.NewConfirm().
				Title("Archive run reports to S3?").
				Description("Uploads each run report to an S3-compatible bucket (configured separately)").
				Value(&result.Archive),
		),
	)

	// Run the form
	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// serviceOptions builds the wizard's service selector from the standard
// catalog, with every service preselected.
func serviceOptions() []huh.Option[string] {
	defaults := DefaultServices()
	opts := make([]huh.Option[string], 0, len(defaults))
	for _, svc := range defaults {
		opts = append(opts, huh.NewOption(svc.Name, svc.Name).Selected(true))
	}
	return opts
}

// ToConfig converts the wizard result to a Config. Upstream URLs come from
// the standard catalog; the wizard only offers known services.
func (r *WizardResult) ToConfig() *Config {
	upstreams := make(map[string]string)
	for _, svc := range DefaultServices() {
		upstreams[svc.Name] = svc.Upstream
	}

	services := make([]ServiceSpec, 0, len(r.Services))
	for _, name := range r.Services {
		services = append(services, ServiceSpec{Name: name, Upstream: upstreams[name]})
	}

	cfg := &Config{
		Organization:  r.Organization,
		Template:      r.Template,
		DefaultBranch: DefaultBranchName,
		CloneRoot:     r.CloneRoot,
		ReportDir:     DefaultReportDir,
		Services:      services,
	}
	if r.Archive {
		cfg.Archive = &ArchiveConfig{}
	}
	return cfg
}

// validateOrganization validates the GitHub organization name.
func validateOrganization(s string) error {
	if s == "" {
		return fmt.Errorf("organization is required")
	}
	if len(s) > 39 {
		return fmt.Errorf("organization must be 39 characters or less")
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '-' {
			return fmt.Errorf("organization can only contain letters, numbers, and hyphens")
		}
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return fmt.Errorf("organization cannot start or end with a hyphen")
	}
	return nil
}

// validateTemplateRef validates the owner/name template reference.
func validateTemplateRef(s string) error {
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" {
		return fmt.Errorf("expected owner/name format")
	}
	return nil
}
