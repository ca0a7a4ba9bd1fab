package config

import (
	"fmt"
	"strings"
)

// Config holds the fleet configuration.
type Config struct {
	// Organization is the GitHub organization that holds the fork repositories.
	Organization string `mapstructure:"organization" yaml:"organization"`

	// Template is the "owner/name" template repository that seeds new forks.
	Template string `mapstructure:"template" yaml:"template"`

	// Token authenticates against the GitHub API. Usually supplied through
	// the GITHUB_TOKEN environment variable instead of the file.
	Token string `mapstructure:"github_token" yaml:"github_token,omitempty"`

	// DefaultBranch is the branch new forks are initialized on.
	DefaultBranch string `mapstructure:"default_branch" yaml:"default_branch"`

	// CloneRoot is the directory that holds the local clones, one
	// subdirectory per service.
	CloneRoot string `mapstructure:"clone_root" yaml:"clone_root"`

	// ReportDir is where run reports are written as JSON files.
	ReportDir string `mapstructure:"report_dir" yaml:"report_dir"`

	// Services is the fleet catalog. Each entry maps a service to its
	// upstream repository.
	Services []ServiceSpec `mapstructure:"services" yaml:"services"`

	// Archive holds the optional S3 settings for report archiving.
	Archive *ArchiveConfig `mapstructure:"archive" yaml:"archive,omitempty"`
}

// ServiceSpec names one fleet service and its upstream repository.
type ServiceSpec struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Upstream string `mapstructure:"upstream" yaml:"upstream"`
}

// ArchiveConfig holds the S3-compatible report archive settings.
type ArchiveConfig struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Region    string `mapstructure:"region" yaml:"region"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
}

// Validate checks the configuration for common errors and returns a
// detailed error if validation fails.
func (c *Config) Validate() error {
	if c.Organization == "" {
		return fmt.Errorf("organization is required")
	}
	if c.Template == "" {
		return fmt.Errorf("template is required")
	}
	if owner, name, ok := strings.Cut(c.Template, "/"); !ok || owner == "" || name == "" {
		return fmt.Errorf("template must be owner/name, got %q", c.Template)
	}
	if len(c.Services) == 0 {
		return fmt.Errorf("at least one service is required")
	}

	seen := make(map[string]bool, len(c.Services))
	for _, svc := range c.Services {
		if svc.Name == "" {
			return fmt.Errorf("service name is required")
		}
		if svc.Upstream == "" {
			return fmt.Errorf("service %s: upstream is required", svc.Name)
		}
		if seen[svc.Name] {
			return fmt.Errorf("duplicate service %s", svc.Name)
		}
		seen[svc.Name] = true
	}

	if c.Archive != nil {
		if c.Archive.Endpoint == "" {
			return fmt.Errorf("archive: endpoint is required")
		}
		if c.Archive.Region == "" {
			return fmt.Errorf("archive: region is required")
		}
		if c.Archive.Bucket == "" {
			return fmt.Errorf("archive: bucket is required")
		}
	}

	return nil
}

// ServiceNames returns the catalog's service names in declaration order.
func (c *Config) ServiceNames() []string {
	names := make([]string, 0, len(c.Services))
	for _, svc := range c.Services {
		names = append(names, svc.Name)
	}
	return names
}

// Upstreams returns the service to upstream URL catalog.
func (c *Config) Upstreams() map[string]string {
	catalog := make(map[string]string, len(c.Services))
	for _, svc := range c.Services {
		catalog[svc.Name] = svc.Upstream
	}
	return catalog
}

// UpstreamFor returns the upstream URL for service, or empty when the
// service is not in the catalog.
func (c *Config) UpstreamFor(service string) string {
	for _, svc := range c.Services {
		if svc.Name == service {
			return svc.Upstream
		}
	}
	return ""
}
