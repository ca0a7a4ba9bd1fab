package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/forkfleet/cmd/forkfleet/handlers"
)

// Fork returns the command for provisioning the repository fleet.
//
// This command handles the complete lifecycle of fleet provisioning:
// loading configuration, checking prerequisites, creating missing
// repositories from the template, waiting for their initialization
// workflows, and syncing local clones.
//
// Optional flags:
//
//	--config, -c: Path to fleet configuration YAML file (default: forkfleet.yaml)
//	--services, -s: Subset of services to provision (default: all)
//	--plain: Disable the live dashboard and print plain progress lines
//
// Environment variables:
//
//	GITHUB_TOKEN: GitHub API token (required unless set in the config file)
func Fork() *cobra.Command {
	var (
		configPath string
		services   []string
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "fork",
		Short: "Create and initialize the repository fleet",
		Long: `Create and initialize your repository fleet on GitHub.

Each service that has no repository yet is created from the template,
walked through the template's initialization workflows, and cloned
locally. Services whose repositories already exist are synced and
skipped. All services are provisioned concurrently.

If no config file is specified, it looks for forkfleet.yaml in the
current directory. Use 'forkfleet init' to create a configuration file.

Examples:
  # Provision every service in forkfleet.yaml
  forkfleet fork

  # Provision using a specific config file
  forkfleet fork -c osdu.yaml

  # Provision a subset of the fleet
  forkfleet fork -s partition -s legal

  # Plain log output for CI pipelines
  forkfleet fork --plain`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Fork(cmd.Context(), configPath, services, plain)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: forkfleet.yaml)")
	cmd.Flags().StringSliceVarP(&services, "services", "s", nil, "Services to provision (default: all in config)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable the live dashboard")

	return cmd
}
