package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/forkfleet/cmd/forkfleet/handlers"
)

// Status returns the command for inspecting the current fleet state.
//
// This command performs read-only checks against GitHub and the local
// clone directory. It never creates or modifies anything.
//
// Optional flags:
//
//	--config, -c: Path to fleet configuration YAML file (default: forkfleet.yaml)
//	--json: Output in JSON format
func Status() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which fleet repositories exist",
		Long: `Show the current state of the repository fleet.

For every service in the catalog this checks whether its repository
exists on GitHub and whether a local clone is present. The checks run
concurrently and are read-only.

Examples:
  # Show fleet status
  forkfleet status

  # Get status in JSON format
  forkfleet status --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: forkfleet.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
