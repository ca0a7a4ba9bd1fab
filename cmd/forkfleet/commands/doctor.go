package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/forkfleet/cmd/forkfleet/handlers"
)

// Doctor returns the command for diagnosing the fleet setup.
//
// This command validates configuration, checks local tooling, and probes
// GitHub and the optional report archive for connectivity.
//
// Optional flags:
//
//	--config, -c: Path to fleet configuration YAML file (default: forkfleet.yaml)
//	--json: Output in JSON format
func Doctor() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose fleet configuration and connectivity",
		Long: `Diagnose your forkfleet setup.

Checks performed:
  - Required and optional client tools (git, gh)
  - Configuration file validity
  - GitHub token presence and API connectivity
  - Local clone directory
  - Report archive reachability (when configured)

Examples:
  # Diagnose the fleet setup
  forkfleet doctor

  # Get diagnostics in JSON format
  forkfleet doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: forkfleet.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
