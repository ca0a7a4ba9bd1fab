package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/forkfleet/cmd/forkfleet/handlers"
)

// Init returns the command for interactively creating a fleet configuration.
//
// This command guides users through creating a fleet configuration YAML file
// using an interactive wizard with text inputs and multi-select prompts.
//
// Flags:
//
//	--output, -o: Path to output file (default "forkfleet.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a fleet configuration",
		Long: `Interactively create a fleet configuration file.

This command guides you through configuring your repository fleet
step by step. It will ask about:

  - GitHub organization for the fork repositories
  - Template repository that seeds new forks
  - Default branch name
  - Which services to include in the fleet
  - Local clone directory

The GitHub token is never written to the file; set it through the
GITHUB_TOKEN environment variable instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "forkfleet.yaml", "Output file path")

	return cmd
}
