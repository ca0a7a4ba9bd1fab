package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/forkfleet/cmd/forkfleet/handlers"
)

// Scrape returns the command for extracting fleet status from a transcript.
//
// When provisioning is driven by an external agent instead of 'forkfleet
// fork', this command recovers per-service status from the agent's output.
//
// Optional flags:
//
//	--config, -c: Path to fleet configuration YAML file (default: forkfleet.yaml)
func Scrape() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "scrape [transcript]",
		Short: "Extract fleet status from an agent transcript",
		Long: `Extract per-service status from an agent transcript.

Reads the transcript from the given file, or from stdin when no file is
given, and maps its lines onto the fleet catalog: which repositories
were created, which workflows ran, and which services completed. The
parsing is best effort and never modifies anything.

Examples:
  # Scrape a saved transcript
  forkfleet scrape agent.log

  # Pipe a live transcript through
  some-agent | forkfleet scrape`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcriptPath := ""
			if len(args) == 1 {
				transcriptPath = args[0]
			}
			return handlers.Scrape(cmd.Context(), configPath, transcriptPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: forkfleet.yaml)")

	return cmd
}
