package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/forkfleet/cmd/forkfleet/handlers"
)

// Report returns the command for inspecting and archiving run reports.
//
// Every fleet run writes a JSON report to the report directory. This
// command shows the most recent one and can push it to the configured
// S3-compatible archive.
//
// Optional flags:
//
//	--config, -c: Path to fleet configuration YAML file (default: forkfleet.yaml)
//	--upload: Upload the latest report to the configured archive
//	--list-remote: List reports already in the archive instead
func Report() *cobra.Command {
	var (
		configPath string
		upload     bool
		listRemote bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show or archive the latest run report",
		Long: `Show the most recent fleet run report.

Reports are written after every 'forkfleet fork' run. With --upload the
latest report is pushed to the S3-compatible archive from the config's
archive section. With --list-remote the archived report keys are listed
instead of showing the local report.

Examples:
  # Show the latest run report
  forkfleet report

  # Archive the latest report
  forkfleet report --upload

  # List archived reports
  forkfleet report --list-remote`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Report(cmd.Context(), configPath, upload, listRemote)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: forkfleet.yaml)")
	cmd.Flags().BoolVar(&upload, "upload", false, "Upload the latest report to the archive")
	cmd.Flags().BoolVar(&listRemote, "list-remote", false, "List reports in the archive")

	return cmd
}
