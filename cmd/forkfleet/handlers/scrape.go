package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/imamik/forkfleet/internal/config"
	"github.com/imamik/forkfleet/internal/scrape"
	"github.com/imamik/forkfleet/internal/ui/tui"
)

// openTranscript opens the transcript source (for testing injection).
// An empty or "-" path reads from stdin.
var openTranscript = func(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	// #nosec G304 - the path is an explicit CLI argument
	return os.Open(path)
}

// Scrape extracts per-service status from an agent transcript and renders
// the recovered fleet state. Parsing is best effort and read-only.
func Scrape(ctx context.Context, configPath, transcriptPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	in, err := openTranscript(transcriptPath)
	if err != nil {
		return fmt.Errorf("failed to open transcript: %w", err)
	}
	defer in.Close()

	parser := scrape.NewParser(cfg.ServiceNames(), nil)
	if err := parser.Feed(in); err != nil {
		return err
	}

	printScrapeResults(cfg, parser.Results())
	return nil
}

// printScrapeResults renders the recovered state, styled on interactive
// terminals and as plain rows otherwise.
func printScrapeResults(cfg *config.Config, results []scrape.ServiceStatus) {
	if isInteractiveTTY() {
		snapshots := make([]tui.Snapshot, 0, len(results))
		for _, res := range results {
			snapshots = append(snapshots, tui.Snapshot{Service: res.Service, Status: res.Status, Detail: res.Detail})
		}
		fmt.Print(tui.RenderFleetOnce(cfg.Organization, cfg.Template, snapshots))
		return
	}

	for _, res := range results {
		fmt.Printf("  %-20s %-10s %s\n", res.Service, res.Status, res.Detail)
	}
}
