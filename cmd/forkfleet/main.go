// Package main is the entry point for the forkfleet CLI.
//
// forkfleet is a command-line tool for provisioning fleets of service
// repositories on GitHub from a shared template. It creates each missing
// repository, shepherds it through the template's initialization workflows,
// and keeps a local working copy of every service in sync.
//
// Commands: init, fork, status, doctor, report, scrape.
//
// For detailed usage information, run:
//
//	forkfleet --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/forkfleet/cmd/forkfleet/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Ctrl-C cancels the context so in-flight jobs report a clean
	// cancellation instead of being killed mid-poll.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
