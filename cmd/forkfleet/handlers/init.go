package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/forkfleet/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive configuration wizard.
	runWizard = config.RunWizard

	// writeConfigFile writes the config to a file.
	writeConfigFile = func(cfg *config.Config, path string) error {
		return cfg.WriteFile(path)
	}
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := result.ToConfig()

	if err := writeConfigFile(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("forkfleet - Repository fleets from a template")
	fmt.Println("=============================================")
	fmt.Println()
	fmt.Println("This wizard creates a fleet configuration with sensible defaults.")
	fmt.Println("Just answer a few simple questions.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	// Summary
	fmt.Println("Fleet Summary")
	fmt.Println("-------------")
	fmt.Printf("  Organization: %s\n", cfg.Organization)
	fmt.Printf("  Template:     %s\n", cfg.Template)
	fmt.Printf("  Branch:       %s\n", cfg.DefaultBranch)
	fmt.Printf("  Clone root:   %s\n", cfg.CloneRoot)
	fmt.Printf("  Services:     %d\n", len(cfg.Services))
	for _, svc := range cfg.Services {
		fmt.Printf("    - %s\n", svc.Name)
	}
	fmt.Println()

	// Next steps
	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Set your GitHub API token:")
	fmt.Println("     export GITHUB_TOKEN=<your-token>")
	fmt.Println()
	fmt.Printf("  2. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  3. Provision the fleet:")
	fmt.Printf("     forkfleet fork\n")
	fmt.Println()
}
