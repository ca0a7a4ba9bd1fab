package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/imamik/forkfleet/internal/provisioning"
)

// ServiceState is the read-only view of one fleet service.
type ServiceState struct {
	Service   string `json:"service"`
	Exists    bool   `json:"exists"`
	LocalCopy bool   `json:"localCopy"`
	RepoURL   string `json:"repoUrl,omitempty"`
}

// Status shows which fleet repositories exist on GitHub and which have a
// local clone. All checks are read-only and run concurrently, one goroutine
// per service.
func Status(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	hosting := newHostingClient(cfg.Token, cfg.Organization, logr.Discard(), loadTimeouts().RetryOptions()...)
	ws := newWorkspace(cfg.CloneRoot, logr.Discard())

	states, err := collectStatus(ctx, hosting, ws, cfg.ServiceNames())
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(states, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printStatus(cfg.Organization, states)
	return nil
}

// collectStatus probes every service concurrently. The slice position of
// each result matches the catalog order, so output stays stable.
func collectStatus(ctx context.Context, hosting provisioning.HostingClient, ws provisioning.Workspace, services []string) ([]ServiceState, error) {
	states := make([]ServiceState, len(services))

	g, ctx := errgroup.WithContext(ctx)
	for i, svc := range services {
		g.Go(func() error {
			exists, err := hosting.Exists(ctx, svc)
			if err != nil {
				return fmt.Errorf("%s: %w", svc, err)
			}

			states[i] = ServiceState{
				Service:   svc,
				Exists:    exists,
				LocalCopy: ws.HasLocalCopy(svc),
			}
			if exists {
				states[i].RepoURL = hosting.RepositoryURL(svc)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return states, nil
}

// printStatus renders the fleet state as an aligned table.
func printStatus(organization string, states []ServiceState) {
	printHeader(fmt.Sprintf("forkfleet: %s", organization))

	var existing, cloned int
	for _, s := range states {
		extra := "not created"
		if s.Exists {
			existing++
			extra = s.RepoURL
		}
		if s.LocalCopy {
			cloned++
			extra += "  (local clone)"
		}
		printRow(s.Service, s.Exists, extra)
	}

	fmt.Printf("\n  %d of %d repositories exist, %d cloned locally\n", existing, len(states), cloned)
}
