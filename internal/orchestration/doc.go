// Package orchestration coordinates fleet-wide repository provisioning.
//
// This package fans out one provisioning job per service, collects every
// outcome, and exposes the aggregate as a Run. It defines the concurrency
// and result-gathering rules but delegates the per-repository work to
// internal/provisioning.
//
// # Guarantees
//
// A provisioning pass upholds the following regardless of individual job
// outcomes:
//  1. Every requested service produces exactly one Result.
//  2. A failing or panicking job never aborts the other jobs.
//  3. Status updates from concurrent jobs are delivered to the caller's
//     sink one at a time.
//  4. Cancelling the context stops in-flight waits and surfaces each
//     affected service as an error result.
//
// # Usage
//
// The Orchestrator is the main entry point:
//
//	orch := orchestration.New(orchestration.Params{
//	    Hosting:   client,
//	    Workspace: workspace,
//	    Upstreams: catalog,
//	})
//	run := orch.ProvisionAll(ctx, services)
//	if !run.AllOK() {
//	    // inspect run.Failed()
//	}
//
// Provisioning is idempotent. Re-running a fleet pass skips repositories
// that already exist and only creates what is missing.
package orchestration
