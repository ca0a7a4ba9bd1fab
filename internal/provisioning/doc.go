// Package provisioning implements the per-service repository state machine.
//
// A Job drives one service repository from an unknown starting state to an
// initialized one: existence check, create-from-template, workflow waits,
// initialization-issue annotation, and local sync. Jobs consume a
// HostingClient and a Workspace and report every transition through a
// StatusSink. Jobs hold no shared mutable state; the orchestration package
// fans them out concurrently.
//
// # Core Types
//
// Job is the state machine, Result its immutable terminal outcome.
// State enumerates lifecycle states; StatusKind is the coarse status a
// StatusSink receives. Timeouts carries the poll cadence and wall-clock
// budgets for workflow waits.
package provisioning
