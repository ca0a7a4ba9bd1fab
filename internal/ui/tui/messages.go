// Package tui provides a Bubble Tea-based terminal UI for fleet provisioning.
package tui

import "github.com/imamik/forkfleet/internal/provisioning"

// ServiceStatusMsg carries one status update for a service repository.
type ServiceStatusMsg struct {
	Service string
	Status  provisioning.StatusKind
	Detail  string
}

// TickMsg advances the spinner and the ETA clock once a second.
type TickMsg struct{}

// ErrMsg shuts the dashboard down with a terminal error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the fleet run is complete.
type DoneMsg struct{}
