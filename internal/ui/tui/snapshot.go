package tui

import "github.com/imamik/forkfleet/internal/provisioning"

// Snapshot is one service's state for a single static rendering.
type Snapshot struct {
	Service string
	Status  provisioning.StatusKind
	Detail  string
}

// RenderFleetOnce renders the fleet state once using lipgloss (non-watch
// mode, e.g. plain output or transcript summaries).
func RenderFleetOnce(organization, template string, snapshots []Snapshot) string {
	services := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		services = append(services, s.Service)
	}

	m := NewFleetModel(organization, template, services)
	for _, s := range snapshots {
		m.updateServiceStatus(ServiceStatusMsg{Service: s.Service, Status: s.Status, Detail: s.Detail})
	}
	m.Done = allSettled(m)
	return renderView(m)
}

func allSettled(m Model) bool {
	for _, row := range m.Services {
		if !row.Done() {
			return false
		}
	}
	return len(m.Services) > 0
}
