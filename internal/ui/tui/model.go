package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/forkfleet/internal/provisioning"
	"github.com/imamik/forkfleet/internal/ui/benchmarks"
)

// ServiceRow is the display state of one service repository.
type ServiceRow struct {
	Name   string
	Status provisioning.StatusKind
	Detail string

	// Stage tracking for ETA calculation
	Stage          provisioning.State
	StageStartedAt time.Time
	History        []benchmarks.StageRecord
}

// Done reports whether the row reached a terminal status.
func (r ServiceRow) Done() bool {
	return r.Status == provisioning.StatusSuccess ||
		r.Status == provisioning.StatusSkipped ||
		r.Status == provisioning.StatusError
}

// Model is the Bubble Tea model for the fleet dashboard.
type Model struct {
	// Fleet info
	Organization string
	Template     string

	// One row per service, in catalog order
	Services []ServiceRow

	// ETA
	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
}

// NewFleetModel creates a model for the fork command TUI.
func NewFleetModel(organization, template string, services []string) Model {
	rows := make([]ServiceRow, 0, len(services))
	for _, svc := range services {
		rows = append(rows, ServiceRow{Name: svc, Status: provisioning.StatusPending})
	}
	return Model{
		Organization:     organization,
		Template:         template,
		Services:         rows,
		StartTime:        time.Now(),
		PerformanceScale: 1.0,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case ServiceStatusMsg:
		m.updateServiceStatus(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA()
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		m.updateETA()
		return m, tea.Quit
	}

	return m, nil
}

// rowFor returns the row for the named service, or nil when the service
// is not part of the fleet.
func (m *Model) rowFor(service string) *ServiceRow {
	for i := range m.Services {
		if m.Services[i].Name == service {
			return &m.Services[i]
		}
	}
	return nil
}

func (m *Model) updateServiceStatus(msg ServiceStatusMsg) {
	row := m.rowFor(msg.Service)
	if row == nil {
		return
	}

	row.Status = msg.Status
	row.Detail = msg.Detail

	now := time.Now()
	stage, ok := benchmarks.StageForDetail(msg.Detail)
	switch {
	case ok && stage != row.Stage:
		row.closeStage(now)
		row.Stage = stage
		row.StageStartedAt = now
	case row.Done():
		row.closeStage(now)
		row.Stage = ""
	}
}

// closeStage records the duration of the stage the row is leaving.
func (r *ServiceRow) closeStage(now time.Time) {
	if r.Stage == "" {
		return
	}
	ended := now
	r.History = append(r.History, benchmarks.StageRecord{
		Stage:     r.Stage,
		StartedAt: r.StageStartedAt,
		EndedAt:   &ended,
	})
}

// updateETA recalculates the fleet ETA. Services provision concurrently, so
// the fleet finishes with its slowest service.
func (m *Model) updateETA() {
	if m.Done {
		m.EstimatedRemaining = 0
		return
	}

	var worst time.Duration
	scale := 1.0
	for _, row := range m.Services {
		if row.Done() {
			continue
		}

		// Rows that have not reported a stage yet still have the whole
		// creation path ahead of them.
		remaining := benchmarks.TotalEstimate()
		rowScale := 1.0
		if row.Stage != "" {
			elapsed := time.Since(row.StageStartedAt)
			rowScale = benchmarks.PerformanceScale(row.Stage, elapsed, row.History)
			remaining = benchmarks.EstimateRemainingWithScale(row.Stage, elapsed, row.History, rowScale)
		}
		if remaining > worst {
			worst = remaining
			scale = rowScale
		}
	}

	m.EstimatedRemaining = worst
	m.PerformanceScale = scale
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
