package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/forkfleet/internal/orchestration"
	"github.com/imamik/forkfleet/internal/provisioning"
)

// RunFunc executes a fleet run, reporting per-service progress through sink.
type RunFunc func(ctx context.Context, sink provisioning.StatusSink) (*orchestration.Run, error)

// RunFleetTUI wraps a fleet run with a Bubble Tea dashboard. Status updates
// from the run's jobs drive the display; the run's outcome is returned once
// the program exits. A nil run means the display was quit before the run
// finished.
func RunFleetTUI(
	ctx context.Context,
	organization, template string,
	services []string,
	runFn RunFunc,
) (*orchestration.Run, error) {
	m := NewFleetModel(organization, template, services)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Run the fleet in a background goroutine; the program owns the terminal.
	runCh := make(chan *orchestration.Run, 1)
	go func() {
		sink := provisioning.SinkFunc(func(service string, status provisioning.StatusKind, detail string) {
			p.Send(ServiceStatusMsg{Service: service, Status: status, Detail: detail})
		})

		run, err := runFn(ctx, sink)
		runCh <- run
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	// The run outcome is only available when the fleet finished before the
	// program exited; quitting early leaves it nil.
	var run *orchestration.Run
	select {
	case run = <-runCh:
	default:
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return run, fm.Err
	}
	return run, nil
}
