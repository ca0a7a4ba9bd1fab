package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/forkfleet/internal/provisioning"
	"github.com/imamik/forkfleet/internal/ui/benchmarks"
)

// stageIndex positions each creation-path stage for progress math.
var stageIndex = func() map[provisioning.State]int {
	idx := make(map[provisioning.State]int, len(benchmarks.StageOrder))
	for i, stage := range benchmarks.StageOrder {
		idx[stage] = i
	}
	return idx
}()

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderServices(&b, m)
	if countStatus(m, provisioning.StatusError) > 0 {
		renderFailures(&b, m)
	}
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("forkfleet: %s", m.Organization)
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done && countStatus(m, provisioning.StatusError) > 0:
		status += failedStyle.Render("Finished with failures")
	case m.Done:
		status += readyStyle.Render("Fleet ready")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + waitingStyle.Render("Provisioning")
	}
	b.WriteString(status)
	b.WriteString("\n")

	if m.Template != "" {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  template: %s", m.Template)))
		b.WriteString("\n")
	}
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)

	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = max(m.Width-30, 10)
	}
	filled := min(int(float64(barWidth)*progress), barWidth)

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	eta := ""
	if m.EstimatedRemaining > 0 {
		eta = fmt.Sprintf(" ETA %s", formatDuration(m.EstimatedRemaining))
	}
	if m.PerformanceScale != 0 && m.PerformanceScale != 1.0 {
		eta += fmt.Sprintf("  speed x%.2f", m.PerformanceScale)
	}

	fmt.Fprintf(b, "  %s %d%%%s\n", bar, int(progress*100), eta)
}

func renderServices(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Services"))
	b.WriteString("\n")

	for _, row := range m.Services {
		icon, style := statusIcon(row.Status, m.SpinnerFrame)

		detail := row.Detail
		if detail == "" {
			detail = string(row.Status)
		}
		elapsed := ""
		if !row.Done() && row.Stage != "" {
			elapsed = formatDuration(time.Since(row.StageStartedAt))
		}

		// Pad before styling, ANSI escapes must not count against the
		// column widths.
		line := fmt.Sprintf("%s %-16s %-48s", icon, row.Name, detail)
		fmt.Fprintf(b, "    %s %s\n", style.Render(line), dimStyle.Render(elapsed))
	}
}

func renderFailures(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Failures"))
	b.WriteString("\n")

	for _, row := range m.Services {
		if row.Status != provisioning.StatusError {
			continue
		}
		line := fmt.Sprintf("%s %-16s", crossMark, row.Name)
		fmt.Fprintf(b, "    %s %s\n", failedStyle.Render(line), dimStyle.Render(row.Detail))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	parts := []string{fmt.Sprintf("elapsed: %s", elapsed)}

	if n := countStatus(m, provisioning.StatusSuccess); n > 0 {
		parts = append(parts, fmt.Sprintf("initialized: %d", n))
	}
	if n := countStatus(m, provisioning.StatusSkipped); n > 0 {
		parts = append(parts, fmt.Sprintf("skipped: %d", n))
	}
	if n := countStatus(m, provisioning.StatusError); n > 0 {
		parts = append(parts, fmt.Sprintf("failed: %d", n))
	}

	b.WriteString(footerStyle.Render(fmt.Sprintf("  %s  |  q: quit", strings.Join(parts, "  |  "))))
	b.WriteString("\n")
}

func statusIcon(status provisioning.StatusKind, frame int) (string, lipgloss.Style) {
	switch status {
	case provisioning.StatusSuccess:
		return checkMark, readyStyle
	case provisioning.StatusSkipped:
		return skipMark, dimStyle
	case provisioning.StatusError:
		return crossMark, failedStyle
	case provisioning.StatusWaiting:
		return currentSpinner(frame), waitingStyle
	case provisioning.StatusRunning:
		return currentSpinner(frame), activeStyle
	default:
		return pending, dimStyle
	}
}

func countStatus(m Model, status provisioning.StatusKind) int {
	n := 0
	for _, row := range m.Services {
		if row.Status == status {
			n++
		}
	}
	return n
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

// calculateProgress derives overall fleet progress from per-service stages.
// A terminal service counts as 1.0, an in-flight one as the fraction of
// creation-path stages it has passed.
func calculateProgress(m Model) float64 {
	if len(m.Services) == 0 {
		return 0
	}
	if m.Done {
		return 1.0
	}

	var progress float64
	for _, row := range m.Services {
		switch {
		case row.Done():
			progress += 1.0
		case row.Stage != "":
			if idx, ok := stageIndex[row.Stage]; ok {
				progress += float64(idx) / float64(len(benchmarks.StageOrder))
			}
		}
	}

	return min(progress/float64(len(m.Services)), 1.0)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
