package tui

import "github.com/charmbracelet/lipgloss"

// Palette tuned for dark terminals, with readable fallbacks on light
// backgrounds.
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	colorFailure = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#a16207", Dark: "#facc15"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#1d4ed8", Dark: "#60a5fa"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	colorBright  = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#f9fafb"}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorBright)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginTop(1)
	footerStyle   = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)

	readyStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	failedStyle  = lipgloss.NewStyle().Foreground(colorFailure)
	waitingStyle = lipgloss.NewStyle().Foreground(colorWarning)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorBright)
	dimStyle     = lipgloss.NewStyle().Foreground(colorMuted)

	progressBarFull  = lipgloss.NewStyle().Foreground(colorSuccess)
	progressBarEmpty = lipgloss.NewStyle().Foreground(colorMuted)
)

// Status cell glyphs, all four columns wide so rows line up.
const (
	checkMark = "[ok]"
	skipMark  = "[--]"
	crossMark = "[xx]"
	pending   = "[  ]"
)

// spinnerFrames animate the glyph of in-flight services.
var spinnerFrames = []string{"[> ]", "[>>]", "[ >]", "[>>]"}
