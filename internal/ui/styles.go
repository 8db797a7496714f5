package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/storagespace/internal/model"
)

// Colors - neon palette on a dark background
var (
	ColorPrimary    = lipgloss.Color("#C084FC") // soft violet
	ColorSuccess    = lipgloss.Color("#39FF14") // neon green
	ColorWarning    = lipgloss.Color("#FFB86C") // amber
	ColorDanger     = lipgloss.Color("#FF5555") // red
	ColorMuted      = lipgloss.Color("#4A5568")
	ColorBorder     = lipgloss.Color("#4A5568")
	ColorBackground = lipgloss.Color("#1F1F23")
	ColorCyan       = lipgloss.Color("#00FFFF")
	ColorDir        = lipgloss.Color("#00FFFF") // cyan for directories
	ColorFile       = lipgloss.Color("#A0A0A0") // dimmer for files
	ColorText       = lipgloss.Color("#E4E4E7")
	ColorLabel      = lipgloss.Color("#6B7280")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Background(ColorBackground).
			Padding(0, 1)

	AppNameStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorLabel)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Padding(0, 1)

	// Tree
	TreePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TreeItemSelected = lipgloss.NewStyle().
				Background(ColorPrimary).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	TreeItemSelectedUnfocused = lipgloss.NewStyle().
					Background(lipgloss.Color("#4A5568")).
					Foreground(lipgloss.Color("#FFFFFF"))

	TreeSizeBar = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	TreemapPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 1)

	// Volumes panel
	VolumesPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 1)

	VolumeNameStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	// Help bar - dim with bright key highlights
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3D4555")).
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(ColorCyan).
		Background(lipgloss.Color("#1E3A4C")).
		Padding(0, 1)

	HelpOverlayKey = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Padding(0, 1)
)

// SeverityColor returns the gauge color for a usage band
func SeverityColor(s model.Severity) lipgloss.Color {
	switch s {
	case model.SeverityHigh:
		return ColorDanger
	case model.SeverityMedium:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// FreeSpaceColor bands a free percentage: more than 50 is good,
// more than 25 a warning, anything lower is critical.
func FreeSpaceColor(freePct float64) lipgloss.Color {
	switch {
	case freePct > 50:
		return ColorSuccess
	case freePct > 25:
		return ColorWarning
	default:
		return ColorDanger
	}
}

// FormatTime formats a time for display, using shorter format for current year
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Year() == time.Now().Year() {
		return t.Format("Jan 2 15:04")
	}
	return t.Format("Jan 2, 2006 15:04")
}
