package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const helpKeyColumnWidth = 12 // Width for key column in help text

// HelpOverlay displays keyboard shortcuts in a centered overlay
type HelpOverlay struct {
	keys    KeyMap
	visible bool
	width   int
	height  int
}

// NewHelpOverlay creates a new help overlay component
func NewHelpOverlay(keys KeyMap) HelpOverlay {
	return HelpOverlay{keys: keys}
}

// Toggle toggles the visibility of the help overlay
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// SetVisible sets the visibility of the help overlay
func (h *HelpOverlay) SetVisible(visible bool) {
	h.visible = visible
}

// IsVisible returns whether the help overlay is visible
func (h HelpOverlay) IsVisible() bool {
	return h.visible
}

// SetSize sets the dimensions of the help overlay
func (h *HelpOverlay) SetSize(w, height int) {
	h.width = w
	h.height = height
}

var helpSections = []string{"NAVIGATION", "ACTIONS", "VIEW", "OTHER"}

// View renders the help overlay
func (h HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	titleStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Bold(true).
		MarginTop(1)

	descStyle := lipgloss.NewStyle().Foreground(ColorText)

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	content.WriteString("\n")

	for i, group := range h.keys.FullHelp() {
		if i < len(helpSections) {
			content.WriteString(sectionStyle.Render(helpSections[i]))
			content.WriteString("\n")
		}
		for _, b := range group {
			content.WriteString(formatHelpLine(HelpOverlayKey, descStyle, b))
		}
	}

	box := boxStyle.Render(strings.TrimSuffix(content.String(), "\n"))
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}

// formatHelpLine formats a single help line with key and description
func formatHelpLine(keyStyle, descStyle lipgloss.Style, b key.Binding) string {
	return keyStyle.Width(helpKeyColumnWidth).Render(b.Help().Key) + descStyle.Render(b.Help().Desc) + "\n"
}

// HelpBar renders a bottom help bar with key hints
func HelpBar(keys KeyMap, width int) string {
	var parts []string
	for _, b := range keys.ShortHelp() {
		parts = append(parts, HelpKey.Render(b.Help().Key)+HelpStyle.Render(" "+b.Help().Desc))
	}
	bar := strings.Join(parts, HelpStyle.Render("  |  "))
	return HelpStyle.Width(width).MaxHeight(1).Render(bar)
}
