package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lumipallolabs/storagespace/internal/model"
	"github.com/lumipallolabs/storagespace/internal/scanner"
)

const headerFreeBarWidth = 20 // Width of the volume free-space bar

// Header displays the scanned folder, scan status, and its volume
type Header struct {
	path     string
	volume   *model.Volume
	scanning bool
	progress scanner.Progress
	order    model.SortOrder
	spinner  spinner.Model
	width    int
}

// NewHeader creates a new header component
func NewHeader(order model.SortOrder) Header {
	return Header{
		order: order,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorCyan)),
		),
	}
}

// SetPath sets the folder being shown
func (h *Header) SetPath(path string) {
	h.path = path
}

// SetVolume sets the volume holding the folder; nil hides the bar
func (h *Header) SetVolume(v *model.Volume) {
	h.volume = v
}

// SetScanning sets the scanning state
func (h *Header) SetScanning(scanning bool) {
	h.scanning = scanning
	if !scanning {
		h.progress = scanner.Progress{}
	}
}

// Scanning reports whether the header shows a running scan
func (h Header) Scanning() bool {
	return h.scanning
}

// SetProgress updates the live scan status
func (h *Header) SetProgress(p scanner.Progress) {
	h.progress = p
}

// SetSortOrder updates the sort indicator
func (h *Header) SetSortOrder(o model.SortOrder) {
	h.order = o
}

// SetWidth sets the header width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// Tick starts the spinner animation
func (h Header) Tick() tea.Msg {
	return h.spinner.Tick()
}

// Update advances the spinner
func (h Header) Update(msg tea.Msg) (Header, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || !h.scanning {
		return h, nil
	}
	var cmd tea.Cmd
	h.spinner, cmd = h.spinner.Update(msg)
	return h, cmd
}

// StatusLine describes scan progress in one line
func StatusLine(p scanner.Progress) string {
	current := p.CurrentFile
	if current == "" {
		current = p.CurrentDirectory
	}
	return fmt.Sprintf("%s files · %s · %s",
		humanize.Comma(p.FilesScanned),
		model.FormatSize(p.BytesFound),
		current)
}

// freeBar renders the volume's free space as a bar banded by free percent
func freeBar(v model.Volume, width int) string {
	freePct, ok := v.FreePercent()
	if !ok {
		return ""
	}
	filled := int(freePct / 100 * float64(width))
	filled = min(width, max(0, filled))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(FreeSpaceColor(freePct)).Render(bar)
}

// View renders the header
func (h Header) View() string {
	appName := AppNameStyle.Render("STORAGESPACE")
	sep := lipgloss.NewStyle().Foreground(ColorBorder).Render(" │ ")

	left := appName
	if h.path != "" {
		left += sep + StatsStyle.Render(h.path)
	}

	var right, rightCompact string
	if h.scanning {
		right = h.spinner.View() + " " + LabelStyle.Render("Scanning "+StatusLine(h.progress))
		rightCompact = h.spinner.View() + " " + LabelStyle.Render("Scanning")
	} else if h.volume != nil {
		v := *h.volume
		freePct, _ := v.FreePercent()
		right = StatsStyle.Render(fmt.Sprintf("%s: %s free of %s  ",
			v.Name, model.FormatSize(v.FreeBytes), model.FormatSize(v.TotalBytes))) +
			freeBar(v, headerFreeBarWidth) +
			StatsStyle.Render(fmt.Sprintf(" %.0f%%", freePct))
		rightCompact = StatsStyle.Render(fmt.Sprintf("%s free", model.FormatSize(v.FreeBytes)))
	}
	if h.order != "" {
		left += sep + LabelStyle.Render("sort: "+h.order.String())
	}

	// Padding on HeaderStyle takes 2 cells
	avail := h.width - 2
	gap := avail - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		right = rightCompact
		gap = avail - lipgloss.Width(left) - lipgloss.Width(right)
	}
	if gap < 2 {
		right = ""
		gap = max(1, avail-lipgloss.Width(left))
	}

	line := left + strings.Repeat(" ", gap) + right
	return HeaderStyle.MaxHeight(1).Render(line)
}
