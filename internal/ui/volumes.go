package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/storagespace/internal/model"
)

const (
	volumeCellWidth = 28
	volumeGaugeRows = 3 // name, gauge, sizes
)

// VolumesPanel shows one usage gauge per mounted volume
type VolumesPanel struct {
	volumes     []model.Volume
	err         error
	percentFull bool
	width       int
}

// NewVolumesPanel creates a volumes panel
func NewVolumesPanel(percentFull bool) VolumesPanel {
	return VolumesPanel{percentFull: percentFull}
}

// SetVolumes replaces the displayed volumes
func (v *VolumesPanel) SetVolumes(vols []model.Volume, err error) {
	v.volumes = vols
	v.err = err
}

// Volumes returns the volumes currently shown
func (v VolumesPanel) Volumes() []model.Volume {
	return v.volumes
}

// SetPercentFull switches the caption between percent used and percent free
func (v *VolumesPanel) SetPercentFull(full bool) {
	v.percentFull = full
}

// SetWidth sets the panel width
func (v *VolumesPanel) SetWidth(w int) {
	v.width = w
}

func (v VolumesPanel) columns() int {
	return max(1, (v.width-4)/volumeCellWidth)
}

// Height returns the rendered height including borders
func (v VolumesPanel) Height() int {
	if len(v.volumes) == 0 {
		return 3
	}
	rows := (len(v.volumes) + v.columns() - 1) / v.columns()
	return rows*volumeGaugeRows + 2
}

// PercentCaption formats a volume's percentage the way the user asked for it
func PercentCaption(vol model.Volume, full bool) string {
	if full {
		pct, ok := vol.UsedPercent()
		if !ok {
			return "-"
		}
		return fmt.Sprintf("%.0f%% full", pct)
	}
	pct, ok := vol.FreePercent()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.0f%% free", pct)
}

// renderGauge draws the usage bar for one volume, colored by severity
func renderGauge(vol model.Volume, width int) string {
	used, ok := vol.UsedPercent()
	if !ok {
		used = 0
	}
	bar := progress.New(
		progress.WithSolidFill(string(SeverityColor(vol.Severity()))),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	return bar.ViewAs(used / 100)
}

func (v VolumesPanel) renderCell(vol model.Volume) string {
	inner := volumeCellWidth - 2
	name := VolumeNameStyle.Render(truncate(vol.Name, inner))
	sizes := fmt.Sprintf("%s of %s", model.FormatSize(vol.FreeBytes), model.FormatSize(vol.TotalBytes))
	caption := lipgloss.NewStyle().Foreground(SeverityColor(vol.Severity())).Render(PercentCaption(vol, v.percentFull))

	lines := []string{
		name,
		renderGauge(vol, inner),
		LabelStyle.Render(truncate(sizes+" free", inner-lipgloss.Width(caption)-1)) + " " + caption,
	}
	return lipgloss.NewStyle().Width(volumeCellWidth).Render(strings.Join(lines, "\n"))
}

// View renders the gauge grid
func (v VolumesPanel) View() string {
	style := VolumesPanelStyle.Width(max(1, v.width-2))

	switch {
	case v.err != nil:
		return style.Render(ErrorStyle.Render("Volumes: " + v.err.Error()))
	case len(v.volumes) == 0:
		return style.Render(LabelStyle.Render("No volumes"))
	}

	cols := v.columns()
	var rows []string
	for i := 0; i < len(v.volumes); i += cols {
		var cells []string
		for _, vol := range v.volumes[i:min(i+cols, len(v.volumes))] {
			cells = append(cells, v.renderCell(vol))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
