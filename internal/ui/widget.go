package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/storagespace/internal/config"
	"github.com/lumipallolabs/storagespace/internal/model"
)

const summaryGaugeWidth = 24

// LimitVolumes caps vols to what fits the size class, keeping OS order
func LimitVolumes(vols []model.Volume, class config.SizeClass) []model.Volume {
	limit := class.Limit()
	if limit <= 0 || len(vols) <= limit {
		return vols
	}
	return vols[:limit]
}

// RenderSummary renders the compact volume summary: one gauge row per volume
func RenderSummary(vols []model.Volume, class config.SizeClass, percentFull bool) string {
	vols = LimitVolumes(vols, class)
	if len(vols) == 0 {
		return LabelStyle.Render("No volumes")
	}

	nameWidth := 0
	for _, v := range vols {
		nameWidth = max(nameWidth, lipgloss.Width(v.Name))
	}
	nameWidth = min(nameWidth, 24)

	var lines []string
	for _, v := range vols {
		caption := lipgloss.NewStyle().
			Foreground(SeverityColor(v.Severity())).
			Render(PercentCaption(v, percentFull))
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			VolumeNameStyle.Width(nameWidth).Render(truncate(v.Name, nameWidth)),
			renderGauge(v, summaryGaugeWidth),
			caption,
			LabelStyle.Render(fmt.Sprintf("(%s of %s free)",
				model.FormatSize(v.FreeBytes), model.FormatSize(v.TotalBytes))),
		))
	}
	return strings.Join(lines, "\n")
}
