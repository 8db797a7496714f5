package ui

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/lumipallolabs/storagespace/internal/model"
)

// FileType detects a file's type from its content, e.g. "PNG".
// Returns "" when the type can't be determined.
func FileType(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	if ext := mtype.Extension(); ext != "" {
		return strings.ToUpper(strings.TrimPrefix(ext, "."))
	}
	return ""
}

// DetailsPanel renders the one-line summary of the selected node. The
// file count and the disk reads behind it run once per selected node,
// not on every frame.
type DetailsPanel struct {
	node     *model.Node
	files    int
	fileType string
	modTime  time.Time
	hasTime  bool
}

// NewDetailsPanel creates an empty details panel
func NewDetailsPanel() *DetailsPanel {
	return &DetailsPanel{}
}

func (d *DetailsPanel) load(node *model.Node) {
	if d.node == node {
		return
	}
	*d = DetailsPanel{node: node}

	if node.IsDir {
		d.files = node.CountFiles()
	} else {
		d.fileType = FileType(node.Path)
	}
	if info, err := os.Lstat(node.Path); err == nil {
		d.modTime = info.ModTime()
		d.hasTime = true
	}
}

// View summarizes node in one line
func (d *DetailsPanel) View(node *model.Node, width int) string {
	if node == nil {
		return ""
	}
	d.load(node)

	labelStyle := LabelStyle
	valueStyle := lipgloss.NewStyle().Foreground(ColorText)

	var parts []string
	if node.IsDir {
		parts = append(parts, labelStyle.Render("Folder ")+
			valueStyle.Render(humanize.Comma(int64(d.files))+" files"))
	} else if d.fileType != "" {
		parts = append(parts, labelStyle.Render("Type ")+valueStyle.Render(d.fileType))
	}
	parts = append(parts, labelStyle.Render("Size ")+valueStyle.Render(model.FormatSize(node.TotalSize())))

	if d.hasTime {
		parts = append(parts, labelStyle.Render("Modified ")+valueStyle.Render(FormatTime(d.modTime)))
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(ColorCyan).Render(node.Path))

	line := strings.Join(parts, labelStyle.Render("  ·  "))
	return lipgloss.NewStyle().Padding(0, 1).MaxWidth(max(1, width)).Render(line)
}
