package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lumipallolabs/storagespace/internal/model"
)

// TabSpacing is the number of spaces between tabwriter columns
const TabSpacing = 2

// TreeEntry is one printed row of a scan
type TreeEntry struct {
	Name     string       `json:"name"`
	Path     string       `json:"path"`
	Size     int64        `json:"size"`
	IsDir    bool         `json:"isDir"`
	Children []*TreeEntry `json:"children,omitempty"`
}

// pruneTree copies the part of the scan that gets printed: depth levels
// below the root (0 = all), skipping entries smaller than minSize.
func pruneTree(root *model.Node, order model.SortOrder, depth int, minSize int64) *TreeEntry {
	var walk func(n *model.Node, level int) *TreeEntry
	walk = func(n *model.Node, level int) *TreeEntry {
		e := &TreeEntry{Name: n.Name, Path: n.Path, Size: n.TotalSize(), IsDir: n.IsDir}
		if depth > 0 && level >= depth {
			return e
		}
		for _, c := range model.SortedChildren(n, order) {
			if c.TotalSize() < minSize {
				continue
			}
			e.Children = append(e.Children, walk(c, level+1))
		}
		return e
	}
	return walk(root, 0)
}

// PrintTreeJSON outputs the tree as indented JSON
func PrintTreeJSON(tree *TreeEntry, writer io.Writer) error {
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	_, err = fmt.Fprintln(writer, string(data))
	return err
}

// PrintTreeTable outputs the tree with sizes and share of total
func PrintTreeTable(tree *TreeEntry, total int64, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', tabwriter.AlignRight)

	fmt.Fprintln(w, "SIZE\tSHARE\t  PATH")

	var write func(e *TreeEntry, level int)
	write = func(e *TreeEntry, level int) {
		share := 0.0
		if total > 0 {
			share = 100 * float64(e.Size) / float64(total)
		}
		name := e.Name
		if level == 0 {
			name = e.Path
		} else if e.IsDir {
			name += "/"
		}
		fmt.Fprintf(w, "%s\t%.1f%%\t  %s%s\n", model.FormatSize(e.Size), share, strings.Repeat("  ", level), name)
		for _, c := range e.Children {
			write(c, level+1)
		}
	}
	write(tree, 0)

	return w.Flush()
}

// VolumeEntry is the printed form of a volume
type VolumeEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalSpace int64  `json:"totalSpace"`
	FreeSpace  int64  `json:"freeSpace"`
	Locator    string `json:"locator"`
	Type       string `json:"type"`
}

func volumeEntries(vols []model.Volume) []VolumeEntry {
	out := make([]VolumeEntry, 0, len(vols))
	for _, v := range vols {
		out = append(out, VolumeEntry{
			ID:         v.ID,
			Name:       v.Name,
			TotalSpace: v.TotalBytes,
			FreeSpace:  v.FreeBytes,
			Locator:    v.Path,
			Type:       v.FSType,
		})
	}
	return out
}

// PrintVolumesJSON outputs volumes as a JSON array
func PrintVolumesJSON(vols []model.Volume, writer io.Writer) error {
	data, err := json.MarshalIndent(volumeEntries(vols), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	_, err = fmt.Fprintln(writer, string(data))
	return err
}

// PrintVolumesTable outputs one row per volume
func PrintVolumesTable(vols []model.Volume, percentFull bool, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	header := "FREE%"
	if percentFull {
		header = "USED%"
	}
	fmt.Fprintf(w, "NAME\tTYPE\tSIZE\tFREE\t%s\tMOUNTED ON\n", header)

	for _, v := range vols {
		pct, ok := v.FreePercent()
		if percentFull {
			pct, ok = v.UsedPercent()
		}
		pctStr := "-"
		if ok {
			pctStr = fmt.Sprintf("%.0f%%", pct)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Name, v.FSType, model.FormatSize(v.TotalBytes), model.FormatSize(v.FreeBytes), pctStr, v.Path)
	}
	return w.Flush()
}
