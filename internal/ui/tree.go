package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/storagespace/internal/model"
)

const treeSizeBarWidth = 10 // Width of size proportion bar [██████░░░░]

// TreePanel displays the folder tree as disclosure rows
type TreePanel struct {
	root     *model.Node
	order    model.SortOrder
	cursor   int
	expanded map[string]bool
	visible  []*model.Node
	width    int
	height   int
	focused  bool
	offset   int // scroll offset
}

// NewTreePanel creates a new tree panel
func NewTreePanel(order model.SortOrder) TreePanel {
	return TreePanel{
		order:    order,
		expanded: make(map[string]bool),
	}
}

// SetRoot sets the root node; only the root starts expanded
func (t *TreePanel) SetRoot(root *model.Node) {
	t.root = root
	t.cursor = 0
	t.offset = 0
	t.expanded = make(map[string]bool)
	if root != nil {
		t.expanded[root.Path] = true
	}
	t.updateVisible()
}

// SetSortOrder reorders siblings, keeping the cursor on the same node
func (t *TreePanel) SetSortOrder(order model.SortOrder) {
	selected := t.Selected()
	t.order = order
	t.updateVisible()
	t.selectNode(selected)
}

// SortOrder returns the current sibling order
func (t TreePanel) SortOrder() model.SortOrder {
	return t.order
}

// SetSize sets the panel dimensions
func (t *TreePanel) SetSize(w, h int) {
	t.width = w
	t.height = h
	t.ensureVisible()
}

// SetFocused sets focus state
func (t *TreePanel) SetFocused(focused bool) {
	t.focused = focused
}

// Selected returns the currently selected node
func (t TreePanel) Selected() *model.Node {
	if t.cursor >= 0 && t.cursor < len(t.visible) {
		return t.visible[t.cursor]
	}
	return nil
}

// Visible returns the rows currently shown, in display order
func (t TreePanel) Visible() []*model.Node {
	return t.visible
}

// MoveUp moves cursor up
func (t *TreePanel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.ensureVisible()
	}
}

// MoveDown moves cursor down
func (t *TreePanel) MoveDown() {
	if t.cursor < len(t.visible)-1 {
		t.cursor++
		t.ensureVisible()
	}
}

func (t TreePanel) pageSize() int {
	return max(1, t.rows()-1)
}

// PageUp moves cursor up by a page
func (t *TreePanel) PageUp() {
	t.cursor = max(0, t.cursor-t.pageSize())
	t.ensureVisible()
}

// PageDown moves cursor down by a page
func (t *TreePanel) PageDown() {
	t.cursor = max(0, min(len(t.visible)-1, t.cursor+t.pageSize()))
	t.ensureVisible()
}

// Collapse collapses the current folder, or jumps to its parent
func (t *TreePanel) Collapse() {
	node := t.Selected()
	if node == nil {
		return
	}
	if node.IsDir && t.expanded[node.Path] && !node.IsLeaf() {
		delete(t.expanded, node.Path)
		t.updateVisible()
		return
	}
	if node.Parent != nil {
		t.selectNode(node.Parent)
	}
}

// Expand expands current folder
func (t *TreePanel) Expand() {
	if node := t.Selected(); node != nil && node.IsDir {
		t.expanded[node.Path] = true
		t.updateVisible()
	}
}

// Toggle toggles expand/collapse of current folder
func (t *TreePanel) Toggle() {
	if node := t.Selected(); node != nil && node.IsDir {
		if t.expanded[node.Path] {
			delete(t.expanded, node.Path)
		} else {
			t.expanded[node.Path] = true
		}
		t.updateVisible()
	}
}

// GoToTop moves to first item
func (t *TreePanel) GoToTop() {
	t.cursor = 0
	t.offset = 0
}

// GoToBottom moves to last item
func (t *TreePanel) GoToBottom() {
	t.cursor = max(0, len(t.visible)-1)
	t.ensureVisible()
}

// ExpandTo expands the tree to show and select a specific node
func (t *TreePanel) ExpandTo(node *model.Node) {
	if node == nil {
		return
	}
	for n := node.Parent; n != nil; n = n.Parent {
		t.expanded[n.Path] = true
	}
	t.updateVisible()
	t.selectNode(node)
}

func (t *TreePanel) selectNode(node *model.Node) {
	for i, n := range t.visible {
		if n == node {
			t.cursor = i
			t.ensureVisible()
			return
		}
	}
	if t.cursor >= len(t.visible) {
		t.cursor = max(0, len(t.visible)-1)
	}
	t.ensureVisible()
}

func (t TreePanel) rows() int {
	return max(1, t.height-2) // account for borders
}

func (t *TreePanel) ensureVisible() {
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+t.rows() {
		t.offset = t.cursor - t.rows() + 1
	}
}

func (t *TreePanel) updateVisible() {
	t.visible = t.visible[:0]
	if t.root == nil {
		return
	}
	t.collectVisible(t.root)
}

func (t *TreePanel) collectVisible(node *model.Node) {
	t.visible = append(t.visible, node)
	if !node.IsDir || !t.expanded[node.Path] {
		return
	}
	for _, child := range model.SortedChildren(node, t.order) {
		t.collectVisible(child)
	}
}

// SizeBar renders size as a fraction of total, e.g. [███▌░░░░░░]
func SizeBar(size, total int64, width int) string {
	if width < 1 {
		return ""
	}
	var frac float64
	if total > 0 {
		frac = min(1, max(0, float64(size)/float64(total)))
	}
	filledFloat := frac * float64(width)
	filled := int(filledFloat)

	var bar strings.Builder
	bar.WriteByte('[')
	for j := 0; j < width; j++ {
		switch {
		case j < filled:
			bar.WriteRune('█')
		case j == filled && filledFloat-float64(filled) >= 0.5:
			bar.WriteRune('▌')
		default:
			bar.WriteRune('░')
		}
	}
	bar.WriteByte(']')
	return bar.String()
}

// buildLine creates the text for a row: disclosure, name, size, bar
func (t TreePanel) buildLine(node *model.Node) string {
	var prefix string
	depth := 0
	if t.root != nil {
		depth = node.Depth() - t.root.Depth()
	}
	prefix = strings.Repeat("  ", depth)
	switch {
	case node.IsDir && node.IsLeaf():
		prefix += "  "
	case node.IsDir && t.expanded[node.Path]:
		prefix += "▼ " // down triangle
	case node.IsDir:
		prefix += "▶ " // right triangle
	default:
		prefix += "  "
	}

	var total int64
	if t.root != nil {
		total = t.root.TotalSize()
	}

	return fmt.Sprintf("%s%s [%s] %s", prefix, node.Name,
		model.FormatSize(node.TotalSize()),
		TreeSizeBar.Render(SizeBar(node.TotalSize(), total, treeSizeBarWidth)))
}

// RequiredWidth calculates the minimum width needed to display all visible content
func (t TreePanel) RequiredWidth() int {
	if len(t.visible) == 0 {
		return 30
	}
	maxWidth := 0
	for _, node := range t.visible {
		maxWidth = max(maxWidth, lipgloss.Width(t.buildLine(node)))
	}
	// Border and padding
	return maxWidth + 4
}

// View renders the tree
func (t TreePanel) View() string {
	if t.root == nil {
		return TreePanelStyle.Width(t.width).Height(t.height).Render("No data")
	}

	maxW := max(1, t.width-2)
	var lines []string
	for i := t.offset; i < len(t.visible) && len(lines) < t.rows(); i++ {
		node := t.visible[i]

		var itemStyle lipgloss.Style
		switch {
		case i == t.cursor && t.focused:
			itemStyle = TreeItemSelected
		case i == t.cursor:
			itemStyle = TreeItemSelectedUnfocused
		case node.IsDir:
			itemStyle = lipgloss.NewStyle().Foreground(ColorDir)
		default:
			itemStyle = lipgloss.NewStyle().Foreground(ColorFile)
		}
		// Alternate rows get a faint background
		if i != t.cursor && i%2 == 1 {
			itemStyle = itemStyle.Background(lipgloss.Color("#26262B"))
		}

		lines = append(lines, itemStyle.Width(maxW).MaxWidth(maxW).Render(t.buildLine(node)))
	}

	style := TreePanelStyle.Width(t.width).Height(t.height)
	if t.focused {
		style = style.BorderForeground(ColorPrimary)
	}
	return style.Render(strings.Join(lines, "\n"))
}
