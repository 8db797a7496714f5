package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeffwilliams/squarify"

	"github.com/lumipallolabs/storagespace/internal/model"
)

const (
	minBlockWidth   = 8  // fits a short label
	minBlockHeight  = 3  // border + 1 line text
	maxVisibleItems = 15 // items beyond this are grouped into "N more"
)

// Block represents a rectangle in the treemap
type Block struct {
	Node          *model.Node // nil for the grouped remainder
	X, Y          int
	Width, Height int
	GroupCount    int
	GroupSize     int64
}

// IsGrouped reports whether the block stands for several small items
func (b Block) IsGrouped() bool {
	return b.Node == nil
}

// TreemapPanel shows the focused folder's children as nested rectangles
type TreemapPanel struct {
	root     *model.Node
	focus    *model.Node
	selected *model.Node
	blocks   []Block
	width    int
	height   int
	focused  bool
}

// NewTreemapPanel creates a new treemap panel
func NewTreemapPanel() TreemapPanel {
	return TreemapPanel{}
}

// SetRoot sets the root node
func (t *TreemapPanel) SetRoot(root *model.Node) {
	t.root = root
	t.focus = root
	t.selected = root
	t.layout()
}

// SetSize sets the panel dimensions
func (t *TreemapPanel) SetSize(w, h int) {
	if t.width != w || t.height != h {
		t.width = w
		t.height = h
		t.layout()
	}
}

// SetFocused sets focus state
func (t *TreemapPanel) SetFocused(focused bool) {
	t.focused = focused
}

// Blocks returns the current layout
func (t TreemapPanel) Blocks() []Block {
	return t.blocks
}

// Focus returns the folder whose contents are displayed
func (t TreemapPanel) Focus() *model.Node {
	return t.focus
}

// SetFocus shows the contents of node; a file shows its parent folder
func (t *TreemapPanel) SetFocus(node *model.Node) {
	if node == nil {
		return
	}
	if !node.IsDir && node.Parent != nil {
		node = node.Parent
	}
	if node != t.focus {
		t.focus = node
		t.layout()
	}
}

// SetSelected highlights node, refocusing if it is outside the current view
func (t *TreemapPanel) SetSelected(node *model.Node) {
	if node == nil {
		return
	}
	t.selected = node
	if t.focus != nil && !isDescendant(node, t.focus) {
		if node.Parent != nil {
			node = node.Parent
		}
		t.SetFocus(node)
	}
}

// Selected returns the currently selected node
func (t TreemapPanel) Selected() *model.Node {
	return t.selected
}

// SelectFirst selects the first real block
func (t *TreemapPanel) SelectFirst() {
	for _, b := range t.blocks {
		if !b.IsGrouped() {
			t.selected = b.Node
			return
		}
	}
}

// ZoomIn focuses on the selected folder
func (t *TreemapPanel) ZoomIn() {
	if t.selected != nil && t.selected.IsDir && !t.selected.IsLeaf() {
		t.focus = t.selected
		t.layout()
		t.SelectFirst()
	}
}

// ZoomOut goes to parent folder
func (t *TreemapPanel) ZoomOut() {
	if t.focus != nil && t.focus.Parent != nil && t.focus != t.root {
		t.selected = t.focus
		t.focus = t.focus.Parent
		t.layout()
	}
}

// MoveToBlock moves selection to the nearest block in direction (dx, dy)
func (t *TreemapPanel) MoveToBlock(dx, dy int) {
	var current *Block
	for i := range t.blocks {
		if !t.blocks[i].IsGrouped() && t.blocks[i].Node == t.selected {
			current = &t.blocks[i]
			break
		}
	}
	if current == nil {
		t.SelectFirst()
		return
	}

	cx, cy := current.X+current.Width/2, current.Y+current.Height/2
	var best *Block
	bestDist := -1

	for i := range t.blocks {
		b := &t.blocks[i]
		if b.IsGrouped() || b == current {
			continue
		}
		bx, by := b.X+b.Width/2, b.Y+b.Height/2
		if (dx > 0 && bx <= cx) || (dx < 0 && bx >= cx) || (dy > 0 && by <= cy) || (dy < 0 && by >= cy) {
			continue
		}
		dist := abs(bx-cx) + abs(by-cy)
		if bestDist < 0 || dist < bestDist {
			bestDist, best = dist, b
		}
	}

	if best != nil {
		t.selected = best.Node
	}
}

// treemapItem adapts a node to squarify.TreeSizer
type treemapItem struct {
	node     *model.Node
	size     float64
	children []*treemapItem
}

// Size implements squarify.TreeSizer
func (t *treemapItem) Size() float64 {
	return t.size
}

// NumChildren implements squarify.TreeSizer
func (t *treemapItem) NumChildren() int {
	return len(t.children)
}

// Child implements squarify.TreeSizer
func (t *treemapItem) Child(i int) squarify.TreeSizer {
	return t.children[i]
}

func (t TreemapPanel) contentSize() (int, int) {
	return max(1, t.width-2), max(1, t.height)
}

// layout finds the largest number of items (up to maxVisibleItems) whose
// rectangles all meet the minimum block size. The rest are grouped in a
// strip along the bottom.
func (t *TreemapPanel) layout() {
	t.blocks = nil
	if t.focus == nil || t.width <= 2 || t.height <= 2 {
		return
	}

	nodes := model.SortedChildren(t.focus, model.SortSizeDesc)
	if len(nodes) == 0 {
		nodes = []*model.Node{t.focus}
	}

	contentW, contentH := t.contentSize()

	for n := min(len(nodes), maxVisibleItems); n >= 1; n-- {
		grouped := nodes[n:]
		area := squarify.Rect{W: float64(contentW), H: float64(contentH)}
		if len(grouped) > 0 && contentH > 2*minBlockHeight {
			area.H -= minBlockHeight
		}

		blocks := squarifyNodes(nodes[:n], area, contentW, contentH)
		if n > 1 && (len(blocks) < n || !allFit(blocks)) {
			continue
		}

		if len(grouped) > 0 {
			blocks = append(blocks, groupBlock(blocks, grouped, contentW, contentH))
		}
		t.blocks = blocks
		return
	}
}

// squarifyNodes lays out nodes inside area and converts to whole cells
func squarifyNodes(nodes []*model.Node, area squarify.Rect, maxW, maxH int) []Block {
	root := &treemapItem{}
	for _, n := range nodes {
		// Zero-byte entries still get a sliver
		size := math.Max(1, float64(n.TotalSize()))
		root.children = append(root.children, &treemapItem{node: n, size: size})
		root.size += size
	}

	sq, metas := squarify.Squarify(root, area, squarify.Options{
		MaxDepth: 1,
		Sort:     true,
	})

	blocks := make([]Block, 0, len(sq))
	for i, b := range sq {
		// Depth 0 are the immediate children of root
		if i >= len(metas) || metas[i].Depth != 0 {
			continue
		}
		item, ok := b.TreeSizer.(*treemapItem)
		if !ok {
			continue
		}

		// Round both edges so adjacent blocks share a boundary
		x, y := int(math.Round(b.X)), int(math.Round(b.Y))
		endX := min(maxW, int(math.Round(b.X+b.W)))
		endY := min(maxH, int(math.Round(b.Y+b.H)))
		if endX-x < 1 || endY-y < 1 {
			continue
		}

		blocks = append(blocks, Block{Node: item.node, X: x, Y: y, Width: endX - x, Height: endY - y})
	}
	return blocks
}

func allFit(blocks []Block) bool {
	for _, b := range blocks {
		if b.Width < minBlockWidth || b.Height < minBlockHeight {
			return false
		}
	}
	return true
}

// groupBlock fills the space below the main blocks with an "N more" block
func groupBlock(main []Block, grouped []*model.Node, w, h int) Block {
	bottom := 0
	for _, b := range main {
		bottom = max(bottom, b.Y+b.Height)
	}
	var size int64
	for _, n := range grouped {
		size += n.TotalSize()
	}
	return Block{
		X:          0,
		Y:          min(bottom, h-1),
		Width:      w,
		Height:     max(1, h-bottom),
		GroupCount: len(grouped),
		GroupSize:  size,
	}
}

// View renders the treemap
func (t TreemapPanel) View() string {
	if t.focus == nil {
		return TreemapPanelStyle.Width(t.width).Height(t.height).Render("No data")
	}

	_, contentH := t.contentSize()

	type rendered struct {
		block Block
		lines []string
	}
	var all []rendered
	for _, b := range t.blocks {
		all = append(all, rendered{b, strings.Split(t.renderBlock(b), "\n")})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].block.X < all[j].block.X })

	// Composite row by row, padding the gaps between blocks
	out := make([]string, 0, contentH)
	for y := 0; y < contentH; y++ {
		var line strings.Builder
		x := 0
		for _, r := range all {
			row := y - r.block.Y
			if row < 0 || row >= r.block.Height || row >= len(r.lines) {
				continue
			}
			if r.block.X > x {
				line.WriteString(strings.Repeat(" ", r.block.X-x))
			}
			line.WriteString(r.lines[row])
			x = r.block.X + r.block.Width
		}
		out = append(out, line.String())
	}

	return lipgloss.NewStyle().Height(t.height).MaxHeight(t.height).Render(strings.Join(out, "\n"))
}

// renderBlock renders one bordered block
func (t TreemapPanel) renderBlock(b Block) string {
	var fg, border lipgloss.Color
	var label, size string

	switch {
	case b.IsGrouped():
		fg, border = ColorLabel, lipgloss.Color("#4B5563")
		label = fmt.Sprintf("%d more", b.GroupCount)
		size = model.FormatSize(b.GroupSize)
	case b.Node.IsDir:
		fg, border = ColorDir, ColorDir
		label, size = b.Node.Name, model.FormatSize(b.Node.TotalSize())
	default:
		fg, border = ColorFile, ColorLabel
		label, size = b.Node.Name, model.FormatSize(b.Node.TotalSize())
	}

	selected := !b.IsGrouped() && b.Node == t.selected
	if selected && t.focused {
		fg, border = lipgloss.Color("#FFFFFF"), ColorPrimary
	} else if selected {
		fg, border = lipgloss.Color("#E0E0E0"), lipgloss.Color("#9D7CD8")
	}

	innerW, innerH := max(0, b.Width-2), max(0, b.Height-2)
	text := label
	if innerH > 1 {
		text += "\n" + size
	}

	style := lipgloss.NewStyle().
		Width(innerW).
		Height(innerH).
		MaxHeight(b.Height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(fg).
		Bold(selected)

	return style.Render(truncate(text, innerW))
}

// truncate shortens each line of s to width cells
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if lipgloss.Width(l) > width {
			r := []rune(l)
			for len(r) > 0 && lipgloss.Width(string(r)+"…") > width {
				r = r[:len(r)-1]
			}
			lines[i] = string(r) + "…"
		}
	}
	return strings.Join(lines, "\n")
}

// isDescendant checks if node is ancestor or lies below it
func isDescendant(node, ancestor *model.Node) bool {
	for n := node; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
