package ui

import (
	"testing"

	"github.com/jeffwilliams/squarify"

	"github.com/lumipallolabs/storagespace/internal/model"
)

func TestSquarifyDirect(t *testing.T) {
	root := &treemapItem{
		size: 300,
		children: []*treemapItem{
			{size: 100},
			{size: 100},
			{size: 100},
		},
	}

	blocks, metas := squarify.Squarify(root, squarify.Rect{W: 76, H: 22}, squarify.Options{
		MaxDepth: 1,
		Sort:     true,
	})

	// Squarify returns the children of root at depth 0
	depth0 := 0
	for i := range blocks {
		if i < len(metas) && metas[i].Depth == 0 {
			depth0++
		}
	}
	if depth0 != 3 {
		t.Errorf("expected 3 depth-0 blocks, got %d", depth0)
	}
}

func dirWithChildren(sizes map[string]int64) *model.Node {
	root := &model.Node{Name: "root", Path: "/root", IsDir: true}
	for name, size := range sizes {
		root.Children = append(root.Children, &model.Node{
			Name: name, Path: "/root/" + name, Size: size, IsDir: true, Parent: root,
		})
	}
	root.ComputeSizes()
	return root
}

func checkBounds(t *testing.T, panel TreemapPanel) {
	t.Helper()
	contentW, contentH := panel.contentSize()
	for i, b := range panel.Blocks() {
		if b.X < 0 || b.Y < 0 {
			t.Errorf("block %d has negative origin: %+v", i, b)
		}
		if b.X+b.Width > contentW || b.Y+b.Height > contentH {
			t.Errorf("block %d exceeds %dx%d: %+v", i, contentW, contentH, b)
		}
	}
}

func TestTreemapLayout(t *testing.T) {
	root := dirWithChildren(map[string]int64{
		"big1":    100 * model.MB,
		"big2":    80 * model.MB,
		"medium1": 50 * model.MB,
		"medium2": 30 * model.MB,
		"small1":  10 * model.MB,
		"small2":  5 * model.MB,
		"tiny1":   1 * model.MB,
		"tiny2":   500 * model.KB,
	})

	panel := NewTreemapPanel()
	panel.SetSize(80, 24)
	panel.SetRoot(root)

	if len(panel.Blocks()) == 0 {
		t.Fatal("expected blocks to be generated")
	}
	checkBounds(t, panel)

	for _, b := range panel.Blocks() {
		if b.IsGrouped() {
			continue
		}
		if b.Width < minBlockWidth || b.Height < minBlockHeight {
			t.Errorf("block %s below minimum size: %dx%d", b.Node.Name, b.Width, b.Height)
		}
	}
}

func TestTreemapGroupsManyItems(t *testing.T) {
	sizes := make(map[string]int64)
	for i := 0; i < 40; i++ {
		sizes[string(rune('a'+i%26))+string(rune('A'+i/26))] = int64(1000 + i)
	}
	root := dirWithChildren(sizes)

	panel := NewTreemapPanel()
	panel.SetSize(60, 20)
	panel.SetRoot(root)
	checkBounds(t, panel)

	var grouped *Block
	shown := 0
	for i, b := range panel.Blocks() {
		if b.IsGrouped() {
			grouped = &panel.Blocks()[i]
		} else {
			shown++
		}
	}
	if grouped == nil {
		t.Fatal("expected a grouped block for 40 items")
	}
	if shown > maxVisibleItems {
		t.Errorf("expected at most %d blocks, got %d", maxVisibleItems, shown)
	}
	if shown+grouped.GroupCount != 40 {
		t.Errorf("expected shown+grouped = 40, got %d+%d", shown, grouped.GroupCount)
	}
}

func TestTreemapBlocksTile(t *testing.T) {
	root := dirWithChildren(map[string]int64{"a": 100, "b": 100, "c": 100})

	panel := NewTreemapPanel()
	panel.SetSize(40, 12)
	panel.SetRoot(root)

	if len(panel.Blocks()) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(panel.Blocks()))
	}

	contentW, contentH := panel.contentSize()
	area := 0
	for _, b := range panel.Blocks() {
		area += b.Width * b.Height
	}
	coverage := float64(area) / float64(contentW*contentH)
	if coverage < 0.90 {
		t.Errorf("blocks only cover %.1f%% of area, expected at least 90%%", coverage*100)
	}
}

func TestTreemapZoom(t *testing.T) {
	root := dirWithChildren(map[string]int64{"a": 100, "b": 50})
	a := root.Children[0]
	if a.Name != "a" {
		a = root.Children[1]
	}
	a.Children = []*model.Node{{Name: "inner", Path: "/root/a/inner", Size: 100, Parent: a}}
	root.ComputeSizes()

	panel := NewTreemapPanel()
	panel.SetSize(40, 12)
	panel.SetRoot(root)

	panel.SetSelected(a)
	panel.ZoomIn()
	if panel.Focus() != a {
		t.Fatalf("expected focus on a, got %v", panel.Focus().Name)
	}
	if panel.Selected().Name != "inner" {
		t.Errorf("expected first child selected after zoom, got %s", panel.Selected().Name)
	}

	panel.ZoomOut()
	if panel.Focus() != root {
		t.Errorf("expected focus back on root")
	}
	if panel.Selected() != a {
		t.Errorf("expected zoomed-out folder to stay selected")
	}

	panel.ZoomOut()
	if panel.Focus() != root {
		t.Error("zoom out must stop at the root")
	}
}

func TestTreemapMoveToBlock(t *testing.T) {
	root := dirWithChildren(map[string]int64{"a": 100, "b": 100})

	panel := NewTreemapPanel()
	panel.SetSize(40, 10)
	panel.SetRoot(root)
	panel.SelectFirst()

	first := panel.Selected()
	panel.MoveToBlock(1, 0)
	panel.MoveToBlock(0, 1)
	if panel.Selected() == first {
		t.Error("expected selection to move to the other block")
	}
}

func TestTreemapViewHeight(t *testing.T) {
	root := dirWithChildren(map[string]int64{"a": 100, "b": 30})

	panel := NewTreemapPanel()
	panel.SetSize(40, 10)
	panel.SetRoot(root)

	view := panel.View()
	lines := 1
	for _, r := range view {
		if r == '\n' {
			lines++
		}
	}
	if lines != 10 {
		t.Errorf("expected 10 rendered lines, got %d", lines)
	}
}
