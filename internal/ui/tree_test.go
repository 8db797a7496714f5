package ui

import (
	"testing"

	"github.com/lumipallolabs/storagespace/internal/model"
)

func TestSizeBar(t *testing.T) {
	tests := []struct {
		size, total int64
		want        string
	}{
		{0, 100, "[░░░░]"},
		{50, 100, "[██░░]"},
		{100, 100, "[████]"},
		{70, 100, "[██▌░]"},
		{10, 0, "[░░░░]"},
		{200, 100, "[████]"},
	}
	for _, tt := range tests {
		if got := SizeBar(tt.size, tt.total, 4); got != tt.want {
			t.Errorf("SizeBar(%d, %d) = %s, want %s", tt.size, tt.total, got, tt.want)
		}
	}
}

func TestTreePanelExpandCollapse(t *testing.T) {
	panel := NewTreePanel(model.SortNameAsc)
	panel.SetSize(60, 20)
	panel.SetRoot(sampleTree())

	// Root starts expanded
	if len(panel.Visible()) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(panel.Visible()))
	}

	panel.MoveDown() // big.iso
	panel.MoveDown() // docs
	if panel.Selected().Name != "docs" {
		t.Fatalf("expected docs, got %s", panel.Selected().Name)
	}

	panel.Expand()
	if len(panel.Visible()) != 4 {
		t.Errorf("expected 4 rows after expanding docs, got %d", len(panel.Visible()))
	}

	panel.Collapse()
	if len(panel.Visible()) != 3 {
		t.Errorf("expected 3 rows after collapsing docs, got %d", len(panel.Visible()))
	}

	// Collapsing a collapsed folder jumps to its parent
	panel.Collapse()
	if panel.Selected().Name != "data" {
		t.Errorf("expected parent selected, got %s", panel.Selected().Name)
	}
}

func TestTreePanelSortKeepsSelection(t *testing.T) {
	panel := NewTreePanel(model.SortNameAsc)
	panel.SetSize(60, 20)
	panel.SetRoot(sampleTree())
	panel.GoToBottom()
	selected := panel.Selected()

	panel.SetSortOrder(model.SortSizeDesc)

	if panel.Selected() != selected {
		t.Errorf("expected %s to stay selected", selected.Name)
	}
	if panel.Visible()[1].Name != "big.iso" {
		t.Errorf("expected largest child first, got %s", panel.Visible()[1].Name)
	}
}

func TestTreePanelExpandTo(t *testing.T) {
	root := sampleTree()
	panel := NewTreePanel(model.SortNameAsc)
	panel.SetSize(60, 20)
	panel.SetRoot(root)

	var file *model.Node
	for _, c := range root.Children {
		if c.Name == "docs" {
			file = c.Children[0]
		}
	}
	panel.ExpandTo(file)

	if panel.Selected() != file {
		t.Errorf("expected a.txt selected, got %v", panel.Selected())
	}
}

func TestTreePanelEmpty(t *testing.T) {
	panel := NewTreePanel(model.SortNameAsc)
	panel.SetRoot(nil)
	panel.MoveDown()
	panel.Expand()
	if panel.Selected() != nil {
		t.Error("expected no selection without a tree")
	}
}
