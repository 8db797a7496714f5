package model

// Node represents a file or directory in the scanned tree.
// A tree is built once by the scanner and is read-only afterwards.
type Node struct {
	Path     string
	Name     string
	Size     int64 // own size for files, total of all descendants for dirs
	IsDir    bool
	Children []*Node
	Parent   *Node
}

// TotalSize returns the cached total size (call ComputeSizes first)
func (n *Node) TotalSize() int64 {
	return n.Size
}

// IsLeaf reports whether the node has no children to disclose
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// ComputeSizes calculates and caches sizes for the entire tree
// Call this once after building the tree
func (n *Node) ComputeSizes() int64 {
	if !n.IsDir {
		return n.Size
	}
	var total int64
	for _, child := range n.Children {
		total += child.ComputeSizes()
	}
	n.Size = total
	return total
}

// CountFiles counts all non-directory nodes below n (n itself if it is a file)
func (n *Node) CountFiles() int {
	if !n.IsDir {
		return 1
	}
	count := 0
	for _, child := range n.Children {
		count += child.CountFiles()
	}
	return count
}

// Depth returns the number of ancestors of n
func (n *Node) Depth() int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// SameShape reports whether two trees have the same names, sizes and
// structure. Paths and parent links are ignored.
func SameShape(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.Size != b.Size || a.IsDir != b.IsDir {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !SameShape(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
