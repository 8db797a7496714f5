package model

import (
	"fmt"
	"sort"
)

// SortOrder selects how sibling nodes are ordered for display
type SortOrder string

const (
	SortNameAsc  SortOrder = "name-asc"
	SortNameDesc SortOrder = "name-desc"
	SortSizeAsc  SortOrder = "size-asc"
	SortSizeDesc SortOrder = "size-desc"
)

// SortOrders lists every order in the sequence the UI cycles through
var SortOrders = []SortOrder{SortNameAsc, SortNameDesc, SortSizeAsc, SortSizeDesc}

// String returns the label shown in the UI
func (o SortOrder) String() string {
	switch o {
	case SortNameAsc:
		return "Name (A-Z)"
	case SortNameDesc:
		return "Name (Z-A)"
	case SortSizeAsc:
		return "Size (smallest first)"
	case SortSizeDesc:
		return "Size (largest first)"
	default:
		return string(o)
	}
}

// Valid reports whether o is one of the known orders
func (o SortOrder) Valid() bool {
	for _, known := range SortOrders {
		if o == known {
			return true
		}
	}
	return false
}

// Next returns the order that follows o in SortOrders
func (o SortOrder) Next() SortOrder {
	for i, known := range SortOrders {
		if o == known {
			return SortOrders[(i+1)%len(SortOrders)]
		}
	}
	return SortNameAsc
}

// ParseSortOrder converts a flag or settings value into a SortOrder
func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(s)
	if !o.Valid() {
		return "", fmt.Errorf("unknown sort order %q (want one of %v)", s, SortOrders)
	}
	return o, nil
}

// SortChildren stable-sorts nodes in place. Names compare byte-wise.
// Equal sizes fall back to name in the same direction so that the
// ascending and descending orders are exact mirrors of each other.
func SortChildren(nodes []*Node, order SortOrder) {
	var less func(a, b *Node) bool
	switch order {
	case SortNameDesc:
		less = func(a, b *Node) bool { return a.Name > b.Name }
	case SortSizeAsc:
		less = func(a, b *Node) bool {
			if a.TotalSize() != b.TotalSize() {
				return a.TotalSize() < b.TotalSize()
			}
			return a.Name < b.Name
		}
	case SortSizeDesc:
		less = func(a, b *Node) bool {
			if a.TotalSize() != b.TotalSize() {
				return a.TotalSize() > b.TotalSize()
			}
			return a.Name > b.Name
		}
	default:
		less = func(a, b *Node) bool { return a.Name < b.Name }
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return less(nodes[i], nodes[j])
	})
}

// SortedChildren returns a sorted copy of n's children, leaving n untouched
func SortedChildren(n *Node, order SortOrder) []*Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	SortChildren(children, order)
	return children
}
