// Package nav folds a flat, leveled TOC item list into a navigation tree.
package nav

import "github.com/roboco-io/ncxgen/internal/toc"

// Node is one entry of the navigation tree.
type Node struct {
	Item     *toc.Item // nil for the root and for the self-entry
	Label    string
	Href     string
	Depth    int // 0 for the root
	Children []*Node
}

// IsSelfEntry reports whether n is the entry pointing at the HTML TOC itself.
func (n *Node) IsSelfEntry() bool {
	return n.Item == nil && n.Depth > 0
}

// Options controls how items are folded.
type Options struct {
	LevelCount int // number of query levels the items were built from
	Collapse   int // levels merged into the root

	// Optional self-entry, placed first under the root.
	RootLabel string
	RootHref  string
}

// Tree is a single-rooted navigation tree.
type Tree struct {
	Root       *Node
	LevelCount int
	Collapse   int
}

// Depth returns the maximum nesting the tree was built for, at least 1.
func (t *Tree) Depth() int {
	return DepthFor(t.LevelCount, t.Collapse)
}

// DepthFor returns levelCount-collapse clamped to at least 1. A negative
// collapse counts as 0.
func DepthFor(levelCount, collapse int) int {
	if collapse < 0 {
		collapse = 0
	}
	d := levelCount - collapse
	if d < 1 {
		d = 1
	}
	return d
}

// Walk visits every node except the root in pre-order.
func (t *Tree) Walk(fn func(n *Node)) {
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			fn(c)
			walk(c)
		}
	}
	walk(t.Root)
}

// Len returns the number of nodes excluding the root.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Node) { count++ })
	return count
}
