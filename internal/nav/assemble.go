package nav

import "github.com/roboco-io/ncxgen/internal/toc"

// ItemDepth returns the tree depth of an item at the given level. Depth 0 is
// reserved for the root, so the result is never below 1. A negative collapse
// counts as 0.
func ItemDepth(level, collapse int) int {
	if collapse < 0 {
		collapse = 0
	}
	d := level + 1 - collapse
	if d < 1 {
		d = 1
	}
	return d
}

// Assemble builds the navigation tree for items, which must be in document
// order.
//
// The assembler tracks the node most recently placed at each depth. A node
// at depth d becomes a child of the last node seen at depth d-1, even when
// deeper nodes or skipped levels came in between; slots that were never
// filled still hold the root.
func Assemble(items []toc.Item, opts Options) *Tree {
	if opts.Collapse < 0 {
		opts.Collapse = 0
	}
	root := &Node{}
	tree := &Tree{
		Root:       root,
		LevelCount: opts.LevelCount,
		Collapse:   opts.Collapse,
	}

	slots := opts.LevelCount + 1
	for _, item := range items {
		if item.Level+2 > slots {
			slots = item.Level + 2
		}
	}
	if slots < 2 {
		slots = 2
	}
	open := make([]*Node, slots)
	for d := range open {
		open[d] = root
	}

	if opts.RootLabel != "" || opts.RootHref != "" {
		self := &Node{
			Label: opts.RootLabel,
			Href:  opts.RootHref,
			Depth: 1,
		}
		root.Children = append(root.Children, self)
		open[1] = self
	}

	for i := range items {
		item := &items[i]
		depth := ItemDepth(item.Level, opts.Collapse)

		node := &Node{
			Item:  item,
			Label: item.Label,
			Href:  item.Link(),
			Depth: depth,
		}
		parent := open[depth-1]
		parent.Children = append(parent.Children, node)
		open[depth] = node
	}

	return tree
}
