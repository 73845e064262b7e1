package nav

import (
	"testing"

	"github.com/roboco-io/ncxgen/internal/toc"
)

func item(label string, level, pos int) toc.Item {
	return toc.Item{
		Label:    label,
		ID:       "id-" + label,
		Level:    level,
		Position: pos,
		Filename: "book.xhtml",
	}
}

func labels(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAssemble_ThreeLevels(t *testing.T) {
	items := []toc.Item{
		item("H1a", 0, 1),
		item("H1b", 0, 2),
		item("H2a", 1, 3),
		item("H3a", 2, 4),
	}

	tree := Assemble(items, Options{LevelCount: 3})

	if got := labels(tree.Root.Children); !equal(got, []string{"H1a", "H1b"}) {
		t.Fatalf("expected root children [H1a H1b], got %v", got)
	}
	h1b := tree.Root.Children[1]
	if got := labels(h1b.Children); !equal(got, []string{"H2a"}) {
		t.Fatalf("expected H1b children [H2a], got %v", got)
	}
	if got := labels(h1b.Children[0].Children); !equal(got, []string{"H3a"}) {
		t.Errorf("expected H2a children [H3a], got %v", got)
	}
	if tree.Depth() != 3 {
		t.Errorf("expected depth 3, got %d", tree.Depth())
	}

	var order []string
	tree.Walk(func(n *Node) { order = append(order, n.Label) })
	if !equal(order, []string{"H1a", "H1b", "H2a", "H3a"}) {
		t.Errorf("unexpected pre-order %v", order)
	}
}

func TestAssemble_CollapseBeyondLevels(t *testing.T) {
	items := []toc.Item{
		item("A", 0, 1),
		item("A.1", 1, 2),
		item("A.1.a", 2, 3),
		item("B", 0, 4),
		item("B.1", 1, 5),
	}

	tree := Assemble(items, Options{LevelCount: 3, Collapse: 5})

	if got := labels(tree.Root.Children); !equal(got, []string{"A", "A.1", "A.1.a", "B", "B.1"}) {
		t.Errorf("expected flat list in document order, got %v", got)
	}
	for _, n := range tree.Root.Children {
		if n.Depth != 1 || len(n.Children) != 0 {
			t.Errorf("%s: expected leaf at depth 1, got depth %d with %d children", n.Label, n.Depth, len(n.Children))
		}
	}
	if tree.Depth() != 1 {
		t.Errorf("expected depth clamped to 1, got %d", tree.Depth())
	}
}

func TestAssemble_CollapseOne(t *testing.T) {
	items := []toc.Item{
		item("A", 0, 1),
		item("A.1", 1, 2),
		item("A.1.a", 2, 3),
		item("A.2", 1, 4),
	}

	tree := Assemble(items, Options{LevelCount: 3, Collapse: 1})

	if got := labels(tree.Root.Children); !equal(got, []string{"A", "A.1", "A.2"}) {
		t.Fatalf("expected levels 0 and 1 at the root, got %v", got)
	}
	if got := labels(tree.Root.Children[1].Children); !equal(got, []string{"A.1.a"}) {
		t.Errorf("expected A.1.a under A.1, got %v", got)
	}
}

func TestAssemble_SelfEntry(t *testing.T) {
	items := []toc.Item{
		item("Deep", 1, 1),
		item("Top", 0, 2),
		item("Child", 1, 3),
	}

	tree := Assemble(items, Options{LevelCount: 2, RootLabel: "Contents", RootHref: "toc.html"})

	if got := labels(tree.Root.Children); !equal(got, []string{"Contents", "Top"}) {
		t.Fatalf("expected [Contents Top] at the root, got %v", got)
	}
	self := tree.Root.Children[0]
	if !self.IsSelfEntry() {
		t.Error("expected first root child to be the self-entry")
	}
	// A depth-2 item before any depth-1 item nests under the self-entry
	if got := labels(self.Children); !equal(got, []string{"Deep"}) {
		t.Errorf("expected [Deep] under the self-entry, got %v", got)
	}
	if got := labels(tree.Root.Children[1].Children); !equal(got, []string{"Child"}) {
		t.Errorf("expected [Child] under Top, got %v", got)
	}
}

func TestAssemble_SkippedLevelUsesLastParent(t *testing.T) {
	items := []toc.Item{
		item("A", 0, 1),
		item("A.1", 1, 2),
		item("B", 0, 3),
		item("B..x", 2, 4), // level 1 skipped under B
	}

	tree := Assemble(items, Options{LevelCount: 3})

	// The last depth-2 node seen is A.1, so B..x nests there
	a1 := tree.Root.Children[0].Children[0]
	if got := labels(a1.Children); !equal(got, []string{"B..x"}) {
		t.Errorf("expected B..x under A.1, got %v", got)
	}
	if len(tree.Root.Children[1].Children) != 0 {
		t.Error("expected B to have no children")
	}
}

func TestAssemble_DepthBounds(t *testing.T) {
	items := []toc.Item{
		item("a", 0, 1), item("b", 1, 2), item("c", 2, 3), item("d", 3, 4),
		item("e", 1, 5), item("f", 3, 6), item("g", 0, 7),
	}

	for collapse := 0; collapse <= 5; collapse++ {
		tree := Assemble(items, Options{LevelCount: 4, Collapse: collapse})
		maxDepth := DepthFor(4, collapse)

		tree.Walk(func(n *Node) {
			if n.Depth < 1 || n.Depth > maxDepth {
				t.Errorf("collapse %d: %s has depth %d outside [1,%d]", collapse, n.Label, n.Depth, maxDepth)
			}
		})
		if tree.Len() != len(items) {
			t.Errorf("collapse %d: expected %d nodes, got %d", collapse, len(items), tree.Len())
		}
	}
}

func TestItemDepth_CollapseMonotonic(t *testing.T) {
	for level := 0; level < 6; level++ {
		for collapse := 0; collapse < 8; collapse++ {
			if ItemDepth(level, collapse+1) > ItemDepth(level, collapse) {
				t.Errorf("level %d: depth grew when collapse went %d -> %d", level, collapse, collapse+1)
			}
		}
	}
}

func TestAssemble_Empty(t *testing.T) {
	tree := Assemble(nil, Options{LevelCount: 3})

	if tree.Len() != 0 {
		t.Errorf("expected empty tree, got %d nodes", tree.Len())
	}
}

func TestAssemble_NegativeCollapse(t *testing.T) {
	items := []toc.Item{
		item("a", 0, 1), item("b", 1, 2), item("c", 2, 3),
	}

	tree := Assemble(items, Options{LevelCount: 3, Collapse: -2})

	if tree.Collapse != 0 || tree.Depth() != 3 {
		t.Errorf("expected collapse 0 and depth 3, got %d and %d", tree.Collapse, tree.Depth())
	}
	if tree.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", tree.Len())
	}
	if got := labels(tree.Root.Children); !equal(got, []string{"a"}) {
		t.Errorf("expected a at the top, got %v", got)
	}
	if ItemDepth(2, -1) != 3 {
		t.Errorf("expected negative collapse to count as 0, got %d", ItemDepth(2, -1))
	}
}
