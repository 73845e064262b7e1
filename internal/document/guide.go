package document

import (
	"fmt"

	"github.com/beevik/etree"
)

// DefaultGuideIDs are the reserved id values that mark where the main text
// of the book starts.
var DefaultGuideIDs = []string{"text", "start"}

// GuideAnchor is the element chosen as the start of the main text.
type GuideAnchor struct {
	ID      string
	Element *etree.Element

	// Matches is the number of elements carrying one of the reserved ids.
	Matches int
}

// Ambiguous reports whether more than one element was marked.
func (g GuideAnchor) Ambiguous() bool {
	return g.Matches > 1
}

// AmbiguousGuideAnchorWarning is reported when several elements carry a
// reserved guide id. The first in document order is used.
type AmbiguousGuideAnchorWarning struct {
	Chosen  string
	Matches int
}

func (w AmbiguousGuideAnchorWarning) Error() string {
	return fmt.Sprintf("found %d text guide anchors, using %q", w.Matches, w.Chosen)
}

// FindGuideAnchor looks for elements whose id is one of ids (DefaultGuideIDs
// when empty) and returns the first one in document order.
func (d *Document) FindGuideAnchor(ids ...string) (GuideAnchor, bool) {
	if len(ids) == 0 {
		ids = DefaultGuideIDs
	}
	reserved := make(map[string]bool, len(ids))
	for _, id := range ids {
		reserved[id] = true
	}

	var anchor GuideAnchor
	d.Walk(func(e *etree.Element) {
		id := e.SelectAttrValue(IDAttr, "")
		if !reserved[id] {
			return
		}
		if anchor.Matches == 0 {
			anchor.ID = id
			anchor.Element = e
		}
		anchor.Matches++
	})
	return anchor, anchor.Matches > 0
}
