// Package toc extracts table-of-contents entries from a source document.
package toc

// Item is one heading found in the source document.
type Item struct {
	Label    string `json:"label"` // heading text, trimmed with inner whitespace runs collapsed
	ID       string `json:"id"`
	Level    int    `json:"level"`    // index of the query that matched (0 = outermost)
	Position int    `json:"position"` // document order of the heading element
	Filename string `json:"filename"` // linked document, no directory
}

// Link returns the href pointing at the heading.
func (i Item) Link() string {
	return i.Filename + "#" + i.ID
}

// Less orders items by document position. Equal positions only occur when
// one element was matched by several levels; the outer level sorts first.
func (i Item) Less(other Item) bool {
	if i.Position != other.Position {
		return i.Position < other.Position
	}
	return i.Level < other.Level
}
