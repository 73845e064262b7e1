// Package document wraps a parsed, mutable XHTML tree and answers the
// structural queries the TOC builder runs against it.
package document

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// IDAttr is the attribute used for anchors.
const IDAttr = "id"

// xhtmlPrefix matches the "h:" namespace prefix on path steps. Queries
// written for a namespace-aware XPath engine prefix XHTML tags with it;
// etree matches unprefixed steps in any namespace, so it is dropped.
var xhtmlPrefix = regexp.MustCompile(`(^|/|\[)h:`)

// Document is a parsed source document.
type Document struct {
	tree     *etree.Document
	filename string

	// document-order index, built on first use
	order map[*etree.Element]int
}

// New wraps an etree document. filename is the base name used in links.
func New(tree *etree.Document, filename string) *Document {
	return &Document{
		tree:     tree,
		filename: filename,
	}
}

// Tree returns the underlying etree document.
func (d *Document) Tree() *etree.Document {
	return d.tree
}

// Filename returns the base name of the source document.
func (d *Document) Filename() string {
	return d.filename
}

// Root returns the document element.
func (d *Document) Root() *etree.Element {
	return d.tree.Root()
}

// QueryError reports a query that could not be compiled.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NormalizeQuery strips the XHTML "h:" prefix from path steps.
func NormalizeQuery(q string) string {
	return xhtmlPrefix.ReplaceAllString(strings.TrimSpace(q), "$1")
}

// Query returns the elements matching q in document order. An empty result
// is not an error. The tree is not modified.
func (d *Document) Query(q string) ([]*etree.Element, error) {
	path, err := etree.CompilePath(NormalizeQuery(q))
	if err != nil {
		return nil, &QueryError{Query: q, Err: err}
	}

	found := d.tree.FindElementsPath(path)
	if len(found) == 0 {
		return []*etree.Element{}, nil
	}

	// etree walks descendants breadth-first
	seen := make(map[*etree.Element]bool, len(found))
	matches := make([]*etree.Element, 0, len(found))
	for _, e := range found {
		if seen[e] {
			continue
		}
		seen[e] = true
		matches = append(matches, e)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return d.Position(matches[i]) < d.Position(matches[j])
	})
	return matches, nil
}

// Position returns the ordinal of e in a pre-order walk of the document.
// Elements not in the tree return -1.
func (d *Document) Position(e *etree.Element) int {
	if d.order == nil {
		d.reindex()
	}
	pos, ok := d.order[e]
	if !ok {
		return -1
	}
	return pos
}

// Reindex discards the document-order index. Call it after structural
// changes (inserting or removing elements); attribute changes don't need it.
func (d *Document) Reindex() {
	d.order = nil
}

func (d *Document) reindex() {
	d.order = make(map[*etree.Element]int)
	next := 0
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		d.order[e] = next
		next++
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	if root := d.tree.Root(); root != nil {
		walk(root)
	}
}

// Walk visits every element in document order.
func (d *Document) Walk(fn func(e *etree.Element)) {
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		fn(e)
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	if root := d.tree.Root(); root != nil {
		walk(root)
	}
}

// IDs returns every id attribute value present in the document.
func (d *Document) IDs() map[string]bool {
	ids := make(map[string]bool)
	d.Walk(func(e *etree.Element) {
		if id := e.SelectAttrValue(IDAttr, ""); id != "" {
			ids[id] = true
		}
	})
	return ids
}

// InnerText returns the character data of e and its descendants with
// whitespace runs collapsed to single spaces.
func InnerText(e *etree.Element) string {
	var sb strings.Builder
	var collect func(e *etree.Element)
	collect = func(e *etree.Element) {
		for _, t := range e.Child {
			switch c := t.(type) {
			case *etree.CharData:
				sb.WriteString(c.Data)
			case *etree.Element:
				collect(c)
			}
		}
	}
	collect(e)
	return strings.Join(strings.Fields(sb.String()), " ")
}
