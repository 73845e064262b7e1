package document

import "github.com/beevik/etree"

// IdentifierSource hands out fresh anchor ids.
type IdentifierSource interface {
	Next() string
}

// EnsureIdentifier returns the id of e, assigning one from src when e has
// none. created reports whether the tree was modified. Calling it again on
// the same element returns the same id.
func EnsureIdentifier(e *etree.Element, src IdentifierSource) (id string, created bool) {
	if id := e.SelectAttrValue(IDAttr, ""); id != "" {
		return id, false
	}
	id = src.Next()
	e.CreateAttr(IDAttr, id)
	return id, true
}
