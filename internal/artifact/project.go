package artifact

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/roboco-io/ncxgen/internal/nav"
	"github.com/roboco-io/ncxgen/internal/toc"
)

// Manifest ids used in the OPF.
const (
	BookIDRef     = "BookId"
	ManifestHTML  = "toc"
	ManifestText  = "text"
	ManifestNCX   = "ncx"
	ManifestCover = "cover-image"

	selfEntryID = "TOC"
)

// Media types of the package files.
const (
	MediaXHTML = "application/xhtml+xml"
	MediaNCX   = "application/x-dtbncx+xml"
)

// ProjectHTML builds the HTML TOC model: one entry per item, in order.
func ProjectHTML(items []toc.Item, title string, levels int) *HTMLTOC {
	m := &HTMLTOC{
		Title:   title,
		Levels:  levels,
		Entries: make([]HTMLEntry, 0, len(items)),
	}
	for _, item := range items {
		m.Entries = append(m.Entries, HTMLEntry{
			Level: item.Level,
			Label: item.Label,
			Href:  item.Link(),
		})
	}
	return m
}

// ProjectNCX builds the NCX model from tree. playOrder is assigned from 0
// in the same pre-order walk that creates the navPoints.
func ProjectNCX(tree *nav.Tree, book Book) *NCX {
	m := &NCX{
		UID:    book.ID,
		Title:  book.Title,
		Author: book.Author,
		Lang:   book.Language,
		Depth:  tree.Depth(),
	}

	playOrder := 0
	var build func(nodes []*nav.Node) []*NavPoint
	build = func(nodes []*nav.Node) []*NavPoint {
		points := make([]*NavPoint, 0, len(nodes))
		for _, n := range nodes {
			p := &NavPoint{
				PlayOrder: playOrder,
				Label:     n.Label,
				Src:       n.Href,
			}
			playOrder++
			if n.Item != nil {
				p.Class = strconv.Itoa(n.Item.Level)
				p.ID = n.Item.ID
			} else {
				p.Class = selfEntryID
				p.ID = selfEntryID
			}
			p.Children = build(n.Children)
			points = append(points, p)
		}
		return points
	}
	m.NavPoints = build(tree.Root.Children)
	return m
}

// ProjectOPF builds the package document. textStart is the id of the
// element where the main text starts; when empty the guide points at the
// source document itself. Both guide references carry tocTitle.
func ProjectOPF(book Book, files Files, tocTitle, textStart string) *OPF {
	m := &OPF{
		UniqueID: BookIDRef,
		Metadata: OPFMetadata{
			Title:      book.Title,
			Language:   book.Language,
			Identifier: book.ID,
			Creator:    book.Author,
			Publisher:  book.Publisher,
			Subject:    book.Subject,
			Date:       book.Date,
		},
	}

	if files.HTML != "" {
		m.Manifest = append(m.Manifest, ManifestItem{ID: ManifestHTML, Href: files.HTML, MediaType: MediaXHTML})
		m.Spine.ItemRefs = append(m.Spine.ItemRefs, ManifestHTML)
	}
	m.Manifest = append(m.Manifest, ManifestItem{ID: ManifestText, Href: files.Source, MediaType: MediaXHTML})
	m.Spine.ItemRefs = append(m.Spine.ItemRefs, ManifestText)

	if files.NCX != "" {
		m.Manifest = append(m.Manifest, ManifestItem{ID: ManifestNCX, Href: files.NCX, MediaType: MediaNCX})
		m.Spine.TOC = ManifestNCX
	}
	if files.Cover != "" {
		m.Manifest = append(m.Manifest, ManifestItem{ID: ManifestCover, Href: files.Cover, MediaType: MediaTypeOf(files.Cover)})
		m.Metadata.CoverID = ManifestCover
	}
	for i, img := range files.Images {
		m.Manifest = append(m.Manifest, ManifestItem{
			ID:        fmt.Sprintf("img-%d", i+1),
			Href:      img,
			MediaType: MediaTypeOf(img),
		})
	}

	if files.HTML != "" {
		m.Guide = append(m.Guide, GuideRef{Type: "toc", Title: tocTitle, Href: files.HTML})
	}
	href := files.Source
	if textStart != "" {
		href += "#" + textStart
	}
	m.Guide = append(m.Guide, GuideRef{Type: "text", Title: tocTitle, Href: href})

	return m
}

// MediaTypeOf guesses the media type of a package file from its extension.
func MediaTypeOf(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".css":
		return "text/css"
	case ".ncx":
		return MediaNCX
	default:
		return MediaXHTML
	}
}
