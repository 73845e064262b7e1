package artifact

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
)

const (
	xhtmlNS = "http://www.w3.org/1999/xhtml"
	ncxNS   = "http://www.daisy.org/z3986/2005/ncx/"
	opfNS   = "http://www.idpf.org/2007/opf"
	dcNS    = "http://purl.org/dc/elements/1.1/"

	xhtmlDoctype = `DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd"`
	ncxDoctype   = `DOCTYPE ncx PUBLIC "-//NISO//DTD ncx 2005-1//EN" "http://www.daisy.org/z3986/2005/ncx-2005-1.dtd"`
)

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

func render(w io.Writer, doc *etree.Document) error {
	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// WriteHTML renders the HTML TOC as XHTML 1.0 Transitional.
func WriteHTML(w io.Writer, m *HTMLTOC) error {
	doc := newXMLDocument()
	doc.CreateDirective(xhtmlDoctype)

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", xhtmlNS)

	head := html.CreateElement("head")
	head.CreateElement("title").SetText(m.Title)
	head.CreateComment("Styles for the Table of Contents")

	css := "h1 {text-align: center}\n\tp {text-align: left}\n"
	for i := 0; i < m.Levels; i++ {
		css += fmt.Sprintf("\tp.level_%d {text-indent: %dem}\n", i, i)
	}
	style := head.CreateElement("style")
	style.CreateAttr("type", "text/css")
	style.SetText(css)

	body := html.CreateElement("body")
	h1 := body.CreateElement("h1")
	h1.CreateAttr("class", "tocHead")
	h1.SetText(m.Title)

	for i, entry := range m.Entries {
		p := body.CreateElement("p")
		p.CreateAttr("class", "level_"+strconv.Itoa(entry.Level))
		if i == 0 {
			// space between the title and the first entry
			p.CreateAttr("height", "2em")
		}
		a := p.CreateElement("a")
		a.CreateAttr("href", entry.Href)
		a.SetText(entry.Label)
	}

	return render(w, doc)
}

// WriteNCX renders the NCX navigation document.
func WriteNCX(w io.Writer, m *NCX) error {
	doc := newXMLDocument()
	doc.CreateDirective(ncxDoctype)

	ncx := doc.CreateElement("ncx")
	ncx.CreateAttr("xmlns", ncxNS)
	ncx.CreateAttr("version", "2005-1")
	if m.Lang != "" {
		ncx.CreateAttr("xml:lang", m.Lang)
	}

	head := ncx.CreateElement("head")
	meta := func(name, content string) {
		e := head.CreateElement("meta")
		e.CreateAttr("name", name)
		e.CreateAttr("content", content)
	}
	meta("dtb:uid", m.UID)
	meta("dtb:depth", strconv.Itoa(m.Depth))
	meta("dtb:totalPageCount", "0")
	meta("dtb:maxPageNumber", "0")

	ncx.CreateElement("docTitle").CreateElement("text").SetText(m.Title)
	ncx.CreateElement("docAuthor").CreateElement("text").SetText(m.Author)

	navMap := ncx.CreateElement("navMap")
	writeNavPoints(navMap, m.NavPoints)

	return render(w, doc)
}

func writeNavPoints(parent *etree.Element, points []*NavPoint) {
	for _, p := range points {
		navPoint := parent.CreateElement("navPoint")
		navPoint.CreateAttr("class", p.Class)
		navPoint.CreateAttr("id", p.ID)
		navPoint.CreateAttr("playOrder", strconv.Itoa(p.PlayOrder))

		navPoint.CreateElement("navLabel").CreateElement("text").SetText(p.Label)
		navPoint.CreateElement("content").CreateAttr("src", p.Src)

		writeNavPoints(navPoint, p.Children)
	}
}

// WriteOPF renders the OPF 2.0 package document.
func WriteOPF(w io.Writer, m *OPF) error {
	doc := newXMLDocument()

	pkg := doc.CreateElement("package")
	pkg.CreateAttr("xmlns", opfNS)
	pkg.CreateAttr("version", "2.0")
	pkg.CreateAttr("unique-identifier", m.UniqueID)

	metadata := pkg.CreateElement("metadata")
	metadata.CreateAttr("xmlns:dc", dcNS)
	metadata.CreateAttr("xmlns:opf", opfNS)

	dc := func(tag, text string) *etree.Element {
		e := metadata.CreateElement("dc:" + tag)
		e.SetText(text)
		return e
	}
	dc("title", m.Metadata.Title)
	dc("language", m.Metadata.Language)
	dc("identifier", m.Metadata.Identifier).CreateAttr("id", m.UniqueID)
	dc("creator", m.Metadata.Creator).CreateAttr("opf:role", "aut")
	if m.Metadata.Publisher != "" {
		dc("publisher", m.Metadata.Publisher)
	}
	if m.Metadata.Subject != "" {
		dc("subject", m.Metadata.Subject)
	}
	if m.Metadata.Date != "" {
		dc("date", m.Metadata.Date)
	}
	if m.Metadata.CoverID != "" {
		cover := metadata.CreateElement("meta")
		cover.CreateAttr("name", "cover")
		cover.CreateAttr("content", m.Metadata.CoverID)
	}

	manifest := pkg.CreateElement("manifest")
	for _, item := range m.Manifest {
		e := manifest.CreateElement("item")
		e.CreateAttr("id", item.ID)
		e.CreateAttr("href", item.Href)
		e.CreateAttr("media-type", item.MediaType)
	}

	spine := pkg.CreateElement("spine")
	if m.Spine.TOC != "" {
		spine.CreateAttr("toc", m.Spine.TOC)
	}
	for _, ref := range m.Spine.ItemRefs {
		spine.CreateElement("itemref").CreateAttr("idref", ref)
	}

	if len(m.Guide) > 0 {
		guide := pkg.CreateElement("guide")
		for _, ref := range m.Guide {
			e := guide.CreateElement("reference")
			e.CreateAttr("type", ref.Type)
			e.CreateAttr("title", ref.Title)
			e.CreateAttr("href", ref.Href)
		}
	}

	return render(w, doc)
}
