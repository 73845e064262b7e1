package preimage

import (
	"fmt"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/roboco-io/ncxgen/internal/document"
)

// Query selects the blocks that are rasterized.
const Query = "//pre[@class='image']"

// ImageClass is set on the img elements that replace the blocks.
const ImageClass = "pre-image"

// Image describes one written image.
type Image struct {
	Href string // relative to the document, forward slashes
	Path string // on disk
	Alt  string
}

// Rewrite renders every pre block marked as image into dir and replaces
// it with an img element. dir is relative to baseDir, the directory of the
// document. Names are derived from prefix.
func Rewrite(doc *document.Document, baseDir, dir, prefix string, log *zap.Logger) ([]Image, error) {
	if log == nil {
		log = zap.NewNop()
	}

	blocks, err := doc.Query(Query)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, nil
	}

	outDir := filepath.Join(baseDir, dir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	name := slug.Make(prefix)
	if name == "" {
		name = "pre"
	}

	opts := DefaultRenderOptions()
	images := make([]Image, 0, len(blocks))
	for i, pre := range blocks {
		// nested inline markup is flattened
		text := innerText(pre)

		file := fmt.Sprintf("%s-%d.png", name, i+1)
		img := Image{
			Href: path.Join(filepath.ToSlash(dir), file),
			Path: filepath.Join(outDir, file),
			Alt:  firstLine(text),
		}

		if err := writePNG(img.Path, text, opts); err != nil {
			return images, err
		}
		replace(pre, img)

		log.Debug("Rasterized pre block",
			zap.String("file", img.Href),
			zap.Int("lines", len(Lines(text, opts.TabWidth))))
		images = append(images, img)
	}

	doc.Reindex()
	log.Info("Rewrote pre blocks", zap.Int("count", len(images)), zap.String("dir", outDir))
	return images, nil
}

func writePNG(name, text string, opts RenderOptions) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	if err := png.Encode(f, Render(text, opts)); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return f.Close()
}

func replace(pre *etree.Element, img Image) {
	parent := pre.Parent()
	e := etree.NewElement("img")
	e.CreateAttr("src", img.Href)
	e.CreateAttr("alt", img.Alt)
	e.CreateAttr("class", ImageClass)
	if id := pre.SelectAttrValue(document.IDAttr, ""); id != "" {
		e.CreateAttr(document.IDAttr, id)
	}

	parent.InsertChildAt(pre.Index(), e)
	parent.RemoveChild(pre)
}

func innerText(e *etree.Element) string {
	var b strings.Builder
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, t := range e.Child {
			switch c := t.(type) {
			case *etree.CharData:
				b.WriteString(c.Data)
			case *etree.Element:
				walk(c)
			}
		}
	}
	walk(e)
	return b.String()
}

func firstLine(text string) string {
	for _, l := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(l); s != "" {
			return s
		}
	}
	return ""
}
