// Package parser reads XHTML books into queryable documents.
package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/roboco-io/ncxgen/internal/document"
)

// Format represents a source document format.
type Format int

const (
	FormatUnknown Format = iota
	FormatXHTML
	FormatHTML // HTML that happens to be well-formed XML
	FormatXML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatXHTML:
		return "xhtml"
	case FormatHTML:
		return "html"
	case FormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// DetectFormat detects the document format from the file path.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xhtml", ".xht":
		return FormatXHTML
	case ".html", ".htm":
		return FormatHTML
	case ".xml":
		return FormatXML
	default:
		return FormatUnknown
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormatFromReader detects the format from the leading bytes.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 512)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read header: %w", err)
	}
	if n < 5 {
		return FormatUnknown, fmt.Errorf("file too small to detect format")
	}

	head := bytes.TrimPrefix(buf[:n], utf8BOM)
	head = bytes.TrimLeft(head, " \t\r\n")
	lower := bytes.ToLower(head)

	hasDecl := bytes.HasPrefix(lower, []byte("<?xml"))
	switch {
	case bytes.Contains(lower, []byte("xhtml")):
		return FormatXHTML, nil
	case bytes.Contains(lower, []byte("<!doctype html")), bytes.Contains(lower, []byte("<html")):
		if hasDecl {
			return FormatXHTML, nil
		}
		return FormatHTML, nil
	case hasDecl:
		return FormatXML, nil
	}

	return FormatUnknown, nil
}

// Options contains parser configuration options.
type Options struct {
	Entities   map[string]string // named entities besides the XML builtins
	Permissive bool              // tolerate unknown entities and mismatched case
}

// DefaultOptions returns default parser options.
func DefaultOptions() Options {
	return Options{
		Entities:   xml.HTMLEntity,
		Permissive: false,
	}
}

// MalformedDocumentError is returned when the source cannot be parsed.
type MalformedDocumentError struct {
	Filename string
	Err      error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document %s: %v", e.Filename, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// Parse reads an XHTML document from r. filename is recorded on the
// document and used as the href target of generated links.
func Parse(r io.Reader, filename string, opts Options) (*document.Document, error) {
	tree := etree.NewDocument()
	tree.ReadSettings.CharsetReader = charset.NewReaderLabel
	tree.ReadSettings.Permissive = opts.Permissive
	tree.ReadSettings.Entity = opts.Entities

	if _, err := tree.ReadFrom(r); err != nil {
		return nil, &MalformedDocumentError{Filename: filename, Err: err}
	}
	if tree.Root() == nil {
		return nil, &MalformedDocumentError{Filename: filename, Err: fmt.Errorf("no root element")}
	}
	declareUTF8(tree)

	return document.New(tree, filename), nil
}

var encodingDecl = regexp.MustCompile(`encoding\s*=\s*("[^"]*"|'[^']*')`)

// declareUTF8 rewrites the encoding of the XML declaration. The tree holds
// decoded text and is always written back as UTF-8.
func declareUTF8(tree *etree.Document) {
	for _, t := range tree.Child {
		pi, ok := t.(*etree.ProcInst)
		if !ok || pi.Target != "xml" {
			continue
		}
		if encodingDecl.MatchString(pi.Inst) {
			pi.Inst = encodingDecl.ReplaceAllString(pi.Inst, `encoding="UTF-8"`)
		}
		return
	}
}

// ParseFile opens and parses the document at path.
func ParseFile(path string, opts Options) (*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Parse(f, filepath.Base(path), opts)
}

// Backup copies path to path + ".bak", replacing any previous backup.
func Backup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat source: %w", err)
	}

	dst := path + ".bak"
	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return dst, nil
}

// Save writes doc back to path as UTF-8.
func Save(doc *document.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := doc.Tree().WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}
	return nil
}
