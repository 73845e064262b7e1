package document

import (
	"errors"
	"fmt"
	"testing"

	"github.com/beevik/etree"
)

const sampleXHTML = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Sample</title></head>
<body>
  <h2>Part One</h2>
  <p>intro</p>
  <div>
    <h3 id="ch1">Chapter <em>One</em></h3>
    <h4>Section A</h4>
  </div>
  <h2>Part
      Two</h2>
  <h3>Chapter Two</h3>
</body>
</html>`

func loadDoc(t *testing.T, src string) *Document {
	t.Helper()
	tree := etree.NewDocument()
	if err := tree.ReadFromString(src); err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return New(tree, "book.xhtml")
}

type counter struct {
	n int
}

func (c *counter) Next() string {
	c.n++
	return fmt.Sprintf("gen%d", c.n)
}

func TestQuery_DocumentOrder(t *testing.T) {
	doc := loadDoc(t, sampleXHTML)

	// h3 inside the div is deeper than the second h3, so a breadth-first
	// walk would return them reversed.
	matches, err := doc.Query("//h3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if got := InnerText(matches[0]); got != "Chapter One" {
		t.Errorf("expected first match 'Chapter One', got %q", got)
	}
	if doc.Position(matches[0]) >= doc.Position(matches[1]) {
		t.Error("expected matches in document order")
	}
}

func TestQuery_NoMatch(t *testing.T) {
	doc := loadDoc(t, sampleXHTML)

	matches, err := doc.Query("//h6")
	if err != nil {
		t.Fatalf("expected no error for empty result, got %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestQuery_Invalid(t *testing.T) {
	doc := loadDoc(t, sampleXHTML)

	_, err := doc.Query("//h2[")
	if err == nil {
		t.Fatal("expected error for invalid query")
	}
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected *QueryError, got %T", err)
	}
	if qe.Query != "//h2[" {
		t.Errorf("expected query in error, got %q", qe.Query)
	}
}

func TestQuery_Predicate(t *testing.T) {
	doc := loadDoc(t, `<html><body><h2 class="toc">A</h2><h2>B</h2><h2 class="toc">C</h2></body></html>`)

	matches, err := doc.Query("//h2[@class='toc']")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if InnerText(matches[1]) != "C" {
		t.Errorf("expected 'C', got %q", InnerText(matches[1]))
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"//h:h2", "//h2"},
		{"//h:div/h:h3", "//div/h3"},
		{"h:h2", "h2"},
		{"//h2[@class='h:x']", "//h2[@class='h:x']"},
		{"  //h4  ", "//h4"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := NormalizeQuery(tc.input); got != tc.expected {
				t.Errorf("NormalizeQuery(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestQuery_PrefixedXHTML(t *testing.T) {
	doc := loadDoc(t, sampleXHTML)

	matches, err := doc.Query("//h:h2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}
}

func TestInnerText(t *testing.T) {
	doc := loadDoc(t, sampleXHTML)

	matches, _ := doc.Query("//h2")
	if got := InnerText(matches[1]); got != "Part Two" {
		t.Errorf("expected whitespace collapsed to 'Part Two', got %q", got)
	}
}

func TestEnsureIdentifier(t *testing.T) {
	doc := loadDoc(t, sampleXHTML)
	src := &counter{}

	matches, _ := doc.Query("//h3")

	id, created := EnsureIdentifier(matches[0], src)
	if created || id != "ch1" {
		t.Errorf("expected existing id 'ch1' kept, got %q (created=%v)", id, created)
	}

	id, created = EnsureIdentifier(matches[1], src)
	if !created || id != "gen1" {
		t.Errorf("expected new id 'gen1', got %q (created=%v)", id, created)
	}

	// Second pass must observe the assigned ids
	again, _ := doc.Query("//h3")
	for i, e := range again {
		before := matches[i].SelectAttrValue(IDAttr, "")
		id, created := EnsureIdentifier(e, src)
		if created {
			t.Errorf("match %d: expected no new id on second pass", i)
		}
		if id != before {
			t.Errorf("match %d: id changed from %q to %q", i, before, id)
		}
	}
	if src.n != 1 {
		t.Errorf("expected 1 id issued, got %d", src.n)
	}
}

func TestIDs(t *testing.T) {
	doc := loadDoc(t, sampleXHTML)

	ids := doc.IDs()
	if len(ids) != 1 || !ids["ch1"] {
		t.Errorf("expected {ch1}, got %v", ids)
	}
}

func TestFindGuideAnchor(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		found     bool
		id        string
		ambiguous bool
	}{
		{
			name:  "none",
			src:   `<html><body><p>x</p></body></html>`,
			found: false,
		},
		{
			name:  "single start",
			src:   `<html><body><p id="start">x</p></body></html>`,
			found: true,
			id:    "start",
		},
		{
			name:      "text before start",
			src:       `<html><body><div><p id="text">x</p></div><p id="start">y</p></body></html>`,
			found:     true,
			id:        "text",
			ambiguous: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := loadDoc(t, tc.src)
			anchor, found := doc.FindGuideAnchor()
			if found != tc.found {
				t.Fatalf("expected found=%v, got %v", tc.found, found)
			}
			if anchor.ID != tc.id {
				t.Errorf("expected id %q, got %q", tc.id, anchor.ID)
			}
			if anchor.Ambiguous() != tc.ambiguous {
				t.Errorf("expected ambiguous=%v, got %v", tc.ambiguous, anchor.Ambiguous())
			}
		})
	}
}

func TestFindGuideAnchor_CustomIDs(t *testing.T) {
	doc := loadDoc(t, `<html><body><p id="start">x</p><p id="begin">y</p></body></html>`)

	anchor, found := doc.FindGuideAnchor("begin")
	if !found || anchor.ID != "begin" {
		t.Errorf("expected 'begin', got %q (found=%v)", anchor.ID, found)
	}
}
