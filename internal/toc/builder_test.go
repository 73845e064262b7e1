package toc

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roboco-io/ncxgen/internal/document"
)

const bookXHTML = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<body>
  <h2>H1a</h2>
  <p>text</p>
  <h2 id="part-b">H1b</h2>
  <div>
    <h3>H2a</h3>
    <section><h4>H3a</h4></section>
  </div>
  <h3>H2b</h3>
</body>
</html>`

func loadDoc(t *testing.T, src string) *document.Document {
	t.Helper()
	tree := etree.NewDocument()
	if err := tree.ReadFromString(src); err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return document.New(tree, "book.xhtml")
}

func TestBuild_DocumentOrderAcrossLevels(t *testing.T) {
	doc := loadDoc(t, bookXHTML)

	result, err := Build(doc, []string{"//h2", "//h3", "//h4"}, "book.xhtml", NewIDSequence("NCXGen"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []struct {
		label string
		level int
	}{
		{"H1a", 0},
		{"H1b", 0},
		{"H2a", 1},
		{"H3a", 2},
		{"H2b", 1},
	}
	if len(result.Items) != len(expected) {
		t.Fatalf("expected %d items, got %d", len(expected), len(result.Items))
	}
	for i, exp := range expected {
		item := result.Items[i]
		if item.Label != exp.label || item.Level != exp.level {
			t.Errorf("item %d: expected %s/%d, got %s/%d", i, exp.label, exp.level, item.Label, item.Level)
		}
		if i > 0 && result.Items[i-1].Position >= item.Position {
			t.Errorf("item %d: positions not strictly ascending", i)
		}
	}
	if result.Levels != 3 {
		t.Errorf("expected 3 levels, got %d", result.Levels)
	}
}

func TestBuild_IdentifiersUnique(t *testing.T) {
	doc := loadDoc(t, bookXHTML)

	result, err := Build(doc, nil, "book.xhtml", NewIDSequence("NCXGen"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	for _, item := range result.Items {
		if seen[item.ID] {
			t.Errorf("duplicate id %q", item.ID)
		}
		seen[item.ID] = true
	}
	if result.Created != 4 {
		t.Errorf("expected 4 created ids, got %d", result.Created)
	}
}

func TestBuild_KeepsExistingIdentifier(t *testing.T) {
	doc := loadDoc(t, bookXHTML)

	result, err := Build(doc, nil, "book.xhtml", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item := result.Items[1]
	if item.ID != "part-b" {
		t.Errorf("expected existing id 'part-b', got %q", item.ID)
	}
	if item.Link() != "book.xhtml#part-b" {
		t.Errorf("expected link 'book.xhtml#part-b', got %q", item.Link())
	}
}

func TestBuild_IdentifiersWrittenToDocument(t *testing.T) {
	doc := loadDoc(t, bookXHTML)

	result, err := Build(doc, nil, "book.xhtml", NewIDSequence("NCXGen"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Items[0].ID != "NCXGen1" {
		t.Errorf("expected first generated id 'NCXGen1', got %q", result.Items[0].ID)
	}

	// Running again over the mutated document keeps every id
	again, err := Build(doc, nil, "book.xhtml", NewIDSequence("NCXGen"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Created != 0 {
		t.Errorf("expected no new ids on second run, got %d", again.Created)
	}
	for i := range result.Items {
		if result.Items[i].ID != again.Items[i].ID {
			t.Errorf("item %d: id changed from %q to %q", i, result.Items[i].ID, again.Items[i].ID)
		}
	}
}

func TestBuild_GeneratedIDSkipsExisting(t *testing.T) {
	doc := loadDoc(t, `<html><body><p id="NCXGen1">x</p><h2>A</h2></body></html>`)

	result, err := Build(doc, []string{"//h2"}, "book.xhtml", NewIDSequence("NCXGen"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Items[0].ID != "NCXGen2" {
		t.Errorf("expected 'NCXGen2', got %q", result.Items[0].ID)
	}
}

func TestBuild_OverlappingQueriesShareID(t *testing.T) {
	doc := loadDoc(t, `<html><body><h2 class="x">A</h2></body></html>`)

	result, err := Build(doc, []string{"//h2", "//h2[@class='x']"}, "book.xhtml", NewIDSequence("NCXGen"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].ID != result.Items[1].ID {
		t.Errorf("expected shared id, got %q and %q", result.Items[0].ID, result.Items[1].ID)
	}
	if result.Items[0].Level != 0 || result.Items[1].Level != 1 {
		t.Errorf("expected outer level first, got %d then %d", result.Items[0].Level, result.Items[1].Level)
	}
	if result.Created != 1 {
		t.Errorf("expected 1 created id, got %d", result.Created)
	}
}

func TestBuild_EmptyResult(t *testing.T) {
	doc := loadDoc(t, `<html><body><h1>Title</h1><p>no headings</p></body></html>`)

	_, err := Build(doc, nil, "book.xhtml", nil, nil)
	if !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
}

func TestBuild_EmptyLevelWarns(t *testing.T) {
	doc := loadDoc(t, bookXHTML)
	core, logs := observer.New(zap.WarnLevel)

	result, err := Build(doc, []string{"//h2", "//h5", "//h4"}, "book.xhtml", nil, zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(result.Warnings))
	}
	w := result.Warnings[0]
	if w.Level != 1 || w.Query != "//h5" {
		t.Errorf("unexpected warning: %+v", w)
	}
	if logs.Len() != 1 {
		t.Errorf("expected 1 logged warning, got %d", logs.Len())
	}
	if len(result.Items) != 3 {
		t.Errorf("expected 3 items from remaining levels, got %d", len(result.Items))
	}
}

func TestBuild_InvalidQuery(t *testing.T) {
	doc := loadDoc(t, bookXHTML)

	_, err := Build(doc, []string{"//h2", "//h3["}, "book.xhtml", nil, nil)
	var qe *document.QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected *document.QueryError, got %v", err)
	}
}

func TestIDSequence(t *testing.T) {
	seq := NewIDSequence("")
	seq.Reserve(map[string]bool{"NCXGen2": true})

	got := []string{seq.Next(), seq.Next(), seq.Next()}
	want := []string{"NCXGen1", "NCXGen3", "NCXGen4"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("id %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if seq.Issued() != 3 {
		t.Errorf("expected 3 issued, got %d", seq.Issued())
	}
}

func TestItem_Less(t *testing.T) {
	a := Item{Position: 3, Level: 1}
	b := Item{Position: 5, Level: 0}
	c := Item{Position: 3, Level: 2}

	if !a.Less(b) || b.Less(a) {
		t.Error("expected position ordering")
	}
	if !a.Less(c) || c.Less(a) {
		t.Error("expected level to break position ties")
	}
}
