package toc

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/roboco-io/ncxgen/internal/document"
)

// DefaultQueries are used when no query is configured: h2, h3 and h4
// become levels 0, 1 and 2.
var DefaultQueries = []string{"//h2", "//h3", "//h4"}

// ErrEmptyResult is returned when no query matched any element.
var ErrEmptyResult = errors.New("no matches found, verify your queries (e.g. //h2 or //h:h2)")

// QueryLevelEmptyWarning reports a level whose query matched nothing.
type QueryLevelEmptyWarning struct {
	Level int
	Query string
}

func (w QueryLevelEmptyWarning) Error() string {
	return fmt.Sprintf("no items found for level %d: %q", w.Level, w.Query)
}

// Result is the outcome of Build.
type Result struct {
	Items    []Item                   `json:"items"`
	Levels   int                      `json:"levels"`
	Warnings []QueryLevelEmptyWarning `json:"-"`
	Created  int                      `json:"created_ids"` // anchors added to the document
}

// Build runs queries against doc, one TOC level per query, and returns the
// matched headings in document order. Headings without an id get one from
// seq; the document is modified in place. filename is used for links.
func Build(doc *document.Document, queries []string, filename string, seq *IDSequence, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(queries) == 0 {
		queries = DefaultQueries
	}
	if seq == nil {
		seq = NewIDSequence(DefaultIDPrefix)
	}
	seq.Reserve(doc.IDs())

	result := &Result{
		Items:  make([]Item, 0),
		Levels: len(queries),
	}

	for level, query := range queries {
		matches, err := doc.Query(query)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", level, err)
		}

		if len(matches) == 0 {
			w := QueryLevelEmptyWarning{Level: level, Query: query}
			result.Warnings = append(result.Warnings, w)
			log.Warn("No items found for level", zap.Int("level", level), zap.String("query", query))
			continue
		}

		for _, e := range matches {
			id, created := document.EnsureIdentifier(e, seq)
			if created {
				result.Created++
				log.Debug("Generated anchor id", zap.String("id", id), zap.Int("level", level))
			}
			result.Items = append(result.Items, Item{
				Label:    document.InnerText(e),
				ID:       id,
				Level:    level,
				Position: doc.Position(e),
				Filename: filename,
			})
		}
		log.Debug("Level processed", zap.Int("level", level), zap.String("query", query), zap.Int("matches", len(matches)))
	}

	if len(result.Items) == 0 {
		return nil, ErrEmptyResult
	}

	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].Less(result.Items[j])
	})

	for i := 1; i < len(result.Items); i++ {
		prev, cur := result.Items[i-1], result.Items[i]
		if prev.Position == cur.Position {
			log.Debug("Element matched by several levels",
				zap.String("id", cur.ID), zap.Int("level", prev.Level), zap.Int("also", cur.Level))
		}
	}

	return result, nil
}
