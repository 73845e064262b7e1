// Package config manages application configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Config represents the application configuration.
type Config struct {
	TOC    TOCConfig    `yaml:"toc"`
	Book   BookConfig   `yaml:"book"`
	Output OutputConfig `yaml:"output"`
	Images ImageConfig  `yaml:"images"`
}

// TOCConfig controls heading extraction.
type TOCConfig struct {
	Queries  []string `yaml:"queries"`   // one query per level, outermost first
	Collapse int      `yaml:"collapse"`  // levels merged into the NCX root
	Title    string   `yaml:"title"`     // heading of the HTML TOC
	IDPrefix string   `yaml:"id_prefix"` // prefix of generated ids
	GuideIDs []string `yaml:"guide_ids"` // candidate ids of the text start
}

// BookConfig contains the package metadata.
type BookConfig struct {
	Title     string `yaml:"title"`
	Author    string `yaml:"author"`
	ID        string `yaml:"id"` // empty means a urn:uuid is generated
	Language  string `yaml:"language"`
	Publisher string `yaml:"publisher"`
	Subject   string `yaml:"subject"`
	Cover     string `yaml:"cover"` // cover image href, optional
}

// OutputConfig names the generated files.
type OutputConfig struct {
	HTML   string `yaml:"html"`
	NCX    string `yaml:"ncx"`
	OPF    string `yaml:"opf"` // empty means <source>.opf
	Backup bool   `yaml:"backup"`
}

// ImageConfig controls rasterization of pre blocks.
type ImageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		TOC: TOCConfig{
			Queries:  []string{"//h2", "//h3", "//h4"},
			Collapse: 0,
			Title:    "Table of Contents",
			IDPrefix: "NCXGen",
			GuideIDs: []string{"text", "start"},
		},
		Book: BookConfig{
			Title:    "Book Title",
			Author:   "Author Name",
			Language: "en-US",
		},
		Output: OutputConfig{
			HTML:   "ncx-gen-toc.html",
			NCX:    "ncx-gen-toc.ncx",
			Backup: true,
		},
		Images: ImageConfig{
			Enabled: false,
			Dir:     "images",
		},
	}
}

// Environment variables that override the configuration file.
const (
	EnvTitle    = "NCXGEN_TITLE"
	EnvAuthor   = "NCXGEN_AUTHOR"
	EnvBookID   = "NCXGEN_BOOK_ID"
	EnvCollapse = "NCXGEN_COLLAPSE"
	EnvVerbose  = "NCXGEN_VERBOSE"
)

// ApplyEnv overrides fields from NCXGEN_* environment variables.
func (c *Config) ApplyEnv() error {
	c.Book.Title = GetEnvOrDefault(EnvTitle, c.Book.Title)
	c.Book.Author = GetEnvOrDefault(EnvAuthor, c.Book.Author)
	c.Book.ID = GetEnvOrDefault(EnvBookID, c.Book.ID)

	if v := GetEnvOrDefault(EnvCollapse, ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid level %q", EnvCollapse, v)
		}
		c.TOC.Collapse = n
	}
	return nil
}

// Validate checks the configuration for values that cannot produce a
// usable package.
func (c *Config) Validate() error {
	if c.TOC.Collapse < 0 {
		return fmt.Errorf("toc.collapse must not be negative: %d", c.TOC.Collapse)
	}
	if strings.TrimSpace(c.TOC.IDPrefix) == "" {
		return fmt.Errorf("toc.id_prefix must not be empty")
	}
	for i, q := range c.TOC.Queries {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("toc.queries[%d] is empty", i)
		}
	}
	if c.Book.Language != "" {
		if _, err := language.Parse(c.Book.Language); err != nil {
			return fmt.Errorf("book.language %q: %w", c.Book.Language, err)
		}
	}
	return nil
}

// Identifier returns the configured book id, or a new urn:uuid.
func (b BookConfig) Identifier() string {
	if b.ID != "" {
		return b.ID
	}
	return "urn:uuid:" + uuid.NewString()
}

// LanguageTag returns the canonical form of the configured language, or
// "en-US" when unset or invalid.
func (b BookConfig) LanguageTag() string {
	tag, err := language.Parse(b.Language)
	if err != nil || b.Language == "" {
		return "en-US"
	}
	return tag.String()
}

// OPFName returns the package file name for source.
func (o OutputConfig) OPFName(source string) string {
	if o.OPF != "" {
		return o.OPF
	}
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".opf"
}

// Keys lists the settings accepted by Set.
var Keys = []string{
	"toc.title",
	"toc.collapse",
	"toc.id_prefix",
	"book.title",
	"book.author",
	"book.language",
	"output.html",
	"output.ncx",
}

// Set updates a single setting addressed by its dotted key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "toc.title":
		c.TOC.Title = value
	case "toc.collapse":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid level: %s", value)
		}
		c.TOC.Collapse = n
	case "toc.id_prefix":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("id prefix must not be empty")
		}
		c.TOC.IDPrefix = value
	case "book.title":
		c.Book.Title = value
	case "book.author":
		c.Book.Author = value
	case "book.language":
		if _, err := language.Parse(value); err != nil {
			return fmt.Errorf("invalid language tag %q: %w", value, err)
		}
		c.Book.Language = value
	case "output.html":
		c.Output.HTML = value
	case "output.ncx":
		c.Output.NCX = value
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
