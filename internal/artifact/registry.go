package artifact

import (
	"fmt"
	"io"
	"sync"

	"github.com/roboco-io/ncxgen/internal/nav"
	"github.com/roboco-io/ncxgen/internal/toc"
)

// Artifact names, in the order they are written.
const (
	NameHTML = "html"
	NameNCX  = "ncx"
	NameOPF  = "opf"
)

// Bundle is everything a writer can project from.
type Bundle struct {
	Items     []toc.Item
	Levels    int
	Tree      *nav.Tree
	Book      Book
	Files     Files
	TOCTitle  string
	TextStart string // guide anchor id, may be empty
}

// Writer produces one artifact from a bundle.
type Writer interface {
	// Name returns the artifact identifier (e.g., "html", "ncx").
	Name() string

	// Write renders the artifact to w.
	Write(w io.Writer, b *Bundle) error
}

// WriterFunc adapts a function to the Writer interface.
type WriterFunc struct {
	name string
	fn   func(w io.Writer, b *Bundle) error
}

// NewWriter returns a Writer named name that calls fn.
func NewWriter(name string, fn func(w io.Writer, b *Bundle) error) *WriterFunc {
	return &WriterFunc{name: name, fn: fn}
}

func (f *WriterFunc) Name() string { return f.name }

func (f *WriterFunc) Write(w io.Writer, b *Bundle) error { return f.fn(w, b) }

// Registry manages artifact writers.
type Registry struct {
	mu      sync.RWMutex
	writers map[string]Writer
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		writers: make(map[string]Writer),
	}
}

// Register adds a writer to the registry.
func (r *Registry) Register(w Writer) error {
	if w == nil {
		return fmt.Errorf("cannot register nil writer")
	}
	name := w.Name()
	if name == "" {
		return fmt.Errorf("writer name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.writers[name]; exists {
		return fmt.Errorf("writer already registered: %s", name)
	}

	r.writers[name] = w
	r.order = append(r.order, name)
	return nil
}

// Get returns a writer by name.
func (r *Registry) Get(name string) (Writer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.writers[name]
	if !ok {
		return nil, fmt.Errorf("writer not found: %s", name)
	}
	return w, nil
}

// List returns writer names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Has checks if a writer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.writers[name]
	return ok
}

// Count returns the number of registered writers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.writers)
}

// NewDefaultRegistry returns a registry holding the html, ncx and opf writers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(NewWriter(NameHTML, func(w io.Writer, b *Bundle) error {
		return WriteHTML(w, ProjectHTML(b.Items, b.TOCTitle, b.Levels))
	}))
	_ = r.Register(NewWriter(NameNCX, func(w io.Writer, b *Bundle) error {
		if b.Tree == nil {
			return fmt.Errorf("ncx: navigation tree not assembled")
		}
		return WriteNCX(w, ProjectNCX(b.Tree, b.Book))
	}))
	_ = r.Register(NewWriter(NameOPF, func(w io.Writer, b *Bundle) error {
		return WriteOPF(w, ProjectOPF(b.Book, b.Files, b.TOCTitle, b.TextStart))
	}))
	return r
}

// DefaultRegistry is the global writer registry.
var DefaultRegistry = NewDefaultRegistry()

// Get returns a writer from the default registry.
func Get(name string) (Writer, error) {
	return DefaultRegistry.Get(name)
}

// List returns all writer names from the default registry.
func List() []string {
	return DefaultRegistry.List()
}
