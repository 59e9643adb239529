package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	reviewtemplates "reviewkit/review_templates"
)

// DefaultTemplate is used when no template name is given.
const DefaultTemplate = "general"

// canonicalOrder lists the shipped templates in the order they are presented.
var canonicalOrder = []string{"general", "security", "performance"}

// ErrTemplateNotFound is returned when a catalog has no template of the requested name.
var ErrTemplateNotFound = errors.New("template not found")

// Catalog is the set of review templates available to the CLI and the server.
// It is safe for concurrent use; Reload swaps the contents atomically.
type Catalog struct {
	mu        sync.RWMutex
	source    string // "embedded" or the directory the templates were read from
	fsys      fs.FS
	names     []string
	templates map[string]*Template
	raw       map[string][]byte
}

// NewEmbeddedCatalog loads the templates compiled into the binary.
func NewEmbeddedCatalog() (*Catalog, error) {
	return LoadCatalog(reviewtemplates.FS(), "embedded")
}

// NewDirCatalog loads every *.md file in dir.
func NewDirCatalog(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template path %s is not a directory", dir)
	}
	return LoadCatalog(os.DirFS(dir), dir)
}

// LoadCatalog parses every *.md file at the root of fsys. source is a label
// used in logs and the health endpoint.
func LoadCatalog(fsys fs.FS, source string) (*Catalog, error) {
	c := &Catalog{source: source, fsys: fsys}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the catalog's filesystem. On error the previous contents are kept.
func (c *Catalog) Reload() error {
	files, err := fs.Glob(c.fsys, "*.md")
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	templates := make(map[string]*Template, len(files))
	raw := make(map[string][]byte, len(files))
	for _, file := range files {
		// Lookups are case-insensitive, so keys are stored lower-cased.
		name := strings.ToLower(strings.TrimSuffix(path.Base(file), ".md"))
		if !templateNameRegex.MatchString(name) {
			slog.Warn("Skipping template with unusable file name", "file", file, "source", c.source)
			continue
		}
		if _, dup := templates[name]; dup {
			slog.Warn("Skipping template whose name differs only in case", "file", file, "template", name)
			continue
		}
		content, err := fs.ReadFile(c.fsys, file)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", file, err)
		}
		t, err := ParseTemplate(name, content)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", file, err)
		}
		templates[name] = t
		raw[name] = content
	}

	if len(templates) == 0 {
		return fmt.Errorf("no templates found in %s", c.source)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates = templates
	c.raw = raw
	c.names = orderNames(templates)

	slog.Debug("Loaded template catalog", "source", c.source, "templates", c.names)
	return nil
}

// orderNames puts the canonical templates first, then any others alphabetically.
func orderNames(templates map[string]*Template) []string {
	names := make([]string, 0, len(templates))
	seen := make(map[string]bool)
	for _, name := range canonicalOrder {
		if _, ok := templates[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var extra []string
	for name := range templates {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// Source returns "embedded" or the directory the catalog was loaded from.
func (c *Catalog) Source() string {
	return c.source
}

// Names returns template names in presentation order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.names...)
}

// Templates returns all templates in presentation order.
func (c *Catalog) Templates() []*Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Template, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.templates[name])
	}
	return out
}

// Get returns a template by name. An empty name returns the default template.
func (c *Catalog) Get(name string) (*Template, error) {
	name = normalizeName(name)
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrTemplateNotFound, name, strings.Join(c.names, ", "))
	}
	return t, nil
}

// Raw returns the unparsed Markdown of a template.
func (c *Catalog) Raw(name string) ([]byte, error) {
	name = normalizeName(name)
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.raw[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrTemplateNotFound, name, strings.Join(c.names, ", "))
	}
	return content, nil
}

// normalizeName accepts "Security", "security.md" and "" (the default).
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, ".md")
	if name == "" {
		return DefaultTemplate
	}
	return name
}
