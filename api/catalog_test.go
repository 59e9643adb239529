package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalog(t *testing.T) {
	c, err := NewEmbeddedCatalog()
	require.NoError(t, err)

	assert.Equal(t, "embedded", c.Source())
	assert.Equal(t, []string{"general", "security", "performance"}, c.Names())

	for _, tmpl := range c.Templates() {
		assert.NotEmpty(t, tmpl.Sections, tmpl.Name)
		assert.Greater(t, tmpl.ItemCount(), 0, tmpl.Name)
		assert.True(t, tmpl.HasCommentArea(), tmpl.Name)
	}
}

func TestEmbeddedSecurityTemplate(t *testing.T) {
	c, err := NewEmbeddedCatalog()
	require.NoError(t, err)

	sec, err := c.Get("security")
	require.NoError(t, err)
	assert.Equal(t, "Security Code Review Checklist", sec.Title)

	var vulns *Section
	for i := range sec.Sections {
		if sec.Sections[i].Heading == "Common Vulnerabilities" {
			vulns = &sec.Sections[i]
		}
	}
	require.NotNil(t, vulns, "security template must have a Common Vulnerabilities section")

	found := false
	for _, item := range vulns.Items {
		assert.False(t, item.Checked, "shipped templates are unchecked")
		if strings.Contains(item.Text, "SQL Injection") {
			found = true
		}
	}
	assert.True(t, found, "Common Vulnerabilities must mention SQL Injection")
}

func TestCatalogGet(t *testing.T) {
	c, err := NewEmbeddedCatalog()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty is default", "", "general"},
		{"exact", "performance", "performance"},
		{"mixed case", "Security", "security"},
		{"with extension", "security.md", "security"},
		{"surrounding space", "  general ", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := c.Get(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tmpl.Name)
		})
	}
}

func TestCatalogGetUnknown(t *testing.T) {
	c, err := NewEmbeddedCatalog()
	require.NoError(t, err)

	_, err = c.Get("accessibility")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
	assert.Contains(t, err.Error(), "general, security, performance")

	_, err = c.Raw("accessibility")
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
}

func TestLoadCatalogOrdersExtraTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"zeta.md":     {Data: []byte("# Z\n\n## S\n- [ ] z\n\n<!-- c -->\n")},
		"security.md": {Data: []byte("# S\n\n## S\n- [ ] s\n\n<!-- c -->\n")},
		"alpha.md":    {Data: []byte("# A\n\n## S\n- [ ] a\n\n<!-- c -->\n")},
		"notes.txt":   {Data: []byte("ignored")},
	}

	c, err := LoadCatalog(fsys, "test")
	require.NoError(t, err)
	assert.Equal(t, []string{"security", "alpha", "zeta"}, c.Names())
}

func TestLoadCatalogNamesAreFetchable(t *testing.T) {
	const body = "# T\n\n## S\n- [ ] a\n\n<!-- c -->\n"
	fsys := fstest.MapFS{
		"Accessibility.md": {Data: []byte(body)},
		"go_api.md":        {Data: []byte(body)},
		"GO_API.md":        {Data: []byte(body)},
		"release notes.md": {Data: []byte(body)},
		"v1.2.md":          {Data: []byte(body)},
		".md":              {Data: []byte(body)},
	}

	c, err := LoadCatalog(fsys, "test")
	require.NoError(t, err)
	assert.Equal(t, []string{"accessibility", "go_api"}, c.Names())

	router := NewRouter(ServerConfig{Catalog: c}, nil)
	for _, name := range c.Names() {
		_, err := c.Get(name)
		assert.NoError(t, err, name)
		_, err = c.Raw(name)
		assert.NoError(t, err, name)
		assert.NoError(t, ValidateTemplateName(name), name)
		assert.Equal(t, http.StatusOK, get(t, router, "/api/templates/"+name).Code, name)
	}

	_, err = c.Get("Accessibility")
	assert.NoError(t, err)
}

func TestLoadCatalogEmpty(t *testing.T) {
	_, err := LoadCatalog(fstest.MapFS{}, "empty")
	assert.Error(t, err)
}

func TestDirCatalogReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "general.md")
	require.NoError(t, os.WriteFile(path, []byte("# One\n\n## S\n- [ ] a\n\n<!-- c -->\n"), 0o644))

	c, err := NewDirCatalog(dir)
	require.NoError(t, err)
	tmpl, err := c.Get("")
	require.NoError(t, err)
	assert.Equal(t, "One", tmpl.Title)

	require.NoError(t, os.WriteFile(path, []byte("# Two\n\n## S\n- [ ] a\n- [ ] b\n\n<!-- c -->\n"), 0o644))
	require.NoError(t, c.Reload())

	tmpl, err = c.Get("")
	require.NoError(t, err)
	assert.Equal(t, "Two", tmpl.Title)
	assert.Equal(t, 2, tmpl.ItemCount())
}

func TestDirCatalogKeepsContentsWhenReloadFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "general.md")
	require.NoError(t, os.WriteFile(path, []byte("# One\n\n## S\n- [ ] a\n\n<!-- c -->\n"), 0o644))

	c, err := NewDirCatalog(dir)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	assert.Error(t, c.Reload())

	tmpl, err := c.Get("general")
	require.NoError(t, err)
	assert.Equal(t, "One", tmpl.Title)
}

func TestNewDirCatalogErrors(t *testing.T) {
	_, err := NewDirCatalog(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, []byte("# x"), 0o644))
	_, err = NewDirCatalog(file)
	assert.Error(t, err)
}
