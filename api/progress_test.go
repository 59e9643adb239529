package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeProgress(t *testing.T) {
	tmpl, err := ParseTemplate("sample", []byte(sampleTemplate))
	require.NoError(t, err)

	p := SummarizeProgress(tmpl)
	assert.Equal(t, "Sample Checklist", p.Title)
	assert.Equal(t, 1, p.Checked)
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 25, p.Percent())
	assert.False(t, p.Complete())
	assert.Equal(t, "1/4 (25%)", p.String())
	assert.Equal(t, []SectionProgress{
		{Heading: "First", Checked: 1, Total: 2},
		{Heading: "Second", Checked: 0, Total: 2},
	}, p.Sections)
}

func TestSummarizeProgressSkipsSectionsWithoutItems(t *testing.T) {
	content := "# T\n\n## S\n- [x] a\n\n## Comments\n<!-- c -->\n\n## Issues Found\n\n- **x** (Line 1, minor): y\n"
	tmpl, err := ParseTemplate("t", []byte(content))
	require.NoError(t, err)

	p := SummarizeProgress(tmpl)
	assert.True(t, p.Complete())
	assert.Equal(t, 100, p.Percent())
	require.Len(t, p.Sections, 1)
	assert.Equal(t, "S", p.Sections[0].Heading)
}

func TestProgressEmpty(t *testing.T) {
	p := Progress{}
	assert.Equal(t, 0, p.Percent())
	assert.False(t, p.Complete())
}

func TestReadProgress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.md")
	require.NoError(t, os.WriteFile(path, []byte("# T\n\n## S\n- [x] a\n- [ ] b\n\n<!-- c -->\n"), 0o644))

	p, err := ReadProgress(path)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Checked)
	assert.Equal(t, 2, p.Total)

	_, err = ReadProgress(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestSummarizeProgressAcrossTemplates(t *testing.T) {
	catalog, err := NewEmbeddedCatalog()
	require.NoError(t, err)
	doc, err := BuildReviewDocument(catalog, []string{"general", "security"}, nil)
	require.NoError(t, err)

	tmpl, err := ParseTemplate("review", []byte(doc))
	require.NoError(t, err)

	general, err := catalog.Get("general")
	require.NoError(t, err)
	security, err := catalog.Get("security")
	require.NoError(t, err)

	p := SummarizeProgress(tmpl)
	assert.Equal(t, general.ItemCount()+security.ItemCount(), p.Total)
	assert.Equal(t, 0, p.Checked)
	assert.Equal(t, len(general.Sections)+len(security.Sections), len(p.Sections))
}
