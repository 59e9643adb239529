package reviewtemplates

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSContainsCanonicalTemplates(t *testing.T) {
	matches, err := fs.Glob(FS(), "*.md")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"general.md", "performance.md", "security.md"}, matches)
}

func TestSecurityTemplateMentionsSQLInjection(t *testing.T) {
	content, err := fs.ReadFile(FS(), "security.md")
	require.NoError(t, err)
	assert.Contains(t, string(content), "## Common Vulnerabilities")
	assert.Contains(t, string(content), "SQL Injection")
}
