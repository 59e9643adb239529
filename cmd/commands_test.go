package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"reviewkit/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand(t *testing.T) {
	newWorkspace(t)

	out, err := runCLI(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	for _, name := range []string{"general", "security", "performance"} {
		assert.Contains(t, out, name)
	}

	out, err = runCLI(t, "list", "--format", "json")
	require.NoError(t, err)
	var summaries []api.TemplateSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 3)
	assert.Equal(t, "general", summaries[0].Name)
	assert.Positive(t, summaries[0].Items)
}

func TestShowCommand(t *testing.T) {
	newWorkspace(t)
	catalog, err := api.NewEmbeddedCatalog()
	require.NoError(t, err)
	raw, err := catalog.Raw("security")
	require.NoError(t, err)

	out, err := runCLI(t, "show", "security")
	require.NoError(t, err)
	assert.Equal(t, string(raw), out)

	out, err = runCLI(t, "show", "--format", "json")
	require.NoError(t, err)
	var tmpl api.Template
	require.NoError(t, json.Unmarshal([]byte(out), &tmpl))
	assert.Equal(t, "general", tmpl.Name)
	assert.True(t, tmpl.HasCommentArea())

	_, err = runCLI(t, "show", "nope")
	assert.ErrorIs(t, err, api.ErrTemplateNotFound)
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown([]byte("# Title\n\n- [ ] item\n"), 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "item")
}

func TestLintCommand(t *testing.T) {
	dir := newWorkspace(t)

	out, err := runCLI(t, "lint")
	require.NoError(t, err)
	assert.Contains(t, out, "Results: 3 passed, 0 with warnings, 0 failed")

	writeFile(t, filepath.Join(dir, "broken.md"), "# Broken\n\n## Section\n- [ ] item\n")
	out, err = runCLI(t, "lint", "broken.md")
	assert.ErrorIs(t, err, errLintFailed)
	assert.Contains(t, out, "comment-area-count")

	writeFile(t, filepath.Join(dir, "draft.md"), "# Draft\n\n## Empty\n\n## Section\n- [ ] item\n\n## Comments\n<!-- notes -->\n")
	_, err = runCLI(t, "lint", "draft.md")
	assert.NoError(t, err)
	_, err = runCLI(t, "lint", "--strict", "draft.md")
	assert.ErrorIs(t, err, errLintFailed)
}

func TestLintCommandJUnitFile(t *testing.T) {
	dir := newWorkspace(t)
	report := filepath.Join(dir, "lint.xml")

	out, err := runCLI(t, "lint", "--output", "junit", "--output-file", report, "security")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<testcase name="security"`)
}

func TestLintCommandUnknownFormat(t *testing.T) {
	newWorkspace(t)
	_, err := runCLI(t, "lint", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestNewCommand(t *testing.T) {
	dir := newWorkspace(t)

	out, err := runCLI(t, "new")
	require.NoError(t, err)
	assert.Contains(t, out, "Created review.md")

	content, err := os.ReadFile(filepath.Join(dir, "review.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# General Code Review Checklist")
	assert.NotContains(t, string(content), api.IssuesHeading)

	_, err = runCLI(t, "new")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = runCLI(t, "new", "--force", "security")
	require.NoError(t, err)
	content, err = os.ReadFile(filepath.Join(dir, "review.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Security Code Review Checklist")
}

func TestNewCommandWithFindings(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "findings.yaml"), `findings:
  - category: security
    type: hardcoded_credentials
    line: 9
    severity: critical
    message: Hardcoded credentials detected
`)

	_, err := runCLI(t, "new", "security", "performance", "--findings", "findings.yaml", "--out", "pr-42.md")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "pr-42.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "- **hardcoded_credentials** (Line 9, critical): Hardcoded credentials detected")
	assert.Contains(t, string(content), api.NoIssuesText)
}

func TestNewCommandRejectsMisspelledCategory(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "findings.yaml"), "findings:\n  - category: secuirty\n    severity: major\n    message: typo\n")

	_, err := runCLI(t, "new", "security", "--findings", "findings.yaml")
	assert.ErrorIs(t, err, api.ErrUnknownCategory)
	assert.NoFileExists(t, filepath.Join(dir, "review.md"))
}

func TestNewCommandRejectsOutsidePaths(t *testing.T) {
	newWorkspace(t)

	_, err := runCLI(t, "new", "--out", "../review.md")
	assert.Error(t, err)

	_, err = runCLI(t, "new", "--out", "review.txt")
	assert.Error(t, err)
}

func TestStatusCommand(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "review.md"), "# T\n\n## A\n- [x] one\n- [ ] two\n\n## B\n- [x] three\n- [x] four\n\n## Comments\n<!-- notes -->\n")

	out, err := runCLI(t, "status", "review.md")
	require.NoError(t, err)
	assert.Contains(t, out, "review.md: 3/4 (75%)")
	assert.Contains(t, out, "1/2 A")
	assert.Contains(t, out, "2/2 B")
	assert.NotContains(t, out, "All items checked.")

	out, err = runCLI(t, "status", "--format", "json", "review.md")
	require.NoError(t, err)
	var p api.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, 3, p.Checked)
	assert.Equal(t, 4, p.Total)

	_, err = runCLI(t, "status", "missing.md")
	assert.Error(t, err)
}
