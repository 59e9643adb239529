package api

// Core data types
// ---

// Template is one review checklist, e.g. security.md.
type Template struct {
	Name     string      `json:"name"`  // file name without .md, e.g. "security"
	Title    string      `json:"title"` // text of the level-1 heading
	Sections []Section   `json:"sections"`
	Comment  CommentArea `json:"comment"`
}

// Section is a level-2 heading and the check items listed under it.
type Section struct {
	Heading string      `json:"heading"`
	Line    int         `json:"line"`
	Items   []CheckItem `json:"items"`
}

// CheckItem is a single "- [ ]" line. Checked reflects what a reviewer typed;
// nothing in this module ever flips it.
type CheckItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
	Line    int    `json:"line"`
}

// CommentArea is the free-text placeholder at the end of a template.
type CommentArea struct {
	Heading     string `json:"heading,omitempty"` // heading of the section holding the placeholder, if any
	Placeholder string `json:"placeholder"`       // text inside <!-- ... -->
	Line        int    `json:"line"`              // 0 when the template has no comment area
}

// ItemCount returns the number of check items across all sections.
func (t *Template) ItemCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Items)
	}
	return n
}

// HasCommentArea reports whether a placeholder comment was found.
func (t *Template) HasCommentArea() bool {
	return t.Comment.Line > 0
}

// API request/response types
// ---

// TemplateSummary is the list-view representation of a template.
type TemplateSummary struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Sections int    `json:"sections"`
	Items    int    `json:"items"`
}

// Summary builds the list-view representation of t.
func (t *Template) Summary() TemplateSummary {
	return TemplateSummary{
		Name:     t.Name,
		Title:    t.Title,
		Sections: len(t.Sections),
		Items:    t.ItemCount(),
	}
}

// ValidationResponse is returned by the validate endpoint.
type ValidationResponse struct {
	Name   string            `json:"name"`
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues"`
}
