package api

import (
	"fmt"
)

// IssueSeverity says whether a validation issue fails a lint run.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Validation rule identifiers, reported in ValidationIssue.Rule.
const (
	RuleInvalidEncoding     = "invalid-encoding"
	RuleBrokenHeading       = "broken-heading"
	RuleMissingTitle        = "missing-title"
	RuleMultipleTitles      = "multiple-titles"
	RuleNoSections          = "no-sections"
	RuleEmptySection        = "empty-section"
	RuleNoCheckItems        = "no-check-items"
	RuleItemOutsideSection  = "item-outside-section"
	RuleCommentAreaCount    = "comment-area-count"
	RuleCommentAreaPosition = "comment-area-position"
)

// ValidationIssue is one structural problem found in a template.
type ValidationIssue struct {
	Severity IssueSeverity `json:"severity"`
	Rule     string        `json:"rule"`
	Message  string        `json:"message"`
	Line     int           `json:"line,omitempty"`
}

func (i ValidationIssue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s (%s)", i.Severity, i.Line, i.Message, i.Rule)
	}
	return fmt.Sprintf("%s: %s (%s)", i.Severity, i.Message, i.Rule)
}

// ValidateTemplate checks the document-level properties every review template must hold:
// well-formed headings, a title, at least one section with at least one check item,
// and exactly one comment area placed at the very end.
func ValidateTemplate(name string, content []byte) []ValidationIssue {
	issues := []ValidationIssue{}

	doc, err := parseDocument(name, content)
	if err != nil {
		return append(issues, ValidationIssue{
			Severity: SeverityError,
			Rule:     RuleInvalidEncoding,
			Message:  err.Error(),
		})
	}
	t := doc.template

	for _, line := range FindBrokenHeadings(string(content)) {
		issues = append(issues, ValidationIssue{
			Severity: SeverityError,
			Rule:     RuleBrokenHeading,
			Message:  "heading marker must be followed by a space",
			Line:     line,
		})
	}

	switch {
	case doc.titles == 0:
		issues = append(issues, ValidationIssue{
			Severity: SeverityError,
			Rule:     RuleMissingTitle,
			Message:  "template has no level-1 heading",
		})
	case doc.titles > 1:
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			Rule:     RuleMultipleTitles,
			Message:  fmt.Sprintf("template has %d level-1 headings, expected one", doc.titles),
		})
	}

	if len(t.Sections) == 0 {
		issues = append(issues, ValidationIssue{
			Severity: SeverityError,
			Rule:     RuleNoSections,
			Message:  "template has no sections",
		})
	}

	for _, s := range t.Sections {
		if len(s.Items) == 0 {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Rule:     RuleEmptySection,
				Message:  fmt.Sprintf("section %q has no check items", s.Heading),
				Line:     s.Line,
			})
		}
	}

	if t.ItemCount() == 0 {
		issues = append(issues, ValidationIssue{
			Severity: SeverityError,
			Rule:     RuleNoCheckItems,
			Message:  "template has no check items",
		})
	}

	for _, item := range doc.orphanItems {
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			Rule:     RuleItemOutsideSection,
			Message:  fmt.Sprintf("check item %q is not under a section heading", item.Text),
			Line:     item.Line,
		})
	}

	if doc.commentCount != 1 {
		issues = append(issues, ValidationIssue{
			Severity: SeverityError,
			Rule:     RuleCommentAreaCount,
			Message:  fmt.Sprintf("template must have exactly one comment area, found %d", doc.commentCount),
		})
	}

	if doc.commentCount > 0 && (!doc.commentIsLast || len(doc.itemsAfterNote) > 0) {
		issues = append(issues, ValidationIssue{
			Severity: SeverityError,
			Rule:     RuleCommentAreaPosition,
			Message:  "comment area must be the last block of the template",
			Line:     t.Comment.Line,
		})
	}

	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []ValidationIssue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
