package api

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FindingSeverity grades a reviewer-recorded finding.
type FindingSeverity string

const (
	FindingCritical FindingSeverity = "critical"
	FindingMajor    FindingSeverity = "major"
	FindingModerate FindingSeverity = "moderate"
	FindingMinor    FindingSeverity = "minor"
)

var (
	// ErrInvalidSeverity is returned for a finding whose severity is not one of the known values.
	ErrInvalidSeverity = errors.New("invalid severity")
	// ErrUnknownCategory is returned for a finding whose category names no template.
	ErrUnknownCategory = errors.New("unknown finding category")
)

// IssuesHeading is appended below the template in a composed review.
const IssuesHeading = "## Issues Found"

// NoIssuesText is written when no finding matches the template's category.
const NoIssuesText = "No issues found for this category."

// Finding is an issue a reviewer noted by hand. Category matches a template name.
type Finding struct {
	Category string          `yaml:"category" json:"category"`
	Type     string          `yaml:"type" json:"type"`
	Line     int             `yaml:"line" json:"line"`
	Severity FindingSeverity `yaml:"severity" json:"severity"`
	Message  string          `yaml:"message" json:"message"`
}

// findingsFile is the on-disk YAML layout:
//
//	findings:
//	  - category: security
//	    type: hardcoded_credentials
//	    line: 9
//	    severity: critical
//	    message: Hardcoded credentials detected
type findingsFile struct {
	Findings []Finding `yaml:"findings"`
}

// Validate checks that the finding can be rendered.
func (f Finding) Validate() error {
	if strings.TrimSpace(f.Category) == "" {
		return errors.New("finding has no category")
	}
	if strings.TrimSpace(f.Message) == "" {
		return errors.New("finding has no message")
	}
	if f.Line < 0 {
		return fmt.Errorf("finding has negative line %d", f.Line)
	}
	switch f.Severity {
	case FindingCritical, FindingMajor, FindingModerate, FindingMinor:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected critical, major, moderate or minor)", ErrInvalidSeverity, f.Severity)
	}
}

// ParseFindings decodes and validates a findings YAML document.
func ParseFindings(data []byte) ([]Finding, error) {
	var file findingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse findings: %w", err)
	}
	for i := range file.Findings {
		f := &file.Findings[i]
		// An empty category would otherwise normalize to the default template.
		if strings.TrimSpace(f.Category) == "" {
			return nil, fmt.Errorf("finding %d: finding has no category", i+1)
		}
		f.Category = normalizeName(f.Category)
		f.Severity = FindingSeverity(strings.ToLower(string(f.Severity)))
		if f.Type == "" {
			f.Type = "note"
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("finding %d: %w", i+1, err)
		}
	}
	return file.Findings, nil
}

// LoadFindings reads a findings YAML file.
func LoadFindings(path string) ([]Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read findings file: %w", err)
	}
	return ParseFindings(data)
}

// FindingsFor returns the findings whose category is the given template name.
func FindingsFor(findings []Finding, category string) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

// FormatFinding renders one finding as a Markdown bullet. Line 0 is printed as
// is; it marks a finding about the change as a whole.
func FormatFinding(f Finding) string {
	return fmt.Sprintf("- **%s** (Line %d, %s): %s", f.Type, f.Line, f.Severity, f.Message)
}

// ComposeReview returns the template text, unchanged, then a blank-line
// separated Issues Found section listing the findings of the template's category.
func ComposeReview(t *Template, raw []byte, findings []Finding) string {
	var sb strings.Builder
	sb.Write(raw)
	sb.WriteString("\n\n")
	sb.WriteString(IssuesHeading)
	sb.WriteString("\n\n")

	matching := FindingsFor(findings, t.Name)
	if len(matching) == 0 {
		sb.WriteString(NoIssuesText)
		sb.WriteString("\n")
		return sb.String()
	}
	for _, f := range matching {
		sb.WriteString(FormatFinding(f))
		sb.WriteString("\n")
	}
	return sb.String()
}

// BuildReviewDocument concatenates the named templates into one reviewer copy.
// When findings is non-nil each template is followed by its Issues Found section.
// An empty names list means the default template. A finding whose category is
// not in the catalog is an error; one for a template that was not selected is
// logged and left out.
func BuildReviewDocument(c *Catalog, names []string, findings []Finding) (string, error) {
	if len(names) == 0 {
		names = []string{DefaultTemplate}
	}

	for i, f := range findings {
		if _, err := c.Get(f.Category); err != nil {
			return "", fmt.Errorf("finding %d: %w %q (available: %s)", i+1, ErrUnknownCategory, f.Category, strings.Join(c.Names(), ", "))
		}
	}

	parts := make([]string, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		t, err := c.Get(name)
		if err != nil {
			return "", err
		}
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true

		raw, err := c.Raw(t.Name)
		if err != nil {
			return "", err
		}
		if findings != nil {
			parts = append(parts, ComposeReview(t, raw, findings))
		} else {
			parts = append(parts, strings.TrimRight(string(raw), "\n")+"\n")
		}
	}

	for _, f := range findings {
		if !seen[f.Category] {
			slog.Warn("Finding left out: its template is not part of this review", "category", f.Category, "type", f.Type, "line", f.Line)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// WriteReviewFile writes a reviewer copy, refusing to replace an existing file unless force is set.
func WriteReviewFile(path string, content string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		return fmt.Errorf("failed to create review file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write review file: %w", err)
	}
	return nil
}
