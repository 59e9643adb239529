package lint

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"reviewkit/api"

	"github.com/charmbracelet/lipgloss"
)

// Reporter defines the interface for lint result reporters.
type Reporter interface {
	// Report outputs the lint results.
	Report(suite *Suite) error
}

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// TextReporter outputs human-readable lint results.
type TextReporter struct {
	Writer  io.Writer
	Verbose bool
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(w io.Writer, verbose bool) *TextReporter {
	if w == nil {
		w = os.Stdout
	}
	return &TextReporter{Writer: w, Verbose: verbose}
}

// Report outputs the lint results in human-readable format.
func (r *TextReporter) Report(suite *Suite) error {
	fmt.Fprintf(r.Writer, "\n=== %s ===\n", suite.Source)

	for _, result := range suite.Results {
		icon, style := "✓", passStyle
		switch result.Status {
		case StatusFailed:
			icon, style = "✗", failStyle
		case StatusWarning:
			icon, style = "!", warnStyle
		}

		fmt.Fprintf(r.Writer, "  %s %s", style.Render(icon), result.Template)
		if r.Verbose {
			fmt.Fprintf(r.Writer, " (%s)", result.Duration.Round(time.Microsecond))
		}
		fmt.Fprintln(r.Writer)

		for _, issue := range result.Issues {
			issueStyle := warnStyle
			if issue.Severity == api.SeverityError {
				issueStyle = failStyle
			}
			fmt.Fprintf(r.Writer, "    %s\n", issueStyle.Render(issue.String()))
		}
	}

	summaryStyle := passStyle
	if suite.Failed > 0 {
		summaryStyle = failStyle
	}
	fmt.Fprintln(r.Writer)
	fmt.Fprintln(r.Writer, summaryStyle.Render(fmt.Sprintf("Results: %d passed, %d with warnings, %d failed",
		suite.Passed, suite.Warnings, suite.Failed)))

	return nil
}

// JUnitReporter outputs JUnit XML format for CI integration.
type JUnitReporter struct {
	Writer io.Writer
}

// JUnitTestSuites is the root element of JUnit XML.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents a test suite in JUnit XML.
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a test case in JUnit XML.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

// JUnitFailure represents a failure in JUnit XML.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// NewJUnitReporter creates a new JUnit reporter.
func NewJUnitReporter(w io.Writer) *JUnitReporter {
	if w == nil {
		w = os.Stdout
	}
	return &JUnitReporter{Writer: w}
}

// Report outputs the lint results in JUnit XML format. Warnings are reported
// as system-out so they are visible without failing the build.
func (r *JUnitReporter) Report(suite *Suite) error {
	js := JUnitTestSuite{
		Name:     suite.Source,
		Tests:    len(suite.Results),
		Failures: suite.Failed,
		Time:     suite.Duration.Seconds(),
	}

	for _, result := range suite.Results {
		tc := JUnitTestCase{
			Name:      result.Template,
			ClassName: "review_templates",
			Time:      result.Duration.Seconds(),
		}

		var details []string
		for _, issue := range result.Issues {
			details = append(details, issue.String())
		}

		switch result.Status {
		case StatusFailed:
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%d issue(s) in %s", len(result.Issues), result.Template),
				Type:    "ValidationFailure",
				Content: strings.Join(details, "\n"),
			}
		case StatusWarning:
			tc.SystemOut = strings.Join(details, "\n")
		}

		js.TestCases = append(js.TestCases, tc)
	}

	suites := JUnitTestSuites{
		Tests:      js.Tests,
		Failures:   js.Failures,
		Time:       js.Time,
		TestSuites: []JUnitTestSuite{js},
	}

	fmt.Fprintln(r.Writer, `<?xml version="1.0" encoding="UTF-8"?>`)
	enc := xml.NewEncoder(r.Writer)
	enc.Indent("", "  ")
	if err := enc.Encode(suites); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.Writer)
	return err
}

// JSONReporter outputs the suite as indented JSON.
type JSONReporter struct {
	Writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONReporter{Writer: w}
}

// Report outputs the lint results as JSON.
func (r *JSONReporter) Report(suite *Suite) error {
	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(suite)
}

// ReportToFile writes lint results to a file.
func ReportToFile(reporter Reporter, suite *Suite, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	switch r := reporter.(type) {
	case *TextReporter:
		r.Writer = f
	case *JUnitReporter:
		r.Writer = f
	case *JSONReporter:
		r.Writer = f
	}

	return reporter.Report(suite)
}
