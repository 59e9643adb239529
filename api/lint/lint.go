// Package lint runs the structural template checks over a catalog and reports
// the results for humans (text) or CI systems (JUnit XML).
package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reviewkit/api"
)

// Status is the outcome of linting one template.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// Result holds the issues found in one template.
type Result struct {
	Template string                `json:"template"`
	Status   Status                `json:"status"`
	Issues   []api.ValidationIssue `json:"issues"`
	Duration time.Duration         `json:"duration"`
}

// Suite is a lint run over one catalog.
type Suite struct {
	Source   string        `json:"source"`
	Results  []Result      `json:"results"`
	Passed   int           `json:"passed"`
	Warnings int           `json:"warnings"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// Run lints the named templates, or every template when names is empty.
func Run(catalog *api.Catalog, names []string) (*Suite, error) {
	if len(names) == 0 {
		names = catalog.Names()
	}

	suite := &Suite{Source: catalog.Source()}
	start := time.Now()
	for _, name := range names {
		raw, err := catalog.Raw(name)
		if err != nil {
			return nil, err
		}
		suite.add(name, raw)
	}
	suite.Duration = time.Since(start)
	return suite, nil
}

// RunFiles lints Markdown files on disk, e.g. a template being edited before it
// is added to a catalog.
func RunFiles(paths []string) (*Suite, error) {
	suite := &Suite{Source: strings.Join(paths, ", ")}
	start := time.Now()
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		suite.add(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), raw)
	}
	suite.Duration = time.Since(start)
	return suite, nil
}

func (s *Suite) add(name string, raw []byte) {
	t0 := time.Now()
	issues := api.ValidateTemplate(name, raw)
	result := Result{
		Template: name,
		Status:   statusOf(issues),
		Issues:   issues,
		Duration: time.Since(t0),
	}
	switch result.Status {
	case StatusFailed:
		s.Failed++
	case StatusWarning:
		s.Warnings++
	default:
		s.Passed++
	}
	s.Results = append(s.Results, result)
}

func statusOf(issues []api.ValidationIssue) Status {
	if api.HasErrors(issues) {
		return StatusFailed
	}
	if len(issues) > 0 {
		return StatusWarning
	}
	return StatusPassed
}
