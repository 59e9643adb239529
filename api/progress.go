package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SectionProgress counts ticked items in one section.
type SectionProgress struct {
	Heading string `json:"heading"`
	Checked int    `json:"checked"`
	Total   int    `json:"total"`
}

// Progress summarises how far a reviewer got through a checklist copy.
type Progress struct {
	Title    string            `json:"title"`
	Checked  int               `json:"checked"`
	Total    int               `json:"total"`
	Sections []SectionProgress `json:"sections"`
}

// Complete reports whether every check item is ticked.
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Checked == p.Total
}

// Percent returns the share of ticked items, 0..100.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Checked * 100 / p.Total
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d (%d%%)", p.Checked, p.Total, p.Percent())
}

// SummarizeProgress counts checked items per section. Sections without check
// items (such as an appended Issues Found list) are skipped.
func SummarizeProgress(t *Template) Progress {
	p := Progress{Title: t.Title, Sections: []SectionProgress{}}
	for _, s := range t.Sections {
		if len(s.Items) == 0 {
			continue
		}
		sp := SectionProgress{Heading: s.Heading, Total: len(s.Items)}
		for _, item := range s.Items {
			if item.Checked {
				sp.Checked++
			}
		}
		p.Checked += sp.Checked
		p.Total += sp.Total
		p.Sections = append(p.Sections, sp)
	}
	return p
}

// ReadProgress parses a reviewer's edited copy from disk and summarises it.
func ReadProgress(path string) (Progress, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Progress{}, fmt.Errorf("failed to read review file: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t, err := ParseTemplate(name, content)
	if err != nil {
		return Progress{}, err
	}
	return SummarizeProgress(t), nil
}
