package api

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// FenceLineRegex matches fence marker lines (``` or ~~~) with optional leading whitespace.
// Use with FindAllStringIndex to find fence positions for pairing.
var FenceLineRegex = regexp.MustCompile(`(?m)^\s*(?:` + "```" + `|~~~)`)

// brokenHeadingRegex matches ATX heading markers that are not followed by a space,
// e.g. "##Section". CommonMark renders those as paragraphs.
var brokenHeadingRegex = regexp.MustCompile(`(?m)^ {0,3}#{1,6}[^#\s]`)

// commentRegex extracts the text of an HTML comment.
var commentRegex = regexp.MustCompile(`(?s)<!--(.*?)-->`)

// markdown is shared by parsing and HTML rendering. Task lists are the only
// extension templates rely on.
var markdown = goldmark.New(goldmark.WithExtensions(extension.TaskList))

// FindFencedCodeBlockRanges finds all fenced code block ranges in the content.
// Returns a slice of [start, end] pairs representing positions inside code blocks.
func FindFencedCodeBlockRanges(content string) [][2]int {
	var ranges [][2]int

	// In markdown, fences alternate: open, close, open, close...
	matches := FenceLineRegex.FindAllStringIndex(content, -1)

	for i := 0; i+1 < len(matches); i += 2 {
		openStart := matches[i][0]
		closeStart := matches[i+1][0]
		closeEnd := len(content)
		if nl := strings.IndexByte(content[closeStart:], '\n'); nl != -1 {
			closeEnd = closeStart + nl + 1
		}
		ranges = append(ranges, [2]int{openStart, closeEnd})
	}

	return ranges
}

// IsInsideFencedCodeBlock checks if a position is inside any fenced code block.
func IsInsideFencedCodeBlock(position int, codeBlockRanges [][2]int) bool {
	for _, r := range codeBlockRanges {
		if position >= r[0] && position < r[1] {
			return true
		}
	}
	return false
}

// FindBrokenHeadings returns the 1-based line numbers of heading markers with no
// space after them. Lines inside fenced code blocks are ignored.
func FindBrokenHeadings(content string) []int {
	var lines []int
	ranges := FindFencedCodeBlockRanges(content)
	for _, m := range brokenHeadingRegex.FindAllStringIndex(content, -1) {
		if IsInsideFencedCodeBlock(m[0], ranges) {
			continue
		}
		lines = append(lines, lineAt([]byte(content), m[0]))
	}
	return lines
}

// RenderHTML converts template Markdown to HTML, keeping task-list checkboxes.
func RenderHTML(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(content, &buf); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseTemplate parses a checklist document into its sections, check items and
// comment area.
func ParseTemplate(name string, content []byte) (*Template, error) {
	doc, err := parseDocument(name, content)
	if err != nil {
		return nil, err
	}
	return doc.template, nil
}

// parsedDocument carries the structural facts validation needs on top of the
// Template itself.
type parsedDocument struct {
	template       *Template
	titles         int         // number of level-1 headings
	commentCount   int         // number of HTML comments acting as comment areas
	commentIsLast  bool        // the last top-level block is the comment area
	orphanItems    []CheckItem // check items appearing before the first section
	itemsAfterNote []CheckItem // check items appearing after the comment area
}

func parseDocument(name string, content []byte) (*parsedDocument, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("template %q is not valid UTF-8", name)
	}

	root := markdown.Parser().Parse(text.NewReader(content))
	doc := &parsedDocument{template: &Template{Name: name, Sections: []Section{}}}
	t := doc.template

	var current *Section
	closeSection := func() {
		if current == nil {
			return
		}
		// A section holding only the placeholder is the comment area, not a checklist.
		if len(current.Items) == 0 && t.Comment.Line > current.Line && t.Comment.Heading == "" {
			t.Comment.Heading = current.Heading
		} else {
			t.Sections = append(t.Sections, *current)
		}
		current = nil
	}

	var last ast.Node
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		last = n
		switch node := n.(type) {
		case *ast.Heading:
			heading := strings.TrimSpace(nodeText(node, content))
			switch {
			case node.Level == 1:
				doc.titles++
				if t.Title == "" {
					t.Title = heading
				}
			case node.Level == 2:
				closeSection()
				current = &Section{Heading: heading, Line: blockLine(node, content), Items: []CheckItem{}}
			}
		case *ast.List:
			items := collectCheckItems(node, content)
			if doc.commentCount > 0 {
				doc.itemsAfterNote = append(doc.itemsAfterNote, items...)
			}
			// Items after the comment still count toward a section headed after it,
			// so a review built from several templates keeps every checklist.
			switch {
			case current == nil:
				if doc.commentCount == 0 {
					doc.orphanItems = append(doc.orphanItems, items...)
				}
			case doc.commentCount == 0 || current.Line > t.Comment.Line:
				current.Items = append(current.Items, items...)
			}
		case *ast.HTMLBlock:
			if node.HTMLBlockType != ast.HTMLBlockType2 {
				continue
			}
			raw := htmlBlockText(node, content)
			m := commentRegex.FindStringSubmatch(raw)
			if m == nil {
				continue
			}
			doc.commentCount++
			t.Comment.Placeholder = strings.TrimSpace(m[1])
			t.Comment.Line = blockLine(node, content)
		}
	}
	closeSection()

	if last != nil {
		if hb, ok := last.(*ast.HTMLBlock); ok && hb.HTMLBlockType == ast.HTMLBlockType2 {
			doc.commentIsLast = true
		}
	}

	return doc, nil
}

// collectCheckItems flattens the task-list items of a list, including nested lists.
// Plain bullets without a checkbox are not check items.
func collectCheckItems(list *ast.List, source []byte) []CheckItem {
	var items []CheckItem
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		for child := li.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				items = append(items, collectCheckItems(nested, source)...)
				continue
			}
			box, ok := child.FirstChild().(*extast.TaskCheckBox)
			if !ok {
				continue
			}
			items = append(items, CheckItem{
				Text:    strings.TrimSpace(nodeText(child, source)),
				Checked: box.IsChecked,
				Line:    blockLine(child, source),
			})
		}
	}
	return items
}

// nodeText concatenates the literal text below n.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		case *extast.TaskCheckBox:
			// rendered as [ ] / [x], not part of the item text
		default:
			sb.WriteString(nodeText(c, source))
		}
	}
	return sb.String()
}

func htmlBlockText(node *ast.HTMLBlock, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	if node.HasClosure() {
		sb.Write(node.ClosureLine.Value(source))
	}
	return sb.String()
}

// blockLine returns the 1-based line on which a block node starts.
func blockLine(n ast.Node, source []byte) int {
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		return lineAt(source, lines.At(0).Start)
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock {
			if l := blockLine(c, source); l > 0 {
				return l
			}
		}
	}
	return 0
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
