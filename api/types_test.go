package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateSummary(t *testing.T) {
	tmpl := &Template{
		Name:  "sample",
		Title: "Sample",
		Sections: []Section{
			{Heading: "A", Items: []CheckItem{{Text: "one"}, {Text: "two"}}},
			{Heading: "B", Items: []CheckItem{{Text: "three"}}},
		},
	}

	assert.Equal(t, 3, tmpl.ItemCount())
	assert.False(t, tmpl.HasCommentArea())
	assert.Equal(t, TemplateSummary{Name: "sample", Title: "Sample", Sections: 2, Items: 3}, tmpl.Summary())

	tmpl.Comment = CommentArea{Placeholder: "notes", Line: 9}
	assert.True(t, tmpl.HasCommentArea())
}

// The viewer and API clients read these field names.
func TestTemplateJSONFieldNames(t *testing.T) {
	tmpl := Template{
		Name:     "sample",
		Title:    "Sample",
		Sections: []Section{{Heading: "A", Line: 3, Items: []CheckItem{{Text: "one", Checked: true, Line: 4}}}},
		Comment:  CommentArea{Placeholder: "notes", Line: 6},
	}

	data, err := json.Marshal(tmpl)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "sample", decoded["name"])
	assert.Equal(t, "Sample", decoded["title"])

	comment := decoded["comment"].(map[string]any)
	assert.Equal(t, "notes", comment["placeholder"])
	assert.NotContains(t, comment, "heading")

	section := decoded["sections"].([]any)[0].(map[string]any)
	item := section["items"].([]any)[0].(map[string]any)
	assert.Equal(t, true, item["checked"])
	assert.Equal(t, float64(4), item["line"])
}
