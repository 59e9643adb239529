package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHealthRequest(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "embedded", body["templateDir"])
}

func TestHandleListTemplates(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/templates")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Templates []TemplateSummary `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Templates, 3)
	assert.Equal(t, "general", body.Templates[0].Name)
	assert.Equal(t, "security", body.Templates[1].Name)
	assert.Equal(t, 18, body.Templates[1].Items)
	assert.Equal(t, 5, body.Templates[1].Sections)
}

func TestHandleTemplateRequest(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name         string
		path         string
		expectedCode int
	}{
		{"known template", "/api/templates/security", http.StatusOK},
		{"case insensitive", "/api/templates/Performance", http.StatusOK},
		{"unknown template", "/api/templates/accessibility", http.StatusNotFound},
		{"invalid name", "/api/templates/bad%20name", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, router, tt.path)
			assert.Equal(t, tt.expectedCode, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.expectedCode == http.StatusOK {
				assert.NotEmpty(t, body["sections"])
				assert.NotNil(t, body["comment"])
			} else {
				assert.Contains(t, body, "error")
				assert.Contains(t, body, "details")
			}
		})
	}
}

func TestHandleTemplateRequestStructure(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/templates/security")
	require.Equal(t, http.StatusOK, w.Code)

	var tmpl Template
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tmpl))
	require.NotEmpty(t, tmpl.Sections)
	assert.Equal(t, "Common Vulnerabilities", tmpl.Sections[0].Heading)
	assert.Contains(t, tmpl.Sections[0].Items[0].Text, "SQL Injection")
	assert.Equal(t, "Add your review comments here", tmpl.Comment.Placeholder)
}

func TestHandleTemplateRawRequest(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/templates/general/raw")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "# General Code Review Checklist")
	assert.Contains(t, w.Body.String(), "- [ ]")
}

func TestHandleTemplateHTMLRequest(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/templates/performance/html")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<h1>Performance Code Review Checklist</h1>")
	assert.Contains(t, w.Body.String(), `type="checkbox"`)
}

func TestHandleTemplateValidateRequest(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/templates/security/validate")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "security", resp.Name)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Issues)
}

func TestViewerIsServed(t *testing.T) {
	router := newTestRouter(t)

	w := get(t, router, "/?template=security")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/assets/viewer.js")

	w = get(t, router, "/assets/viewer.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/watch")
}

func TestUnknownAPIRouteReturnsJSON(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Not found", body["error"])
}

func TestWatchRouteOnlyInWatchMode(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/watch")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
