package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// HandleHealthRequest reports that the server is up and which catalog it serves.
func HandleHealthRequest(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"templateDir": catalog.Source(),
		})
	}
}

// HandleListTemplates returns a summary of every template in the catalog.
// This handler is used for GET /api/templates requests.
func HandleListTemplates(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		templates := catalog.Templates()
		summaries := make([]TemplateSummary, 0, len(templates))
		for _, t := range templates {
			summaries = append(summaries, t.Summary())
		}
		c.JSON(http.StatusOK, gin.H{"templates": summaries})
	}
}

// HandleTemplateRequest returns the parsed structure of one template.
// This handler is used for GET /api/templates/:name requests.
func HandleTemplateRequest(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := lookupTemplate(c, catalog)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// HandleTemplateRawRequest returns the template's Markdown source.
func HandleTemplateRawRequest(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := lookupTemplate(c, catalog)
		if !ok {
			return
		}
		raw, err := catalog.Raw(t.Name)
		if err != nil {
			sendTemplateError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", raw)
	}
}

// HandleTemplateHTMLRequest returns the template rendered to HTML.
func HandleTemplateHTMLRequest(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := lookupTemplate(c, catalog)
		if !ok {
			return
		}
		raw, err := catalog.Raw(t.Name)
		if err != nil {
			sendTemplateError(c, err)
			return
		}
		html, err := RenderHTML(raw)
		if err != nil {
			slog.Error("Failed to render template", "template", t.Name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to render template",
				"details": err.Error(),
			})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", html)
	}
}

// HandleTemplateValidateRequest runs the structural checks on one template.
func HandleTemplateValidateRequest(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := lookupTemplate(c, catalog)
		if !ok {
			return
		}
		raw, err := catalog.Raw(t.Name)
		if err != nil {
			sendTemplateError(c, err)
			return
		}
		issues := ValidateTemplate(t.Name, raw)
		c.JSON(http.StatusOK, ValidationResponse{
			Name:   t.Name,
			Valid:  !HasErrors(issues),
			Issues: issues,
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// lookupTemplate resolves the :name parameter, writing an error response when it
// cannot. The bool result says whether the handler should continue.
func lookupTemplate(c *gin.Context, catalog *Catalog) (*Template, bool) {
	name := c.Param("name")
	if err := ValidateTemplateName(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid template name",
			"details": err.Error(),
		})
		return nil, false
	}
	t, err := catalog.Get(name)
	if err != nil {
		sendTemplateError(c, err)
		return nil, false
	}
	return t, true
}

// sendTemplateError maps a catalog error to an HTTP error response.
func sendTemplateError(c *gin.Context, err error) {
	if errors.Is(err, ErrTemplateNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Template not found",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to read template",
		"details": err.Error(),
	})
}
