package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"reviewkit/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ServerConfig holds everything needed to serve a template catalog.
type ServerConfig struct {
	Catalog     *Catalog
	Port        int
	IsWatchMode bool   // Reload the catalog and push SSE events on file changes
	WatchDir    string // Directory to watch; required in watch mode
	Debug       bool   // Run gin in debug mode
}

// NewRouter builds the gin engine with all API routes. watcher may be nil.
func NewRouter(cfg ServerConfig, watcher *FileWatcher) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Debug {
		r.Use(gin.Logger())
	}

	// Only ever served on localhost
	r.SetTrustedProxies(nil)

	// Allow a local front-end dev server to call the API
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:5174", "http://localhost:5175"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/api/health", HandleHealthRequest(cfg.Catalog))
	r.GET("/api/templates", HandleListTemplates(cfg.Catalog))
	r.GET("/api/templates/:name", HandleTemplateRequest(cfg.Catalog))
	r.GET("/api/templates/:name/raw", HandleTemplateRawRequest(cfg.Catalog))
	r.GET("/api/templates/:name/html", HandleTemplateHTMLRequest(cfg.Catalog))
	r.GET("/api/templates/:name/validate", HandleTemplateValidateRequest(cfg.Catalog))

	if watcher != nil {
		r.GET("/api/watch", HandleWatchSSE(watcher))
	}

	// Serve static assets (CSS, JS) for the viewer
	if assets, err := web.GetAssetsFS(); err == nil {
		r.StaticFS("/assets", http.FS(assets))
	} else {
		slog.Error("Failed to load embedded viewer assets", "error", err)
	}

	// Runs when no other routes match the incoming request; the viewer reads the
	// template name from the query string.
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not found",
				"details": c.Request.URL.Path,
			})
			return
		}
		index, err := web.IndexHTML()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to load viewer",
				"details": err.Error(),
			})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})

	return r
}

// StartServer serves the catalog API and blocks until the server stops.
func StartServer(cfg ServerConfig) error {
	if cfg.Catalog == nil {
		return fmt.Errorf("server requires a template catalog")
	}

	var watcher *FileWatcher
	if cfg.IsWatchMode {
		if cfg.WatchDir == "" {
			return fmt.Errorf("watch mode requires a template directory")
		}
		w, err := NewFileWatcher(cfg.WatchDir, cfg.Catalog)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", cfg.WatchDir, err)
		}
		defer w.Close()
		watcher = w
	}

	r := NewRouter(cfg, watcher)

	slog.Info("Serving review templates", "port", cfg.Port, "source", cfg.Catalog.Source(), "watch", cfg.IsWatchMode)

	// listen and serve on localhost:$port
	return r.Run(fmt.Sprintf("127.0.0.1:%d", cfg.Port))
}
