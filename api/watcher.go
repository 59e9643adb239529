package api

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
)

// debounceDuration absorbs the bursts of writes editors make on save.
const debounceDuration = 300 * time.Millisecond

// FileWatcher reloads a directory-backed catalog when its templates change and
// notifies subscribed SSE clients.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	dir       string
	catalog   *Catalog
	clients   map[chan string]bool
	clientsMu sync.RWMutex
	done      chan struct{}
}

// NewFileWatcher starts watching dir for changes to *.md files.
func NewFileWatcher(dir string, catalog *Catalog) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		dir:     dir,
		catalog: catalog,
		clients: make(map[chan string]bool),
		done:    make(chan struct{}),
	}

	go fw.watch()

	return fw, nil
}

// watch listens for file system events, reloads the catalog and notifies clients
func (fw *FileWatcher) watch() {
	defer close(fw.done)

	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
			if !isTemplateEvent(event) {
				continue
			}

			slog.Info("Template change detected", "file", event.Name, "op", event.Op)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := strings.TrimSuffix(filepath.Base(event.Name), ".md")
			debounceTimer = time.AfterFunc(debounceDuration, func() {
				fw.reload(name)
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

// isTemplateEvent keeps writes, creations, removals and renames of Markdown files.
func isTemplateEvent(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// reload refreshes the catalog; clients are only told about successful reloads
// so a half-saved file never replaces a good template.
func (fw *FileWatcher) reload(name string) {
	if fw.catalog != nil {
		if err := fw.catalog.Reload(); err != nil {
			slog.Warn("Keeping previous templates after failed reload", "error", err)
			return
		}
	}
	fw.notifyClients(name)
}

// notifyClients sends a message to all connected SSE clients
func (fw *FileWatcher) notifyClients(message string) {
	fw.clientsMu.RLock()
	defer fw.clientsMu.RUnlock()

	for client := range fw.clients {
		select {
		case client <- message:
		default:
			// Client channel is full, skip
		}
	}
}

// Subscribe adds a new client channel to receive notifications
func (fw *FileWatcher) Subscribe(client chan string) {
	fw.clientsMu.Lock()
	defer fw.clientsMu.Unlock()
	fw.clients[client] = true
}

// Unsubscribe removes a client channel from receiving notifications
func (fw *FileWatcher) Unsubscribe(client chan string) {
	fw.clientsMu.Lock()
	defer fw.clientsMu.Unlock()
	if _, ok := fw.clients[client]; ok {
		delete(fw.clients, client)
		close(client)
	}
}

// Close stops watching and waits for the event loop to exit
func (fw *FileWatcher) Close() error {
	err := fw.watcher.Close()
	<-fw.done
	return err
}

// HandleWatchSSE creates a gin handler for Server-Sent Events
func HandleWatchSSE(fileWatcher *FileWatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		clientChan := make(chan string, 10)
		fileWatcher.Subscribe(clientChan)
		defer fileWatcher.Unsubscribe(clientChan)

		c.SSEvent("connected", "ok")
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case msg := <-clientChan:
				c.SSEvent("file-change", msg)
				c.Writer.Flush()
			case <-clientGone:
				slog.Debug("SSE client disconnected")
				return
			}
		}
	}
}
