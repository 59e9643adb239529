package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reviewkit/api"
	"reviewkit/browser"
)

const (
	healthCheckInterval = 50 * time.Millisecond
	healthCheckTimeout  = 5 * time.Second
	shutdownTimeout     = 2 * time.Second
)

// serverPort is shared by serve, open and watch; zero means the configured port.
var serverPort int

// healthResponse represents the JSON response from /api/health
type healthResponse struct {
	Status      string `json:"status"`
	TemplateDir string `json:"templateDir"`
}

// resolvePort returns the --port flag when set, otherwise the configured port.
func resolvePort() int {
	if serverPort != 0 {
		return serverPort
	}
	if cfg != nil && cfg.Port != 0 {
		return cfg.Port
	}
	return 7826
}

// startServerAndOpen starts the server with the given config, waits for it to become
// healthy, and opens the browser. This is the shared flow for `open` and `watch`.
func startServerAndOpen(config api.ServerConfig, page string) error {
	errCh := make(chan error, 1)
	go func() { errCh <- api.StartServer(config) }()

	if err := waitForServerReady(config.Port, config.Catalog.Source(), errCh); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := fmt.Sprintf("http://localhost:%d%s", config.Port, page)
	go func() {
		// A server error after startup ends the wait as well.
		if err := <-errCh; err != nil {
			fmt.Fprintf(os.Stderr, "Error: server stopped: %v\n", err)
		}
		stop()
	}()
	browser.OpenAndWait(ctx, url)
	return nil
}

// waitForServerReady polls the health endpoint until the server is ready or an error occurs.
// It verifies that the server is serving the expected template source to detect if another
// instance is already running.
// It returns nil if the server becomes ready, or an error if:
// - The server exits with an error (received on errCh)
// - The timeout is reached before the server becomes ready
// - Another reviewkit instance is already running (template source mismatch)
// - Another service is using the port
func waitForServerReady(port int, expectedSource string, errCh <-chan error) error {
	healthURL := fmt.Sprintf("http://localhost:%d/api/health", port)
	deadline := time.Now().Add(healthCheckTimeout)

	// Track if something is responding on the port (even if it's not reviewkit)
	portResponding := false

	for time.Now().Before(deadline) {
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed to start: %w", err)
		default:
		}

		resp, err := http.Get(healthURL)
		if err != nil {
			time.Sleep(healthCheckInterval)
			continue
		}
		portResponding = true
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || err != nil {
			time.Sleep(healthCheckInterval)
			continue
		}

		var health healthResponse
		if err := json.Unmarshal(body, &health); err != nil || health.Status != "ok" {
			return fmt.Errorf("port %d is in use by another service (not reviewkit)", port)
		}
		if health.TemplateDir != expectedSource {
			return fmt.Errorf("another reviewkit instance is already running on port %d, serving: %s", port, health.TemplateDir)
		}
		return nil
	}

	if portResponding {
		return fmt.Errorf("port %d is in use by another service (not reviewkit)", port)
	}
	return fmt.Errorf("timeout waiting for server to become ready (waited %v)", healthCheckTimeout)
}
