package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// OpenAndWait opens url in the default browser and blocks until ctx is done,
// keeping the server goroutine alive.
func OpenAndWait(ctx context.Context, url string) {
	if err := Open(url); err != nil {
		slog.Warn("Failed to open browser", "error", err)
		slog.Info("Manual browser access", "url", url)
	}

	fmt.Println("Serving review templates at " + url)
	fmt.Println("Press Ctrl+C to stop the server")

	<-ctx.Done()
}

// Open opens the specified URL in the default browser
func Open(url string) error {
	name, args, err := command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

// command returns the platform's "open this URL" invocation.
func command(goos, url string) (string, []string, error) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
