// Package telemetry reports which reviewkit commands are used.
//
// Events are sent to Mixpanel only when a project token was linked in with
//
//	go build -ldflags "-X reviewkit/api/telemetry.MixpanelToken=<token>"
//
// and the user has not opted out with REVIEWKIT_TELEMETRY_DISABLE=1 or
// --no-telemetry. An event carries the command name, platform and version.
// Template text, file paths and findings are never sent.
package telemetry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/mixpanel/mixpanel-go"
)

// EnvDisable opts out of telemetry when set to a true value.
const EnvDisable = "REVIEWKIT_TELEMETRY_DISABLE"

// MixpanelToken is empty in development builds, which disables telemetry.
var MixpanelToken = ""

// sendTimeout bounds a single Mixpanel request.
const sendTimeout = 5 * time.Second

var (
	mu      sync.Mutex
	current *tracker
)

// tracker sends events for one process.
type tracker struct {
	client     *mixpanel.ApiClient
	version    string
	distinctID string
	sendMu     sync.Mutex
	inflight   sync.WaitGroup
}

func newTracker(token, version string) *tracker {
	return &tracker{
		client:     mixpanel.NewApiClient(token),
		version:    version,
		distinctID: anonymousID(),
	}
}

// Init enables tracking unless disabled by flag, by EnvDisable, or by a missing
// token. Only the first call has an effect.
func Init(version string, disabledByFlag bool) {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return
	}
	if disabledByFlag || optedOut() || MixpanelToken == "" {
		current = &tracker{version: version}
		return
	}
	current = newTracker(MixpanelToken, version)
}

func optedOut() bool {
	disabled, err := strconv.ParseBool(os.Getenv(EnvDisable))
	return err == nil && disabled
}

func active() *tracker {
	mu.Lock()
	defer mu.Unlock()
	if current == nil || current.client == nil {
		return nil
	}
	return current
}

// IsEnabled reports whether events are being sent.
func IsEnabled() bool {
	return active() != nil
}

// Track sends event in the background. Failures are dropped.
func Track(event string, properties map[string]any) {
	t := active()
	if t == nil {
		return
	}

	props := map[string]any{
		"$os":     runtime.GOOS,
		"$arch":   runtime.GOARCH,
		"version": t.version,
		"sent_at": time.Now().Unix(),
	}
	for k, v := range properties {
		props[k] = v
	}

	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		t.sendMu.Lock()
		defer t.sendMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		_ = t.client.Track(ctx, []*mixpanel.Event{t.client.NewEvent(event, t.distinctID, props)})
	}()
}

// TrackCommand records that a CLI command ran.
func TrackCommand(command string) {
	Track("command_invoked", map[string]any{"command": command})
}

// TrackError records an error category, never its message.
func TrackError(errorType string) {
	Track("error_occurred", map[string]any{"error_type": errorType})
}

// PrintNotice tells the user how to opt out. It prints nothing when disabled.
func PrintNotice(w io.Writer) {
	if !IsEnabled() {
		return
	}
	fmt.Fprintf(w, "Anonymous usage telemetry is on. Set %s=1 or pass --no-telemetry to turn it off.\n", EnvDisable)
}

// anonymousID hashes host and user name so the same machine reports under one
// stable ID that does not reveal either.
func anonymousID() string {
	host, _ := os.Hostname()
	var name string
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	sum := sha256.Sum256([]byte("reviewkit:" + host + ":" + name))
	return hex.EncodeToString(sum[:16])
}

// Shutdown waits up to timeout for queued events.
func Shutdown(timeout time.Duration) {
	t := active()
	if t == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		t.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
