package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/desertthunder/alchemist/internal/shared"
)

// StreamTransport implements [Transport] over HTTP: playing a source means
// streaming its audio URL, and a play attempt succeeds once an initial probe
// window has been fetched. Unreachable hosts, rejected ranges, and truncated
// streams surface as the transport-level failures the controller absorbs.
type StreamTransport struct {
	mu         sync.Mutex
	httpClient *http.Client
	probeBytes int64
	src        string
	playing    bool
}

var _ Transport = (*StreamTransport)(nil)

// NewStreamTransport creates a StreamTransport probing probeBytes per play
// attempt. The client defaults to [http.DefaultClient].
func NewStreamTransport(client *http.Client, probeBytes int) *StreamTransport {
	if client == nil {
		client = http.DefaultClient
	}
	if probeBytes <= 0 {
		probeBytes = 32 * 1024
	}
	return &StreamTransport{httpClient: client, probeBytes: int64(probeBytes)}
}

// Attach points the transport at src without starting output.
func (t *StreamTransport) Attach(src string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.src = src
	t.playing = false
}

// Detach drops the source and stops output.
func (t *StreamTransport) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.src = ""
	t.playing = false
}

// Pause stops output, keeping the source attached.
func (t *StreamTransport) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playing = false
}

// Play fetches the probe window of src. Returns nil once enough of the
// stream has arrived to call playback started.
func (t *StreamTransport) Play(ctx context.Context, src string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return fmt.Errorf("invalid stream url: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", t.probeBytes-1))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stream unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("stream rejected: status %d", resp.StatusCode)
	}

	n, err := io.CopyN(io.Discard, resp.Body, t.probeBytes)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stream interrupted: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: empty stream", shared.ErrNoAudio)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Only report playing if this source is still the attached one; the
	// controller separately discards stale completions.
	if t.src == src {
		t.playing = true
	}
	return nil
}

// Source returns the currently attached source ("" when detached).
func (t *StreamTransport) Source() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.src
}

// PlayingState reports whether the transport believes output is running.
func (t *StreamTransport) PlayingState() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}
