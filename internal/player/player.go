package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/alchemist/internal/models"
	"github.com/desertthunder/alchemist/internal/shared"
)

// Transport is the single physical audio output. It is owned exclusively by
// [Controller]; no other component commands it.
type Transport interface {
	// Attach points the transport at a new source, replacing any previous one.
	Attach(src string)

	// Detach drops the current source and silences output.
	Detach()

	// Play starts output for src, blocking until playback begins or fails.
	// The controller runs it on its own goroutine, so completions may arrive
	// after the selection has moved on.
	Play(ctx context.Context, src string) error

	// Pause halts output without dropping the source.
	Pause()
}

// UpdateKind enumerates async playback events.
type UpdateKind int

const (
	UpdateStarted UpdateKind = iota
	UpdateFailed
)

// Update is an async playback event for the presentation layer. Failures are
// non-fatal; Err wraps [shared.ErrPlaybackFailed].
type Update struct {
	Kind    UpdateKind
	EntryID string
	Err     error
}

// Controller owns the playback selection and reconciles it against the
// transport.
//
// Every attach/play cycle bumps an attempt tag; a play completion is applied
// only if its tag is still current. Results for superseded attempts are
// discarded, so a late success cannot resurrect a stale source and a late
// failure cannot clear intent for a track that is no longer selected.
type Controller struct {
	mu        sync.Mutex
	transport Transport
	logger    *log.Logger
	timeout   time.Duration

	current  *models.LibraryEntry
	playing  bool
	attached string
	attempt  uint64

	updates chan Update
}

// New creates a Controller commanding the given transport.
func New(transport Transport, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{
		transport: transport,
		logger:    logger,
		timeout:   10 * time.Second,
		updates:   make(chan Update, 16),
	}
}

// SetTimeout overrides the per-attempt play timeout.
func (c *Controller) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.timeout = d
	}
}

// Updates returns the stream of async playback events. Sends never block;
// events are dropped if the consumer lags.
func (c *Controller) Updates() <-chan Update {
	return c.updates
}

// Select makes entry the current selection. This is the only entry point
// that changes which source is attached.
//
// A playable entry attaches its stream and starts a play attempt; an
// unplayable one detaches the transport and forces intent to false.
func (c *Controller) Select(entry models.LibraryEntry) {
	c.mu.Lock()

	selected := entry
	c.current = &selected
	c.attempt++

	if !entry.Track.Playable() {
		c.playing = false
		c.attached = ""
		c.transport.Detach()
		c.mu.Unlock()
		c.logger.Debug("selected entry has no audio", "entry", entry.ID)
		return
	}

	tag := c.attempt
	src := entry.Track.AudioURL
	c.attached = src
	c.playing = true
	c.transport.Attach(src)
	c.mu.Unlock()

	go c.startPlay(tag, entry.ID, src)
}

// Cue makes entry the current selection without starting playback. Used for
// the initial selection after a library load: the stream is attached so a
// later toggle can start it, but play intent stays false and no attempt is
// issued. Any in-flight attempt is superseded.
func (c *Controller) Cue(entry models.LibraryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	selected := entry
	c.current = &selected
	c.playing = false
	c.attempt++

	if !entry.Track.Playable() {
		c.attached = ""
		c.transport.Detach()
		return
	}

	c.attached = entry.Track.AudioURL
	c.transport.Attach(entry.Track.AudioURL)
}

// TogglePlayPause flips play intent for the current selection and issues the
// matching transport command. No-op when nothing is selected or the
// selection is unplayable.
func (c *Controller) TogglePlayPause() {
	c.mu.Lock()

	if c.current == nil {
		c.mu.Unlock()
		return
	}

	if c.playing {
		c.playing = false
		c.attempt++ // supersede any in-flight attempt
		c.transport.Pause()
		c.mu.Unlock()
		return
	}

	if !c.current.Track.Playable() {
		c.mu.Unlock()
		return
	}

	// Select and Cue always leave a playable selection's stream attached,
	// so resuming never re-attaches.
	c.attempt++
	tag := c.attempt
	src := c.current.Track.AudioURL
	entryID := c.current.ID
	c.playing = true
	c.mu.Unlock()

	go c.startPlay(tag, entryID, src)
}

// Reset clears the selection and detaches the transport. Used on logout and
// session downgrade.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = nil
	c.playing = false
	c.attached = ""
	c.attempt++
	c.transport.Detach()
}

// Selection returns a copy of the current entry and whether one is selected.
func (c *Controller) Selection() (models.LibraryEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return models.LibraryEntry{}, false
	}
	return *c.current, true
}

// Playing reports the current play intent.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Attached returns the source the transport is currently pointed at.
func (c *Controller) Attached() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached
}

// startPlay runs one play attempt and applies its result only if the attempt
// tag is still current when it settles.
func (c *Controller) startPlay(tag uint64, entryID, src string) {
	c.mu.Lock()
	timeout := c.timeout
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := c.transport.Play(ctx, src)

	c.mu.Lock()
	defer c.mu.Unlock()

	if tag != c.attempt {
		c.logger.Debug("discarding stale play result", "entry", entryID, "err", err)
		return
	}

	if err != nil {
		c.playing = false
		c.notify(Update{
			Kind:    UpdateFailed,
			EntryID: entryID,
			Err:     fmt.Errorf("%w: %v", shared.ErrPlaybackFailed, err),
		})
		return
	}

	c.notify(Update{Kind: UpdateStarted, EntryID: entryID})
}

func (c *Controller) notify(u Update) {
	select {
	case c.updates <- u:
	default:
		c.logger.Warn("dropping playback update", "entry", u.EntryID)
	}
}
