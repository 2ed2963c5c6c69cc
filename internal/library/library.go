// package library caches the server-authoritative track library
package library

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/alchemist/internal/models"
	"github.com/desertthunder/alchemist/internal/shared"
)

// Backend is the slice of the typed client the cache depends on.
type Backend interface {
	FetchLibrary(ctx context.Context) ([]models.LibraryEntry, error)
	AddTrack(ctx context.Context, sub models.TrackSubmission) (*models.LibraryEntry, error)
}

// Mirror is the optional durable copy of the last successful refresh,
// implemented by repositories.EntryRepository.
type Mirror interface {
	ReplaceAll(entries []models.LibraryEntry) error
	List() ([]models.LibraryEntry, error)
}

// Cache holds the in-memory library snapshot.
//
// The snapshot is always complete and consistent as of the last successful
// refresh: Refresh replaces the whole slice atomically, a transient failure
// leaves the prior snapshot untouched, and an unauthorized result clears it.
// There is no incremental merge and no optimistic insert.
type Cache struct {
	mu      sync.RWMutex
	entries []models.LibraryEntry
	client  Backend
	mirror  Mirror
	logger  *log.Logger
}

// NewCache creates a Cache backed by client. mirror may be nil to disable
// the offline copy.
func NewCache(client Backend, mirror Mirror, logger *log.Logger) *Cache {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Cache{client: client, mirror: mirror, logger: logger}
}

// Refresh replaces the snapshot with the backend's current set of entries in
// the order returned.
//
// On [shared.ErrUnauthorized] the snapshot is cleared before the error is
// returned (the auth flow downgrades the session). On any other failure the
// prior snapshot is retained and the caller may retry.
func (c *Cache) Refresh(ctx context.Context) error {
	entries, err := c.client.FetchLibrary(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			c.Clear()
		}
		return err
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	c.logger.Info("library refreshed", "entries", len(entries))

	if c.mirror != nil {
		if err := c.mirror.ReplaceAll(entries); err != nil {
			// The offline copy is best-effort; the in-memory snapshot is
			// already consistent.
			c.logger.Warn("failed to mirror library snapshot", "err", err)
		}
	}

	return nil
}

// AddTrack submits a new track descriptor, then refreshes so the snapshot
// reflects the backend's post-add set rather than a local guess.
func (c *Cache) AddTrack(ctx context.Context, sub models.TrackSubmission) error {
	if sub.Title == "" || sub.Source == "" || sub.SourceID == "" {
		return fmt.Errorf("%w: source, source_id and title are required", shared.ErrValidation)
	}

	if _, err := c.client.AddTrack(ctx, sub); err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			c.Clear()
		}
		return err
	}

	return c.Refresh(ctx)
}

// Entries returns a copy of the current snapshot in server order.
func (c *Cache) Entries() []models.LibraryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.LibraryEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries in the snapshot.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear empties the snapshot. The offline mirror is left alone so a logged
// out client can still read its last known library.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// Offline returns the durable copy of the last successful refresh.
func (c *Cache) Offline() ([]models.LibraryEntry, error) {
	if c.mirror == nil {
		return nil, fmt.Errorf("offline snapshot disabled")
	}
	return c.mirror.List()
}
