// package session owns the client's belief that it holds a valid credential
package session

import (
	"sync"

	"github.com/desertthunder/alchemist/internal/shared"
	"golang.org/x/oauth2"
)

// Store is the session contract: one opaque token, present or absent.
//
// Token contents are never inspected locally; the backend is the sole
// authority on validity and any authenticated call may reveal the token as
// stale.
type Store interface {
	Token() (string, bool)
	Set(token string) error
	Clear() error
}

// Persistence is the durable row behind a [TokenStore]. Implemented by
// repositories.SessionRepository.
type Persistence interface {
	Get() (string, bool, error)
	Set(token string) error
	Clear() error
}

// TokenStore implements [Store] with a write-through durable row: memory and
// disk mutate in the same call, so there is no consistency window between
// them. A failed durable write leaves the in-memory value untouched.
type TokenStore struct {
	mu    sync.RWMutex
	token string
	held  bool
	disk  Persistence
}

var _ Store = (*TokenStore)(nil)

// Open creates a TokenStore seeded from durable storage. A nil Persistence
// yields a memory-only store that forgets the token on exit.
func Open(disk Persistence) (*TokenStore, error) {
	s := &TokenStore{disk: disk}
	if disk == nil {
		return s, nil
	}

	token, held, err := disk.Get()
	if err != nil {
		return nil, err
	}
	s.token, s.held = token, held
	return s, nil
}

// Token returns the current token and whether one is held.
func (s *TokenStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.held
}

// Set stores a new token, writing through to durable storage.
func (s *TokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disk != nil {
		if err := s.disk.Set(token); err != nil {
			return err
		}
	}
	s.token, s.held = token, true
	return nil
}

// Clear forgets the token in memory and on disk. Idempotent.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disk != nil {
		if err := s.disk.Clear(); err != nil {
			return err
		}
	}
	s.token, s.held = "", false
	return nil
}

// TokenSource adapts the store to [oauth2.TokenSource] for the HTTP layer.
func (s *TokenStore) TokenSource() oauth2.TokenSource {
	return tokenSource{store: s}
}

type tokenSource struct {
	store *TokenStore
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	token, held := ts.store.Token()
	if !held {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: token, TokenType: "bearer"}, nil
}
