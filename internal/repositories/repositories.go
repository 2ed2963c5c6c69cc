// package repositories provides the sqlite persistence layer for client state.
//
// Two things survive process restarts: the session token (a single durable
// row) and the offline mirror of the last successful library refresh.
package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// SessionRepository persists the backend-issued session token.
//
// The table holds at most one row; Set and Clear are the only writers and
// both are synchronous, so the durable value never lags the caller's view.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get retrieves the stored token. The second return value is false when no
// session row exists.
func (r *SessionRepository) Get() (string, bool, error) {
	var token string
	err := r.db.QueryRow("SELECT token FROM session WHERE id = 1").Scan(&token)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query session: %w", err)
	}
	return token, true, nil
}

// Set stores the token, replacing any previous session row.
func (r *SessionRepository) Set(token string) error {
	query := `
		INSERT INTO session (id, token, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, token, time.Now()); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Clear removes the session row. Clearing an absent session is a no-op.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM session WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
