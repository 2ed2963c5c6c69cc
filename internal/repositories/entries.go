package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/alchemist/internal/models"
)

// EntryRepository mirrors the in-memory library snapshot to sqlite.
//
// The mirror is replaced wholesale on every successful refresh, matching the
// cache's no-partial-update invariant; position preserves server order.
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new EntryRepository with the given database connection
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// ReplaceAll swaps the stored snapshot for entries in a single transaction.
func (r *EntryRepository) ReplaceAll(entries []models.LibraryEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM library_entries"); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	query := `
		INSERT INTO library_entries (
			id, position, track_id, source, source_id, title, artist,
			duration_sec, cover_url, audio_url, liked, play_count,
			offline_available, created_at, last_played_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, entry := range entries {
		_, err := tx.Exec(query,
			entry.ID,
			i,
			entry.Track.ID,
			entry.Track.Source,
			entry.Track.SourceID,
			entry.Track.Title,
			entry.Track.Artist,
			entry.Track.DurationSec,
			entry.Track.CoverURL,
			entry.Track.AudioURL,
			entry.Liked,
			entry.PlayCount,
			entry.OfflineAvailable,
			entry.CreatedAt,
			entry.LastPlayedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// List returns the stored snapshot in server order.
func (r *EntryRepository) List() ([]models.LibraryEntry, error) {
	query := `
		SELECT id, track_id, source, source_id, title, artist, duration_sec,
		       cover_url, audio_url, liked, play_count, offline_available,
		       created_at, last_played_at
		FROM library_entries
		ORDER BY position
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	var entries []models.LibraryEntry
	for rows.Next() {
		var (
			entry        models.LibraryEntry
			artist       sql.NullString
			durationSec  sql.NullInt64
			coverURL     sql.NullString
			audioURL     sql.NullString
			createdAt    sql.NullString
			lastPlayedAt sql.NullString
		)

		err := rows.Scan(
			&entry.ID,
			&entry.Track.ID,
			&entry.Track.Source,
			&entry.Track.SourceID,
			&entry.Track.Title,
			&artist,
			&durationSec,
			&coverURL,
			&audioURL,
			&entry.Liked,
			&entry.PlayCount,
			&entry.OfflineAvailable,
			&createdAt,
			&lastPlayedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		entry.Track.Artist = artist.String
		entry.Track.DurationSec = int(durationSec.Int64)
		entry.Track.CoverURL = coverURL.String
		entry.Track.AudioURL = audioURL.String
		entry.CreatedAt = createdAt.String
		entry.LastPlayedAt = lastPlayedAt.String

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return entries, nil
}
