package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/alchemist/internal/formatter"
	"github.com/desertthunder/alchemist/internal/models"
	"github.com/desertthunder/alchemist/internal/shared"
	"github.com/urfave/cli/v3"
)

// LibraryList refreshes the snapshot and prints it in server order. With
// --offline the on-disk mirror is printed without contacting the backend.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	offline := cmd.Bool("offline")

	var entries []models.LibraryEntry
	if offline {
		var err error
		if entries, err = r.cache.Offline(); err != nil {
			return fmt.Errorf("failed to read offline snapshot: %w", err)
		}
	} else {
		if err := r.flow.Refresh(ctx); err != nil {
			return err
		}
		entries = r.cache.Entries()
	}

	if useJSON {
		return r.writeJSON(entries, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("Library (%d tracks)", len(entries)))
	for i, entry := range entries {
		playable := ""
		if !entry.Track.Playable() {
			playable = " (no audio)"
		}
		liked := ""
		if entry.Liked {
			liked = " ♥"
		}
		r.writePlain("%3d. %s - %s [%s]%s%s\n",
			i+1,
			entry.Track.Credit(),
			entry.Track.Title,
			shared.FormatDuration(entry.Track.DurationSec),
			playable,
			liked,
		)
	}
	return nil
}

// LibraryRefresh replaces the cached snapshot with the backend's current set.
func (r *Runner) LibraryRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.flow.Refresh(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Refreshed: %d tracks\n", r.cache.Len())
}

// LibraryAdd submits a new track descriptor and refreshes the snapshot.
func (r *Runner) LibraryAdd(ctx context.Context, cmd *cli.Command) error {
	sub := models.TrackSubmission{
		Source:      cmd.String("source"),
		SourceID:    cmd.String("source-id"),
		Title:       cmd.String("title"),
		Artist:      cmd.String("artist"),
		DurationSec: int(cmd.Int("duration")),
		AudioURL:    cmd.String("audio-url"),
		CoverURL:    cmd.String("cover-url"),
	}

	if err := r.flow.AddTrack(ctx, sub); err != nil {
		return err
	}

	return r.writePlain("✓ Added '%s': library now holds %d tracks\n", sub.Title, r.cache.Len())
}

// LibraryExport writes the current snapshot to CSV, Markdown or plain text.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	if err := r.flow.Refresh(ctx); err != nil {
		return err
	}
	entries := r.cache.Entries()

	switch format {
	case "csv":
		path, err := formatter.WriteCSVExport(entries, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d tracks to %s\n", len(entries), path)
	case "markdown", "md":
		result, err := formatter.WriteMarkdownExport(entries, output, cmd.String("title"), cmd.String("image"))
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d tracks to %s\n", len(entries), result.Directory)
	case "text", "txt":
		data, err := formatter.ExportToText(entries)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// LibraryOpen opens a library entry's source page (or cover art) in the browser.
func (r *Runner) LibraryOpen(ctx context.Context, cmd *cli.Command) error {
	entry, err := r.resolveEntry(ctx, cmd.StringArg("id"), false)
	if err != nil {
		return err
	}

	url := entry.Track.PageURL()
	if url == "" {
		return fmt.Errorf("%w: entry %s has no page to open", shared.ErrValidation, entry.ID)
	}

	r.logger.Info("opening browser", "url", url)
	if err := shared.OpenBrowser(url); err != nil {
		return err
	}
	return r.writePlain("✓ Opened %s\n", url)
}

// resolveEntry finds a library entry by ID or by 1-based list position,
// refreshing the snapshot first (or reading the mirror when offline).
func (r *Runner) resolveEntry(ctx context.Context, ref string, offline bool) (models.LibraryEntry, error) {
	if ref == "" {
		return models.LibraryEntry{}, fmt.Errorf("%w: entry id argument is required", shared.ErrMissingArgument)
	}

	var entries []models.LibraryEntry
	if offline {
		var err error
		if entries, err = r.cache.Offline(); err != nil {
			return models.LibraryEntry{}, fmt.Errorf("failed to read offline snapshot: %w", err)
		}
	} else {
		if err := r.flow.Refresh(ctx); err != nil {
			return models.LibraryEntry{}, err
		}
		entries = r.cache.Entries()
	}

	for _, entry := range entries {
		if entry.ID == ref {
			return entry, nil
		}
	}

	if pos, err := strconv.Atoi(ref); err == nil && pos >= 1 && pos <= len(entries) {
		return entries[pos-1], nil
	}

	return models.LibraryEntry{}, fmt.Errorf("%w: no entry %q in the library", shared.ErrValidation, ref)
}
