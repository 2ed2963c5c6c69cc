// package formatter exports the library snapshot to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/alchemist/internal/models"
	"github.com/desertthunder/alchemist/internal/shared"
)

// ExportToCSV converts library entries to CSV with columns: ID, Title, Artist, Source, Duration, Liked, Plays, Playable
func ExportToCSV(entries []models.LibraryEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Source", "Duration", "Liked", "Plays", "Playable"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.ID,
			entry.Track.Title,
			entry.Track.Artist,
			entry.Track.Source,
			shared.FormatDuration(entry.Track.DurationSec),
			strconv.FormatBool(entry.Liked),
			strconv.Itoa(entry.PlayCount),
			strconv.FormatBool(entry.Track.Playable()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts library entries to Markdown with an optional cover image reference
func ExportToMarkdown(entries []models.LibraryEntry, title, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Library"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(entries)))

	buf.WriteString("## Tracks\n\n")
	for i, entry := range entries {
		duration := shared.FormatDuration(entry.Track.DurationSec)
		note := ""
		if !entry.Track.Playable() {
			note = " (no audio)"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]%s\n", i+1, entry.Track.Credit(), entry.Track.Title, duration, note))
	}

	return buf.Bytes(), nil
}

// ExportToText converts library entries to plain text
func ExportToText(entries []models.LibraryEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(entries)))
	for i, entry := range entries {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, entry.Track.Credit(), entry.Track.Title))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{Timeout: 30 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports the library to Markdown in a dedicated directory.
//
// The imageURL parameter is optional - if provided, attempts to download a
// cover image alongside README.md. A failed download is a warning, not an
// error.
func WriteMarkdownExport(entries []models.LibraryEntry, outputDir, title, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "library"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverPath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverPath, imageData, 0644); err != nil {
				return nil, fmt.Errorf("failed to write cover image: %w", err)
			}
			result.CoverImage = coverPath
			result.Files = append(result.Files, coverPath)
		}
	}

	mdData, err := ExportToMarkdown(entries, title, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	readmePath := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(readmePath, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, readmePath)

	return result, nil
}

// WriteCSVExport exports the library to a CSV file at path.
func WriteCSVExport(entries []models.LibraryEntry, path string) (string, error) {
	if path == "" {
		path = "library_tracks.csv"
	}

	csvData, err := ExportToCSV(entries)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}
