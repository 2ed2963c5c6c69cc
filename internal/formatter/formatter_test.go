package formatter

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/alchemist/internal/models"
)

func sampleEntries() []models.LibraryEntry {
	return []models.LibraryEntry{
		{
			ID: "e1",
			Track: models.Track{
				ID: "t1", Source: "YOUTUBE", SourceID: "vid1", Title: "First Song",
				Artist: "Someone", DurationSec: 215, AudioURL: "http://cdn/a1.mp3",
			},
			Liked:     true,
			PlayCount: 3,
		},
		{
			ID: "e2",
			Track: models.Track{
				ID: "t2", Source: "UPLOAD", SourceID: "file2", Title: "Silent Upload",
			},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleEntries())
	if err != nil {
		t.Fatalf("expected export to succeed, got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "ID" || records[0][7] != "Playable" {
		t.Errorf("unexpected headers %v", records[0])
	}
	if records[1][1] != "First Song" || records[1][4] != "3:35" || records[1][7] != "true" {
		t.Errorf("unexpected first row %v", records[1])
	}
	if records[2][4] != "--:--" || records[2][7] != "false" {
		t.Errorf("unexpected second row %v", records[2])
	}
}

func TestExportToMarkdown(t *testing.T) {
	t.Run("Renders Title Image And Tracks", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleEntries(), "My Library", "cover.jpg")
		if err != nil {
			t.Fatalf("expected export to succeed, got %v", err)
		}

		out := string(data)
		for _, want := range []string{
			"# My Library",
			"![Cover](cover.jpg)",
			"**Tracks**: 2",
			"1. Someone - First Song [3:35]",
			"2. UPLOAD - Silent Upload [--:--] (no audio)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("Defaults Title And Omits Missing Image", func(t *testing.T) {
		data, err := ExportToMarkdown(nil, "", "")
		if err != nil {
			t.Fatal(err)
		}
		out := string(data)
		if !strings.Contains(out, "# Library") {
			t.Errorf("expected default title, got:\n%s", out)
		}
		if strings.Contains(out, "![Cover]") {
			t.Errorf("expected no image reference, got:\n%s", out)
		}
	})
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleEntries())
	if err != nil {
		t.Fatal(err)
	}

	out := string(data)
	if !strings.Contains(out, "Tracks: 2") || !strings.Contains(out, "1. Someone - First Song") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDownloadImage(t *testing.T) {
	t.Run("Returns Image Bytes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg-bytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("expected download to succeed, got %v", err)
		}
		if string(data) != "jpeg-bytes" {
			t.Errorf("unexpected data %q", data)
		}
	})

	t.Run("Empty URL Fails", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Non-200 Fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("expected error for missing image")
		}
	})
}

func TestWriteMarkdownExport(t *testing.T) {
	t.Run("Writes README And Cover", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg-bytes"))
		}))
		defer server.Close()

		dir := filepath.Join(t.TempDir(), "export")
		result, err := WriteMarkdownExport(sampleEntries(), dir, "My Library", server.URL)
		if err != nil {
			t.Fatalf("expected export to succeed, got %v", err)
		}

		if result.CoverImage == "" || len(result.Files) != 2 {
			t.Errorf("expected cover and README, got %+v", result)
		}
		readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
		if err != nil {
			t.Fatalf("expected README.md, got %v", err)
		}
		if !strings.Contains(string(readme), "![Cover](cover.jpg)") {
			t.Error("expected README to reference the downloaded cover")
		}
	})

	t.Run("Failed Cover Download Is A Warning", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "export")

		result, err := WriteMarkdownExport(sampleEntries(), dir, "", "http://127.0.0.1:1/cover.jpg")
		if err != nil {
			t.Fatalf("expected export to succeed without cover, got %v", err)
		}
		if result.CoverImage != "" || len(result.Files) != 1 {
			t.Errorf("expected README only, got %+v", result)
		}
	})
}

func TestWriteCSVExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.csv")

	written, err := WriteCSVExport(sampleEntries(), path)
	if err != nil {
		t.Fatalf("expected export to succeed, got %v", err)
	}
	if written != path {
		t.Errorf("expected path %q, got %q", path, written)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "First Song") {
		t.Error("expected track rows in file")
	}
}
