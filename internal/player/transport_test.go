package player

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStreamTransport(t *testing.T) {
	t.Run("Play", func(t *testing.T) {
		t.Run("Succeeds On Partial Content", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasPrefix(r.Header.Get("Range"), "bytes=0-") {
					t.Errorf("expected range request, got %q", r.Header.Get("Range"))
				}
				w.WriteHeader(http.StatusPartialContent)
				w.Write([]byte("audio-bytes"))
			}))
			defer server.Close()

			transport := NewStreamTransport(server.Client(), 4)
			transport.Attach(server.URL)

			if err := transport.Play(context.Background(), server.URL); err != nil {
				t.Fatalf("expected play to succeed, got %v", err)
			}
			if !transport.PlayingState() {
				t.Error("expected transport to report playing")
			}
		})

		t.Run("Succeeds On Full Response Shorter Than Probe", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("xy"))
			}))
			defer server.Close()

			transport := NewStreamTransport(server.Client(), 1024)
			transport.Attach(server.URL)

			if err := transport.Play(context.Background(), server.URL); err != nil {
				t.Fatalf("expected play to succeed, got %v", err)
			}
		})

		t.Run("Rejected Status Fails", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			}))
			defer server.Close()

			transport := NewStreamTransport(server.Client(), 1024)
			transport.Attach(server.URL)

			if err := transport.Play(context.Background(), server.URL); err == nil {
				t.Error("expected error for rejected stream")
			}
			if transport.PlayingState() {
				t.Error("expected transport to stay silent")
			}
		})

		t.Run("Empty Body Fails", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			transport := NewStreamTransport(server.Client(), 1024)

			if err := transport.Play(context.Background(), server.URL); err == nil {
				t.Error("expected error for empty stream")
			}
		})

		t.Run("Unreachable Host Fails", func(t *testing.T) {
			transport := NewStreamTransport(nil, 16)

			err := transport.Play(context.Background(), "http://127.0.0.1:1/nothing.mp3")
			if err == nil {
				t.Error("expected error for unreachable stream")
			}
		})

		t.Run("Detached Source Does Not Report Playing", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("audio-bytes"))
			}))
			defer server.Close()

			transport := NewStreamTransport(server.Client(), 4)
			transport.Attach("http://cdn/other.mp3")

			if err := transport.Play(context.Background(), server.URL); err != nil {
				t.Fatalf("expected probe to succeed, got %v", err)
			}
			if transport.PlayingState() {
				t.Error("expected playing false for a source that is no longer attached")
			}
		})
	})

	t.Run("Attach Detach Pause", func(t *testing.T) {
		transport := NewStreamTransport(nil, 16)

		transport.Attach("http://cdn/a.mp3")
		if transport.Source() != "http://cdn/a.mp3" {
			t.Errorf("expected attached source, got %q", transport.Source())
		}

		transport.Pause()
		if transport.PlayingState() {
			t.Error("expected paused transport")
		}

		transport.Detach()
		if transport.Source() != "" {
			t.Errorf("expected no source after detach, got %q", transport.Source())
		}
	})
}
