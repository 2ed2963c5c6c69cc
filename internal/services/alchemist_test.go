package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/alchemist/internal/models"
	"github.com/desertthunder/alchemist/internal/shared"
	tu "github.com/desertthunder/alchemist/internal/testing"
	"golang.org/x/oauth2"
)

func newTestClient(server *httptest.Server) *Client {
	return NewClient(NewAPIService(server.URL, server.Client()))
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("RequestCode", func(t *testing.T) {
		t.Run("Posts Email And Decodes Detail", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/auth/request-code" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var body map[string]string
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["email"] != "a@b.com" {
					t.Errorf("unexpected body %v (%v)", body, err)
				}
				json.NewEncoder(w).Encode(map[string]string{"detail": "code sent", "debug_code": "123456"})
			}))
			defer server.Close()

			resp, err := newTestClient(server).RequestCode(ctx, "a@b.com")
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if resp.Detail != "code sent" || resp.DebugCode != "123456" {
				t.Errorf("unexpected response %+v", resp)
			}
		})

		t.Run("Server Error Is Transient", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer server.Close()

			_, err := newTestClient(server).RequestCode(ctx, "a@b.com")
			tu.AssertErrorIs(t, err, shared.ErrTransient)
		})

		t.Run("Unreachable Backend Is Transient", func(t *testing.T) {
			client := NewClient(NewAPIService("http://127.0.0.1:1", nil))

			_, err := client.RequestCode(ctx, "a@b.com")
			tu.AssertErrorIs(t, err, shared.ErrTransient)
		})
	})

	t.Run("VerifyCode", func(t *testing.T) {
		t.Run("Returns Token Grant", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/verify-code" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["email"] != "a@b.com" || body["code"] != "123456" {
					t.Errorf("unexpected body %v", body)
				}
				json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "token_type": "bearer"})
			}))
			defer server.Close()

			grant, err := newTestClient(server).VerifyCode(ctx, "a@b.com", "123456")
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if grant.AccessToken != "tok-1" || grant.TokenType != "bearer" {
				t.Errorf("unexpected grant %+v", grant)
			}
		})

		t.Run("Rejected Code Is Auth Failure", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			}))
			defer server.Close()

			_, err := newTestClient(server).VerifyCode(ctx, "a@b.com", "000000")
			tu.AssertErrorIs(t, err, shared.ErrAuthFailed)
		})

		t.Run("Empty Access Token Is Auth Failure", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"token_type": "bearer"})
			}))
			defer server.Close()

			_, err := newTestClient(server).VerifyCode(ctx, "a@b.com", "123456")
			tu.AssertErrorIs(t, err, shared.ErrAuthFailed)
		})
	})

	t.Run("FetchLibrary", func(t *testing.T) {
		t.Run("Decodes Entries In Server Order", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/library/tracks" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				json.NewEncoder(w).Encode([]models.LibraryEntry{
					{ID: "b", Track: models.Track{ID: "t-b", Title: "Newest"}},
					{ID: "a", Track: models.Track{ID: "t-a", Title: "Oldest"}},
				})
			}))
			defer server.Close()

			entries, err := newTestClient(server).FetchLibrary(ctx)
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if len(entries) != 2 || entries[0].ID != "b" || entries[1].ID != "a" {
				t.Errorf("expected server order preserved, got %v", entries)
			}
		})

		t.Run("401 Is Unauthorized", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			_, err := newTestClient(server).FetchLibrary(ctx)
			tu.AssertErrorIs(t, err, shared.ErrUnauthorized)
		})

		t.Run("Other Failures Are Transient", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer server.Close()

			_, err := newTestClient(server).FetchLibrary(ctx)
			tu.AssertErrorIs(t, err, shared.ErrTransient)
		})

		t.Run("Sends Bearer Token From Source", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
					t.Errorf("expected bearer header, got %q", got)
				}
				w.Write([]byte("[]"))
			}))
			defer server.Close()

			api := NewAPIService(server.URL, server.Client())
			api.UseTokens(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-1", TokenType: "bearer"}))

			if _, err := NewClient(api).FetchLibrary(ctx); err != nil {
				t.Fatalf("expected success, got %v", err)
			}
		})
	})

	t.Run("AddTrack", func(t *testing.T) {
		t.Run("Posts Submission And Decodes Entry", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/library/tracks" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var sub models.TrackSubmission
				if err := json.NewDecoder(r.Body).Decode(&sub); err != nil || sub.SourceID != "xyz" {
					t.Errorf("unexpected submission %+v (%v)", sub, err)
				}
				json.NewEncoder(w).Encode(models.LibraryEntry{
					ID:    "e1",
					Track: models.Track{ID: "t1", Source: sub.Source, SourceID: sub.SourceID, Title: sub.Title},
				})
			}))
			defer server.Close()

			entry, err := newTestClient(server).AddTrack(ctx, models.TrackSubmission{
				Source: "YOUTUBE", SourceID: "xyz", Title: "New Track",
			})
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if entry.ID != "e1" || entry.Track.SourceID != "xyz" {
				t.Errorf("unexpected entry %+v", entry)
			}
		})

		t.Run("401 Is Unauthorized", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			_, err := newTestClient(server).AddTrack(ctx, models.TrackSubmission{Source: "YOUTUBE", SourceID: "x", Title: "T"})
			tu.AssertErrorIs(t, err, shared.ErrUnauthorized)
		})
	})
}
