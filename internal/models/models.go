// package models defines the data model for the music library client
package models

// Track is an immutable descriptor of a piece of audio known to the backend.
//
// Timestamps are carried as the backend's wire strings; the client never
// does date arithmetic on them.
type Track struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	SourceID    string `json:"source_id"`
	Title       string `json:"title"`
	Artist      string `json:"artist,omitempty"`
	DurationSec int    `json:"duration_sec,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
	AudioURL    string `json:"audio_url,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// Playable reports whether the track carries an audio stream reference.
// A track without one can be selected but never attached to the transport.
func (t Track) Playable() bool {
	return t.AudioURL != ""
}

// Credit returns the artist, falling back to the source system tag.
func (t Track) Credit() string {
	if t.Artist != "" {
		return t.Artist
	}
	return t.Source
}

// PageURL returns the most useful URL for the track: the source page for
// known sources, falling back to cover art and then the raw audio stream.
// Empty when the track has nothing to open.
func (t Track) PageURL() string {
	if t.Source == "YOUTUBE" && t.SourceID != "" {
		return "https://www.youtube.com/watch?v=" + t.SourceID
	}
	if t.CoverURL != "" {
		return t.CoverURL
	}
	return t.AudioURL
}

// LibraryEntry is the user's relationship to one [Track].
//
// The entry owns a denormalized Track snapshot; entries referencing the same
// backend track do not share state.
type LibraryEntry struct {
	ID               string `json:"id"`
	Track            Track  `json:"track"`
	Liked            bool   `json:"liked"`
	PlayCount        int    `json:"play_count"`
	CreatedAt        string `json:"created_at"`
	LastPlayedAt     string `json:"last_played_at,omitempty"`
	OfflineAvailable bool   `json:"offline_available"`
}

// TrackSubmission is the request body for adding a track to the library.
type TrackSubmission struct {
	Source      string `json:"source"`
	SourceID    string `json:"source_id"`
	Title       string `json:"title"`
	Artist      string `json:"artist,omitempty"`
	DurationSec int    `json:"duration_sec,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
	AudioURL    string `json:"audio_url,omitempty"`
}

// CodeRequest is the backend's response to a login-code request.
//
// DebugCode is a non-production concession: the backend may echo the
// plaintext code so local setups work without an email provider. It is
// displayed, never parsed as a credential.
type CodeRequest struct {
	Detail    string `json:"detail"`
	DebugCode string `json:"debug_code,omitempty"`
}

// TokenGrant is the backend's response to a successful code verification.
type TokenGrant struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
