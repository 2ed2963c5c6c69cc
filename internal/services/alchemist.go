// Typed client for the Alchemist backend's auth and library endpoints
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/alchemist/internal/models"
	"github.com/desertthunder/alchemist/internal/shared"
)

// Client wraps [APIService] with the backend's typed contract.
//
// Error mapping: a 401 on an authenticated endpoint yields
// [shared.ErrUnauthorized]; any other non-2xx response or network failure
// yields [shared.ErrTransient]. Callers dispatch on errors.Is.
type Client struct {
	api *APIService
}

// NewClient creates a typed backend client on top of the given API service.
func NewClient(api *APIService) *Client {
	return &Client{api: api}
}

// RequestCode asks the backend to email a one-time login code.
func (c *Client) RequestCode(ctx context.Context, email string) (*models.CodeRequest, error) {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.api.Post(ctx, "/auth/request-code", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransient, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d, body: %s", shared.ErrTransient, resp.StatusCode, resp.Body)
	}

	var out models.CodeRequest
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", shared.ErrTransient, err)
	}

	return &out, nil
}

// VerifyCode exchanges an emailed code for an access token.
func (c *Client) VerifyCode(ctx context.Context, email, code string) (*models.TokenGrant, error) {
	body, err := json.Marshal(map[string]string{"email": email, "code": code})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.api.Post(ctx, "/auth/verify-code", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransient, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d, body: %s", shared.ErrAuthFailed, resp.StatusCode, resp.Body)
	}

	var out models.TokenGrant
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", shared.ErrTransient, err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", shared.ErrAuthFailed)
	}

	return &out, nil
}

// FetchLibrary retrieves the user's complete library in server order.
func (c *Client) FetchLibrary(ctx context.Context) ([]models.LibraryEntry, error) {
	resp, err := c.api.Get(ctx, "/library/tracks")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransient, err)
	}
	if err := authedError(resp); err != nil {
		return nil, err
	}

	var entries []models.LibraryEntry
	if err := json.Unmarshal(resp.Body, &entries); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", shared.ErrTransient, err)
	}

	return entries, nil
}

// AddTrack submits a new track descriptor and returns the created entry.
//
// Callers wanting a consistent view refresh the library afterwards; the
// returned entry alone is not a snapshot.
func (c *Client) AddTrack(ctx context.Context, sub models.TrackSubmission) (*models.LibraryEntry, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.api.Post(ctx, "/library/tracks", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransient, err)
	}
	if err := authedError(resp); err != nil {
		return nil, err
	}

	var entry models.LibraryEntry
	if err := json.Unmarshal(resp.Body, &entry); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", shared.ErrTransient, err)
	}

	return &entry, nil
}

// authedError maps a response from an authenticated endpoint onto the error
// taxonomy. Returns nil for 2xx.
func authedError(resp *APIResponse) error {
	if resp.OK() {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status %d", shared.ErrUnauthorized, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d, body: %s", shared.ErrTransient, resp.StatusCode, resp.Body)
}
