// Package profile is the client side of the profile API, used by the location resolver as
// its remote store.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"location-resolver/internal/models"
)

const locationPath = "/api/v1/profile/location"

// TokenSource returns the bearer token of the signed-in user.
type TokenSource func() string

// Client reads and merges the location slot over HTTP.
type Client struct {
	baseURL string
	token   TokenSource
	client  *http.Client
}

// NewClient creates a client rooted at baseURL that authenticates with token.
func NewClient(baseURL string, token TokenSource, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, client: client}
}

// StatusError is a non-success response from the profile API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("profile: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("profile: status %d", e.StatusCode)
}

// Fetch returns the saved snapshot, or nil when the profile has none. The token already
// identifies the user, so userID is not sent.
func (c *Client) Fetch(ctx context.Context, userID string) (*models.Snapshot, error) {
	resp, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, statusError(resp)
	}

	var snap models.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("profile: failed to decode location of %s: %w", userID, err)
	}
	if !snap.Location.IsSet() {
		return nil, nil
	}
	return &snap, nil
}

// Merge sends snap to be merged into the profile.
func (c *Client) Merge(ctx context.Context, userID string, snap models.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("profile: failed to encode location: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return statusError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+locationPath, r)
	if err != nil {
		return nil, fmt.Errorf("profile: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile: request failed: %w", err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)
	return &StatusError{StatusCode: resp.StatusCode, Message: payload.Error}
}
