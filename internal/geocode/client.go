package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client calls the internal reverse-geocoding proxy. It never talks to a provider directly.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a proxy client rooted at baseURL.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Reverse requests GET /internal/geocode?lat={lat}&lng={lng}. An {error} payload is
// returned as a Response, not as a Go error; err is only set for transport or decoding failures.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Response, error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lng": {strconv.FormatFloat(lng, 'f', -1, 64)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/internal/geocode?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	var body Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocode: proxy returned status %d with unreadable body: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK && body.Error == "" {
		body.Error = fmt.Sprintf("geocoding proxy returned status %d", resp.StatusCode)
	}
	return &body, nil
}
