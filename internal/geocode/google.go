package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// GoogleProvider queries the Google Geocoding API with a server-side key.
type GoogleProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGoogleProvider creates a provider for the given key and endpoint.
func NewGoogleProvider(apiKey, baseURL string, client *http.Client) *GoogleProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleProvider{apiKey: apiKey, baseURL: baseURL, client: client}
}

type googleResponse struct {
	Results      []Result `json:"results"`
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
}

// Reverse looks up addresses for a coordinate pair.
func (p *GoogleProvider) Reverse(ctx context.Context, lat, lng float64) ([]Result, error) {
	latlng := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
	return p.do(ctx, url.Values{"latlng": {latlng}})
}

// Search looks up addresses matching free text.
func (p *GoogleProvider) Search(ctx context.Context, query string) ([]Result, error) {
	return p.do(ctx, url.Values{"address": {query}})
}

func (p *GoogleProvider) do(ctx context.Context, params url.Values) ([]Result, error) {
	params.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: request to provider failed: %w", err)
	}
	defer resp.Body.Close()

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocode: failed to decode provider response (status %d): %w", resp.StatusCode, err)
	}

	switch body.Status {
	case statusOK:
		return body.Results, nil
	case statusZeroResults:
		return []Result{}, nil
	default:
		return nil, &UpstreamError{Status: body.Status, Message: body.ErrorMessage}
	}
}
