package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// defaultEndpoint is the Google Custom Search JSON API endpoint.
const defaultEndpoint = "https://www.googleapis.com/customsearch/v1"

// defaultResultCount is the number of results requested per query (the API
// maximum for one page).
const defaultResultCount = 10

// APIError is a structured error reported by the search provider itself
// (as opposed to a transport failure). Callers treat it as fatal for the
// whole operation — most commonly it signals an exhausted daily quota —
// while plain transport errors only skip the current query.
type APIError struct {
	StatusCode int    `json:"code"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("search api error %d (%s): %s", e.StatusCode, e.Status, e.Message)
}

// QuotaExceeded reports whether the error indicates an exhausted quota.
func (e *APIError) QuotaExceeded() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Status == "RESOURCE_EXHAUSTED"
}

// Client talks to the Google Custom Search JSON API. The zero value is not
// usable; construct with NewClient. The client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	engineID   string
}

// NewClient builds a search client for the given API key and search-engine
// ID. Either may be empty, in which case Configured reports false and every
// Search call fails fast.
func NewClient(apiKey, engineID string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
		engineID:   engineID,
	}
}

// WithEndpoint overrides the API endpoint. Used by tests.
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

// WithHTTPClient overrides the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

// Configured reports whether both credentials are present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != "" && c.engineID != ""
}

// searchResponse mirrors the subset of the API response we consume.
type searchResponse struct {
	Items []Item `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Search runs one query and returns its result items (possibly none).
//
// Error semantics follow the batch pipeline's needs:
//   - a structured provider error (error object in the body, or a non-2xx
//     status with a parseable error body) is returned as *APIError;
//   - anything else (network failure, timeout, unparseable non-2xx) is
//     returned as a plain error and is treated by callers as "zero results
//     for this query".
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("search client not configured")
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(defaultResultCount))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if jsonErr := json.Unmarshal(body, &parsed); jsonErr != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("search request failed with status %d", resp.StatusCode)
		}
		return nil, jsonErr
	}

	if parsed.Error != nil {
		return nil, &APIError{
			StatusCode: parsed.Error.Code,
			Status:     parsed.Error.Status,
			Message:    parsed.Error.Message,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed with status %d", resp.StatusCode)
	}
	return parsed.Items, nil
}
