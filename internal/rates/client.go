// Package rates provides a client for fetching currency exchange rates
// from a frankfurter-compatible API.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public frankfurter endpoint.
	DefaultBaseURL = "https://api.frankfurter.dev/v1"

	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("rates: rate limited")
	// ErrUnavailable indicates the API returned a server error.
	ErrUnavailable = errors.New("rates: service unavailable")
)

// Client fetches exchange rates over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given API base URL.
// An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// Latest fetches current rates for base and returns them inverted, so
// each entry is the base-currency value of one unit of that currency.
// symbols limits the response when non-empty.
func (c *Client) Latest(ctx context.Context, base string, symbols []string) (*Table, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return nil, errors.New("rates: base currency required")
	}

	q := url.Values{}
	q.Set("base", base)
	if len(symbols) > 0 {
		q.Set("symbols", strings.Join(symbols, ","))
	}

	body, err := c.get(ctx, "/latest?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var raw latestResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("rates: parsing response: %w", err)
	}

	table := &Table{
		Base:      base,
		Date:      raw.Date,
		Rates:     make(map[string]float64, len(raw.Rates)),
		FetchedAt: time.Now(),
	}
	for code, perBase := range raw.Rates {
		if perBase <= 0 {
			continue
		}
		table.Rates[strings.ToUpper(code)] = 1 / perBase
	}
	return table, nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("rates: creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/mbh206/aifinacker/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, ErrUnavailable
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("rates: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("rates: reading response: %w", err)
	}
	return body, nil
}
