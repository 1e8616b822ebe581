// Package serp is a client for the SerpAPI Google engine, used to read the
// local-pack section for a location-qualified service query.
package serp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://serpapi.com/search"

// Client performs SerpAPI local-pack queries.
type Client interface {
	// LocalPack returns the local-pack entries for query, capped at 3.
	// A successful search with no local-pack section returns an empty
	// slice and no error.
	LocalPack(ctx context.Context, query string) ([]Entry, error)
}

// Entry is one local-pack listing.
type Entry struct {
	Rank        int      `json:"rank"`
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Address     *string  `json:"address,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a SerpAPI client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type searchResponse struct {
	LocalResults []struct {
		Title   string   `json:"title"`
		Rating  *float64 `json:"rating"`
		Reviews *int     `json:"reviews"`
		Address *string  `json:"address"`
	} `json:"local_results"`
}

func (c *httpClient) LocalPack(ctx context.Context, query string) ([]Entry, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("engine", "google")
	params.Set("location", "United States")
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serp: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "serp: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "serp: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("serp: unexpected status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "serp: decode response")
	}

	entries := make([]Entry, 0, 3)
	for i, r := range out.LocalResults {
		if i >= 3 {
			break
		}
		entries = append(entries, Entry{
			Rank:        i + 1,
			Name:        r.Title,
			Rating:      r.Rating,
			ReviewCount: r.Reviews,
			Address:     r.Address,
		})
	}
	return entries, nil
}
