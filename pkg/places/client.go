// Package places is a client for the Google Places web service endpoints
// used by the audit pipeline: Text Search for directory resolution and Place
// Details for review data.
package places

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Client performs Google Places API operations.
type Client interface {
	TextSearch(ctx context.Context, query string) ([]Place, error)
	Details(ctx context.Context, placeID string) (*PlaceDetails, error)
}

// Place is one Text Search result.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Website          string   `json:"website,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
}

// PlaceDetails is the subset of Place Details the audit consumes.
type PlaceDetails struct {
	Phone          *string  `json:"formatted_phone_number,omitempty"`
	Website        *string  `json:"website,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	TotalReviews   *int     `json:"user_ratings_total,omitempty"`
	LastReviewDate *string  `json:"last_review_date,omitempty"`
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

// NewClient creates a Google Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type textSearchResponse struct {
	Status  string  `json:"status"`
	Results []Place `json:"results"`
}

func (c *httpClient) TextSearch(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)

	var out textSearchResponse
	if err := c.get(ctx, "/textsearch/json", params, &out); err != nil {
		return nil, err
	}
	if out.Status != "OK" && out.Status != "ZERO_RESULTS" {
		return nil, eris.Errorf("places: textsearch status %s", out.Status)
	}
	return out.Results, nil
}

type detailsResponse struct {
	Status string `json:"status"`
	Result *struct {
		Phone            *string  `json:"formatted_phone_number"`
		Website          *string  `json:"website"`
		Rating           *float64 `json:"rating"`
		UserRatingsTotal *int     `json:"user_ratings_total"`
		Reviews          []struct {
			Time int64 `json:"time"`
		} `json:"reviews"`
	} `json:"result"`
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,formatted_address,formatted_phone_number,website,rating,user_ratings_total,reviews")
	params.Set("key", c.apiKey)

	var out detailsResponse
	if err := c.get(ctx, "/details/json", params, &out); err != nil {
		return nil, err
	}
	if out.Status != "OK" || out.Result == nil {
		return nil, eris.Errorf("places: details status %s", out.Status)
	}

	details := &PlaceDetails{
		Phone:        out.Result.Phone,
		Website:      out.Result.Website,
		Rating:       out.Result.Rating,
		TotalReviews: out.Result.UserRatingsTotal,
	}
	if last := lastReviewDate(out.Result.Reviews); last != "" {
		details.LastReviewDate = &last
	}
	return details, nil
}

// lastReviewDate returns the most recent review timestamp as UTC ISO 8601.
func lastReviewDate(reviews []struct {
	Time int64 `json:"time"`
}) string {
	if len(reviews) == 0 {
		return ""
	}
	times := make([]int64, 0, len(reviews))
	for _, r := range reviews {
		if r.Time > 0 {
			times = append(times, r.Time)
		}
	}
	if len(times) == 0 {
		return ""
	}
	sort.Slice(times, func(i, j int) bool { return times[i] > times[j] })
	return time.Unix(times[0], 0).UTC().Format("2006-01-02T15:04:05Z")
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "places: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "places: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "places: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("places: unexpected status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "places: decode response")
	}
	return nil
}
