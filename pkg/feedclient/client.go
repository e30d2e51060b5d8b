// Package feedclient consumes the feedfolio content API and keeps
// per-category delivery state for incremental rendering.
package feedclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/feedfolio/core/internal/models"
)

const defaultHTTPTimeout = 10 * time.Second

// ContentItem is the delivered item type, re-exported so importers outside
// this module can name what Page and CursorState carry.
type ContentItem = models.ContentItem

// Category is the canonical content category, re-exported for the same
// reason.
type Category = models.Category

// ListParams selects one page of the content feed.
type ListParams struct {
	Category string
	Tags     []string
	Limit    int
	Offset   int
}

// Page is one delivered page of the feed.
type Page struct {
	Posts  []ContentItem `json:"posts"`
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
	Type   string        `json:"type"`
}

// Counts is the per-category item tally.
type Counts struct {
	Counts map[Category]int `json:"counts"`
	Total  int              `json:"total"`
}

// Fetcher is the transport the controller drives. Client is the HTTP
// implementation; tests substitute their own.
type Fetcher interface {
	List(ctx context.Context, params ListParams) (Page, error)
	Counts(ctx context.Context) (Counts, error)
}

// Client talks to a feedfolio core server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given server base URL, e.g.
// "https://api.feedfolio.dev". A nil httpClient gets a default with a
// 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// List fetches one page of the feed.
func (c *Client) List(ctx context.Context, params ListParams) (Page, error) {
	q := url.Values{}
	if params.Category != "" {
		q.Set("type", params.Category)
	}
	if len(params.Tags) > 0 {
		q.Set("tags", strings.Join(params.Tags, ","))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}

	var page Page
	if err := c.getJSON(ctx, "/api/v2/content", q, &page); err != nil {
		return Page{}, err
	}
	if page.Posts == nil {
		page.Posts = []ContentItem{}
	}
	return page, nil
}

// Counts fetches the per-category item counts.
func (c *Client) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	if err := c.getJSON(ctx, "/api/v2/content/counts", nil, &counts); err != nil {
		return Counts{}, err
	}
	return counts, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feedclient: GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
