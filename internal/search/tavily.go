// Package search discovers local competitors through the Tavily search API.
// Guards from the original workflow apply: max_results is capped at 5 and
// search_depth stays "basic" so a single research run cannot burn credits.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avdeyev/localscout/internal/model"
)

const defaultBaseURL = "https://api.tavily.com"

// maxResultsGuard is the hard cap on results per query.
const maxResultsGuard = 5

// nonWebsiteDomains are URLs that are listings or review platforms, not
// scrapable business sites. Competitors behind these get the reviews
// fallback instead of a scrape.
var nonWebsiteDomains = []string{
	"facebook.com", "fb.com", "instagram.com", "linkedin.com",
	"yelp.com", "youtube.com", "tripadvisor.com",
	"google.com/maps", "maps.google.com", "goo.gl/maps",
	"bing.com/maps", "yellowpages.com", "angieslist.com",
	"homeadvisor.com", "nextdoor.com", "thumbtack.com",
}

// HasRealWebsite reports whether a URL points at a scrapable business site.
func HasRealWebsite(url string) bool {
	if len(url) < 10 {
		return false
	}
	lower := strings.ToLower(url)
	for _, domain := range nonWebsiteDomains {
		if strings.Contains(lower, domain) {
			return false
		}
	}
	return true
}

// Client is a Tavily search client.
type Client struct {
	apiKey      string
	baseURL     string
	searchDepth string
	httpClient  *http.Client
}

// NewClient creates a search client. An empty API key produces a client whose
// queries return no results, keeping provider failures non-fatal.
func NewClient(cfg model.SearchConfig) *Client {
	depth := cfg.SearchDepth
	if depth == "" {
		depth = "basic"
	}
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     defaultBaseURL,
		searchDepth: depth,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SetBaseURL overrides the API endpoint (tests).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimSuffix(url, "/")
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// FindCompetitors searches for local competitors of the given business type.
// Results are deduplicated by title. Failures return an empty list, never an
// error: search trouble must not abort a research run.
func (c *Client) FindCompetitors(ctx context.Context, businessType, city string, maxResults int) []model.Competitor {
	if maxResults <= 0 || maxResults > maxResultsGuard {
		maxResults = maxResultsGuard
	}

	query := businessType
	if city != "" {
		query = fmt.Sprintf("%s %s", businessType, city)
	}

	resp, err := c.search(ctx, query, maxResults)
	if err != nil {
		return nil
	}

	var competitors []model.Competitor
	seen := make(map[string]bool)
	for _, r := range resp.Results {
		name := strings.TrimSpace(r.Title)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		competitors = append(competitors, model.Competitor{
			Name:    name,
			URL:     strings.TrimSpace(r.URL),
			Snippet: strings.TrimSpace(r.Content),
		})
	}
	return competitors
}

// ReviewSnippets searches for review text about a competitor that has no
// scrapable website. Returns concatenated snippets; empty on any failure.
func (c *Client) ReviewSnippets(ctx context.Context, name, city, niche string) string {
	if niche == "" {
		niche = "local service"
	}
	query := fmt.Sprintf("%q %s reviews", name, niche)
	if city != "" {
		query = fmt.Sprintf("%q %s %s reviews", name, niche, city)
	}

	// Fallback path only: keep it to two results
	resp, err := c.search(ctx, query, 2)
	if err != nil {
		return ""
	}

	var parts []string
	for _, r := range resp.Results {
		if c := strings.TrimSpace(r.Content); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

func (c *Client) search(ctx context.Context, query string, maxResults int) (*searchResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("search API key not configured")
	}

	body, err := json.Marshal(searchRequest{
		APIKey:      c.apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: c.searchDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp searchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &resp, nil
}
