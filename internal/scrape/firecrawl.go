package scrape

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

const firecrawlBaseURL = "https://api.firecrawl.dev"

// Firecrawl scrapes business websites through the hosted Firecrawl API.
type Firecrawl struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewFirecrawl creates a Firecrawl source.
func NewFirecrawl(cfg model.ScrapeConfig) *Firecrawl {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Firecrawl{
		apiKey:  cfg.FirecrawlAPIKey,
		baseURL: firecrawlBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetBaseURL overrides the API endpoint (tests).
func (f *Firecrawl) SetBaseURL(url string) {
	f.baseURL = strings.TrimSuffix(url, "/")
}

// Name returns the source name.
func (f *Firecrawl) Name() string {
	return "firecrawl"
}

type firecrawlRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type firecrawlResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			Title string `json:"title"`
		} `json:"metadata"`
	} `json:"data"`
}

// Scrape fetches a single page as markdown.
func (f *Firecrawl) Scrape(ctx context.Context, url string) (*Page, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("firecrawl API key not configured")
	}

	body, err := json.Marshal(firecrawlRequest{
		URL:             url,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (%d)", httpResp.StatusCode)
	}

	var resp firecrawlResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	markdown := strings.TrimSpace(resp.Data.Markdown)
	if markdown == "" {
		return nil, fmt.Errorf("empty scrape result")
	}

	return &Page{
		URL:     url,
		Title:   resp.Data.Metadata.Title,
		Content: markdown,
		Source:  f.Name(),
	}, nil
}
