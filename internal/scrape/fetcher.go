package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/avdeyev/localscout/internal/model"
)

// Fetcher is the direct-fetch fallback source: plain HTTP GET with robots.txt
// compliance, per-domain rate limiting, a body size cap, and HTML-to-text
// extraction.
type Fetcher struct {
	httpClient *http.Client
	robots     *RobotsChecker
	limiter    *Limiter
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a direct-fetch source.
func NewFetcher(cfg model.ScrapeConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    NewRobotsChecker(cfg.UserAgent, timeout),
		limiter:   NewLimiter(rps, 2),
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
	}
}

// Name returns the source name.
func (f *Fetcher) Name() string {
	return "fetch"
}

// Scrape retrieves a page directly and reduces it to visible text.
func (f *Fetcher) Scrape(ctx context.Context, rawURL string) (*Page, error) {
	if !f.robots.IsAllowed(ctx, rawURL) {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}
	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	title := extractTitle(body)
	text, err := VisibleText(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return &Page{
		URL:     resp.Request.URL.String(),
		Title:   title,
		Content: text,
		Source:  f.Name(),
	}, nil
}

// extractTitle pulls <title>, falling back to the first <h1>.
func extractTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
