// Package scrape turns competitor URLs into text. Sources form an ordered
// chain: the hosted scraping API first (when configured), then a direct
// polite fetch. Listing and review platforms are never scraped.
package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avdeyev/localscout/internal/cache"
	"github.com/avdeyev/localscout/internal/search"
)

// Page is the scrape output contract shared by all sources.
type Page struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"` // Markdown or plain text
	Source  string `json:"source"`  // Which source produced it
}

// Source is a single way of turning a URL into a Page.
type Source interface {
	Name() string
	Scrape(ctx context.Context, url string) (*Page, error)
}

// ErrUnsupportedURL marks listing/review URLs that must not be scraped.
var ErrUnsupportedURL = errors.New("unsupported url")

// minContentLen is the threshold below which a scrape counts as empty.
const minContentLen = 50

// Scraper runs the source chain with an optional page cache in front.
type Scraper struct {
	sources  []Source
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewScraper creates a scraper over the given sources, tried in order.
// A nil cache disables caching.
func NewScraper(pageCache cache.Cache, cacheTTL time.Duration, sources ...Source) *Scraper {
	return &Scraper{
		sources:  sources,
		cache:    pageCache,
		cacheTTL: cacheTTL,
	}
}

// Scrape fetches a page through the first source that serves it. Cached
// pages are returned without touching any source so re-runs are cheap.
func (s *Scraper) Scrape(ctx context.Context, url string) (*Page, error) {
	if !search.HasRealWebsite(url) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, url)
	}

	if s.cache != nil {
		if data, found := s.cache.Get(cache.Key(url)); found {
			var page Page
			if err := json.Unmarshal(data, &page); err == nil {
				return &page, nil
			}
		}
	}

	var lastErr error
	for _, source := range s.sources {
		page, err := source.Scrape(ctx, url)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", source.Name(), err)
			continue
		}
		if len(page.Content) < minContentLen {
			lastErr = fmt.Errorf("%s: empty scrape result", source.Name())
			continue
		}

		if s.cache != nil {
			if data, err := json.Marshal(page); err == nil {
				_ = s.cache.Set(cache.Key(url), data, s.cacheTTL)
			}
		}
		return page, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no scrape sources configured")
	}
	return nil, lastErr
}
