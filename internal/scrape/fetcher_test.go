package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avdeyev/localscout/internal/model"
)

const samplePage = `<html>
<head><title>Bright Smiles Dental</title><style>body { color: red }</style></head>
<body>
<script>trackVisit();</script>
<h1>Bright Smiles Dental</h1>
<p>Family dentistry in Springfield. Cleanings, whitening, and same-day crowns.</p>
</body>
</html>`

func TestFetcherScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "localscout") {
			t.Errorf("Expected localscout user agent, got %q", ua)
		}
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	fetcher := NewFetcher(model.ScrapeConfig{
		UserAgent:      "localscout/0.1 test",
		RequestsPerSec: 100,
		Timeout:        5 * time.Second,
	})

	page, err := fetcher.Scrape(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}

	if page.Title != "Bright Smiles Dental" {
		t.Errorf("Expected title from <title>, got %q", page.Title)
	}
	if !strings.Contains(page.Content, "same-day crowns") {
		t.Errorf("Expected visible text in content, got %q", page.Content)
	}
	if strings.Contains(page.Content, "trackVisit") {
		t.Error("Script content leaked into visible text")
	}
	if strings.Contains(page.Content, "color: red") {
		t.Error("Style content leaked into visible text")
	}
	if page.Source != "fetch" {
		t.Errorf("Expected source fetch, got %q", page.Source)
	}
}

func TestFetcherRespectsRobots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	fetcher := NewFetcher(model.ScrapeConfig{
		UserAgent:      "localscout/0.1 test",
		RequestsPerSec: 100,
		Timeout:        5 * time.Second,
	})

	if _, err := fetcher.Scrape(context.Background(), server.URL+"/private/pricing"); err == nil {
		t.Error("Expected robots.txt to block the fetch")
	}

	if _, err := fetcher.Scrape(context.Background(), server.URL+"/about"); err != nil {
		t.Errorf("Allowed path should fetch, got %v", err)
	}
}

func TestFetcherBodyCap(t *testing.T) {
	big := "<html><body><p>" + strings.Repeat("dental services in town ", 50_000) + "</p></body></html>"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(big))
	}))
	defer server.Close()

	fetcher := NewFetcher(model.ScrapeConfig{
		UserAgent:      "localscout/0.1 test",
		RequestsPerSec: 100,
		MaxBodyBytes:   10_000,
		Timeout:        5 * time.Second,
	})

	page, err := fetcher.Scrape(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}

	if len(page.Content) > 10_000 {
		t.Errorf("Expected content capped near 10000 bytes, got %d", len(page.Content))
	}
}

func TestFetcherErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewFetcher(model.ScrapeConfig{
		UserAgent:      "localscout/0.1 test",
		RequestsPerSec: 100,
		Timeout:        5 * time.Second,
	})

	if _, err := fetcher.Scrape(context.Background(), server.URL+"/"); err == nil {
		t.Error("Expected error for 503 response")
	}
}

func TestVisibleText(t *testing.T) {
	text, err := VisibleText(samplePage)
	if err != nil {
		t.Fatalf("VisibleText failed: %v", err)
	}

	if !strings.Contains(text, "Family dentistry in Springfield") {
		t.Errorf("Expected paragraph text, got %q", text)
	}
	if strings.Contains(text, "trackVisit") || strings.Contains(text, "color: red") {
		t.Errorf("Non-content elements leaked: %q", text)
	}
}
