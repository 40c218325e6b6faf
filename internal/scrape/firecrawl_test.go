package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avdeyev/localscout/internal/model"
)

func TestFirecrawlScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scrape" {
			t.Errorf("Expected path /v1/scrape, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %q", auth)
		}

		var req firecrawlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if len(req.Formats) != 1 || req.Formats[0] != "markdown" {
			t.Errorf("Expected markdown format, got %v", req.Formats)
		}
		if !req.OnlyMainContent {
			t.Error("Expected onlyMainContent to be set")
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"markdown": "# Smile Dental\n\nCleanings from $120.",
				"metadata": map[string]any{"title": "Smile Dental"},
			},
		})
	}))
	defer server.Close()

	fc := NewFirecrawl(model.ScrapeConfig{FirecrawlAPIKey: "test-key"})
	fc.SetBaseURL(server.URL)

	page, err := fc.Scrape(context.Background(), "https://smiledental.example.com")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}

	if page.Title != "Smile Dental" {
		t.Errorf("Expected title 'Smile Dental', got %q", page.Title)
	}
	if page.Content == "" {
		t.Error("Expected markdown content")
	}
	if page.Source != "firecrawl" {
		t.Errorf("Expected source firecrawl, got %q", page.Source)
	}
}

func TestFirecrawlNoAPIKey(t *testing.T) {
	fc := NewFirecrawl(model.ScrapeConfig{})

	_, err := fc.Scrape(context.Background(), "https://example.com")
	if err == nil {
		t.Error("Expected error without API key")
	}
}

func TestFirecrawlEmptyMarkdown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"markdown": "   "},
		})
	}))
	defer server.Close()

	fc := NewFirecrawl(model.ScrapeConfig{FirecrawlAPIKey: "test-key"})
	fc.SetBaseURL(server.URL)

	if _, err := fc.Scrape(context.Background(), "https://example.com"); err == nil {
		t.Error("Expected error for empty markdown")
	}
}

func TestFirecrawlAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	fc := NewFirecrawl(model.ScrapeConfig{FirecrawlAPIKey: "test-key"})
	fc.SetBaseURL(server.URL)

	if _, err := fc.Scrape(context.Background(), "https://example.com"); err == nil {
		t.Error("Expected error for non-200 status")
	}
}
