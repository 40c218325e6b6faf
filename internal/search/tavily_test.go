package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avdeyev/localscout/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewClient(model.SearchConfig{APIKey: "test-key", MaxResults: 5, SearchDepth: "basic"})
	client.SetBaseURL(server.URL)
	return client, server
}

func TestFindCompetitors_DedupesAndGuards(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("Expected path /search, got %s", r.URL.Path)
		}

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.MaxResults > maxResultsGuard {
			t.Errorf("max_results guard breached: %d", req.MaxResults)
		}
		if req.SearchDepth != "basic" {
			t.Errorf("Expected basic search depth, got %s", req.SearchDepth)
		}
		if req.Query != "Junk Removal Phoenix AZ" {
			t.Errorf("Unexpected query: %s", req.Query)
		}

		_ = json.NewEncoder(w).Encode(searchResponse{
			Results: []struct {
				Title   string `json:"title"`
				URL     string `json:"url"`
				Content string `json:"content"`
			}{
				{Title: "Junk King Phoenix", URL: "https://junkking.example.com", Content: "Full service junk removal"},
				{Title: "Junk King Phoenix", URL: "https://junkking.example.com/dup", Content: "dup"},
				{Title: "", URL: "https://nameless.example.com"},
				{Title: "Valley Haulers", URL: "https://valleyhaulers.example.com"},
			},
		})
	})
	defer server.Close()

	competitors := client.FindCompetitors(context.Background(), "Junk Removal", "Phoenix AZ", 50)

	if len(competitors) != 2 {
		t.Fatalf("Expected 2 competitors after dedup, got %d: %v", len(competitors), competitors)
	}
	if competitors[0].Name != "Junk King Phoenix" || competitors[1].Name != "Valley Haulers" {
		t.Errorf("Unexpected competitors: %v", competitors)
	}
}

func TestFindCompetitors_FailuresReturnEmpty(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	if got := client.FindCompetitors(context.Background(), "Junk Removal", "Phoenix AZ", 5); len(got) != 0 {
		t.Errorf("Expected no competitors on API error, got %v", got)
	}

	// No API key configured at all
	noKey := NewClient(model.SearchConfig{})
	if got := noKey.FindCompetitors(context.Background(), "Junk Removal", "Phoenix AZ", 5); len(got) != 0 {
		t.Errorf("Expected no competitors without API key, got %v", got)
	}
}

func TestReviewSnippets_Concatenates(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.MaxResults != 2 {
			t.Errorf("Reviews fallback must request 2 results, got %d", req.MaxResults)
		}

		_ = json.NewEncoder(w).Encode(searchResponse{
			Results: []struct {
				Title   string `json:"title"`
				URL     string `json:"url"`
				Content string `json:"content"`
			}{
				{Title: "Review 1", Content: "They haul anything."},
				{Title: "Review 2", Content: "Showed up same day."},
			},
		})
	})
	defer server.Close()

	text := client.ReviewSnippets(context.Background(), "Valley Haulers", "Phoenix AZ", "Junk Removal")
	if text != "They haul anything. Showed up same day." {
		t.Errorf("Unexpected review text: %q", text)
	}
}

func TestHasRealWebsite(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://junkking.example.com", true},
		{"https://www.facebook.com/junkking", false},
		{"https://www.yelp.com/biz/junk-king", false},
		{"https://maps.google.com/place/x", false},
		{"http://x", false}, // too short to be real
	}

	for _, tt := range tests {
		if got := HasRealWebsite(tt.url); got != tt.want {
			t.Errorf("HasRealWebsite(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
