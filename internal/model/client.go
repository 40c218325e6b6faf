package model

import "time"

// Client represents a business the agency performs research and strategy for.
// Clients are created during onboarding (dashboard or `client add`) and are
// never mutated by the pipeline stages.
type Client struct {
	ID              string    `json:"id"`                         // Stable identifier, e.g. "junk-away-phoenix"
	BusinessName    string    `json:"business_name"`              // Display name
	City            string    `json:"city"`                       // Default target city/market, e.g. "Phoenix AZ"
	Category        string    `json:"category"`                   // Business vertical, e.g. "Junk Removal"
	WebsiteURL      string    `json:"website_url,omitempty"`      // Client's own site (may be empty)
	BrandTone       string    `json:"brand_tone,omitempty"`       // friendly, no-BS, premium, professional
	Differentiators []string  `json:"differentiators,omitempty"`  // Selling points to emphasize in drafts
	CreatedAt       time.Time `json:"created_at"`
}

// Competitor is a single search result for a client's market: a nearby
// business offering the same category of service.
type Competitor struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"` // Search-result content, used as a last-resort text source
}
