package model

import "time"

// DraftStatus is the human-review state of a content draft. The pipeline
// writes pending (or failed, when QC rejects the copy); the review dashboard
// flips drafts to approved or rejected.
type DraftStatus string

const (
	DraftPending  DraftStatus = "pending"
	DraftApproved DraftStatus = "approved"
	DraftRejected DraftStatus = "rejected"
	DraftFailed   DraftStatus = "failed" // Auto-flagged by QC: too short or no geo reference
)

// DraftPlatform is where a piece of drafted content is meant to be published.
type DraftPlatform string

const (
	PlatformGoogleBusiness DraftPlatform = "google_business"
	PlatformFacebook       DraftPlatform = "facebook"
)

// ContentDraft is one Strategist output: a scored, drafted content
// recommendation tied to the research record it was derived from.
type ContentDraft struct {
	ID         string        `json:"id"` // UUID
	ClientID   string        `json:"client_id"`
	ResearchID string        `json:"research_id,omitempty"` // Source research record (may be empty for baseline drafts)
	Topic      string        `json:"topic"`                 // Focus service or gap
	Platform   DraftPlatform `json:"platform"`
	Title      string        `json:"title"`
	Body       string        `json:"body"`
	Notes      string        `json:"notes,omitempty"` // Differentiation notes referencing extracted gaps
	Score      int           `json:"score"`           // Opportunity score carried from the Strategist
	WordCount  int           `json:"word_count"`
	Status     DraftStatus   `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Signal is one transparent component of an opportunity score.
type Signal struct {
	Name        string `json:"name"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// Opportunity is the Strategist's scoring verdict for a research record.
type Opportunity struct {
	Score    int      `json:"score"`    // 0-100
	Baseline bool     `json:"baseline"` // True when extraction was empty and only the floor score applies
	Topic    string   `json:"topic"`    // Focus service/gap chosen for drafting
	Signals  []Signal `json:"signals"`
}
