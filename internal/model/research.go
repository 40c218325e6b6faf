package model

import "time"

// ExtractionStatus records how the text-to-fields step ended.
type ExtractionStatus string

const (
	ExtractionSucceeded ExtractionStatus = "succeeded" // A backend served the extraction
	ExtractionEmpty     ExtractionStatus = "empty"     // Input text was empty or near-empty
	ExtractionFailed    ExtractionStatus = "failed"    // No backend was reachable
)

// Extraction holds the structured fields pulled out of scraped market text.
// All four field slots are always present; they may be empty but never nil
// once produced by the extractor.
type Extraction struct {
	Services []string          `json:"services"`          // Services offered, deduplicated
	Pricing  map[string]string `json:"pricing"`           // Pricing signal label -> value ("junk removal" -> "$99 minimum")
	Gaps     []string          `json:"gaps"`              // Competitive gaps / missed opportunities
	Keywords []string          `json:"keywords"`          // Candidate keywords, relevance-ranked
	Status   ExtractionStatus  `json:"status"`
	Backend  string            `json:"backend,omitempty"` // Backend that served the extraction (ollama, openai)
}

// EmptyExtraction returns an extraction with all fields allocated and empty.
func EmptyExtraction(status ExtractionStatus) Extraction {
	return Extraction{
		Services: []string{},
		Pricing:  map[string]string{},
		Gaps:     []string{},
		Keywords: []string{},
		Status:   status,
	}
}

// ResearchRecord is one Researcher run's output for a client. Immutable once
// written; only the latest record per client is consulted downstream.
type ResearchRecord struct {
	ID              string     `json:"id"` // UUID
	ClientID        string     `json:"client_id"`
	City            string     `json:"city"`
	RawText         string     `json:"raw_text"` // Scraped text, capped at MaxRawTextBytes
	Extraction      Extraction `json:"extraction"`
	CompetitorCount int        `json:"competitor_count"` // Competitors that contributed text
	CreatedAt       time.Time  `json:"created_at"`
}

// MaxRawTextBytes caps stored raw text per record.
const MaxRawTextBytes = 10000
