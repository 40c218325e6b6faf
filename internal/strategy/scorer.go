// Package strategy turns a research record into a scored opportunity and
// drafted content. Scoring is a pure function of the record; drafting uses
// the backend chain when reachable and a deterministic template otherwise.
package strategy

import (
	"fmt"

	"github.com/avdeyev/localscout/internal/model"
)

// baselineScore is the floor for records whose extraction came back empty.
const baselineScore = 10

// Scorer computes the opportunity score with a transparent signal breakdown
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes the opportunity score for a research record. Same record in,
// same score out: no clock, no randomness, no store reads.
func (s *Scorer) Score(record *model.ResearchRecord) model.Opportunity {
	ext := record.Extraction

	if len(ext.Services) == 0 && len(ext.Pricing) == 0 && len(ext.Gaps) == 0 && len(ext.Keywords) == 0 {
		return model.Opportunity{
			Score:    baselineScore,
			Baseline: true,
			Topic:    "local services",
			Signals: []model.Signal{{
				Name:        "baseline",
				Points:      baselineScore,
				Description: "No extracted fields; floor score applied",
			}},
		}
	}

	var signals []model.Signal

	// 1. Field completeness (0-40 points)
	completeness, completenessSignal := s.scoreCompleteness(ext)
	signals = append(signals, completenessSignal)

	// 2. Competitive gaps (0-25 points)
	gaps, gapsSignal := s.scoreGaps(ext)
	signals = append(signals, gapsSignal)

	// 3. Keyword volume (0-20 points)
	keywords, keywordsSignal := s.scoreKeywords(ext)
	signals = append(signals, keywordsSignal)

	// 4. Pricing signals (0-15 points)
	pricing, pricingSignal := s.scorePricing(ext)
	signals = append(signals, pricingSignal)

	total := completeness + gaps + keywords + pricing
	if total > 100 {
		total = 100
	}
	if total < baselineScore {
		total = baselineScore
	}

	return model.Opportunity{
		Score:   total,
		Topic:   pickTopic(ext),
		Signals: signals,
	}
}

// scoreCompleteness awards 10 points per populated field (0-40)
func (s *Scorer) scoreCompleteness(ext model.Extraction) (int, model.Signal) {
	populated := 0
	if len(ext.Services) > 0 {
		populated++
	}
	if len(ext.Pricing) > 0 {
		populated++
	}
	if len(ext.Gaps) > 0 {
		populated++
	}
	if len(ext.Keywords) > 0 {
		populated++
	}

	score := populated * 10

	return score, model.Signal{
		Name:        "field_completeness",
		Points:      score,
		Description: fmt.Sprintf("%d of 4 extraction fields populated", populated),
	}
}

// scoreGaps awards 8 points per competitive gap, capped at 25
func (s *Scorer) scoreGaps(ext model.Extraction) (int, model.Signal) {
	score := len(ext.Gaps) * 8
	if score > 25 {
		score = 25
	}

	return score, model.Signal{
		Name:        "competitive_gaps",
		Points:      score,
		Description: fmt.Sprintf("%d competitor gaps found", len(ext.Gaps)),
	}
}

// scoreKeywords awards 4 points per candidate keyword, capped at 20
func (s *Scorer) scoreKeywords(ext model.Extraction) (int, model.Signal) {
	score := len(ext.Keywords) * 4
	if score > 20 {
		score = 20
	}

	return score, model.Signal{
		Name:        "keyword_volume",
		Points:      score,
		Description: fmt.Sprintf("%d candidate keywords", len(ext.Keywords)),
	}
}

// scorePricing awards 5 points per pricing signal, capped at 15
func (s *Scorer) scorePricing(ext model.Extraction) (int, model.Signal) {
	score := len(ext.Pricing) * 5
	if score > 15 {
		score = 15
	}

	return score, model.Signal{
		Name:        "pricing_signals",
		Points:      score,
		Description: fmt.Sprintf("%d pricing signals observed", len(ext.Pricing)),
	}
}

// pickTopic chooses the drafting focus: first service, then first gap,
// then first keyword.
func pickTopic(ext model.Extraction) string {
	if len(ext.Services) > 0 {
		return ext.Services[0]
	}
	if len(ext.Gaps) > 0 {
		return ext.Gaps[0]
	}
	if len(ext.Keywords) > 0 {
		return ext.Keywords[0]
	}
	return "local services"
}
