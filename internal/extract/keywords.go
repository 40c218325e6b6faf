package extract

import (
	"sort"
	"strings"
)

// serviceTerms mark a phrase as describing a service rather than filler.
var serviceTerms = []string{
	"removal", "pickup", "haul", "hauling", "cleanout", "clean-out",
	"disposal", "dispose", "recycling", "demolition", "junk",
	"repair", "installation", "cleaning", "maintenance", "landscaping",
	"moving", "delivery", "inspection",
}

// bannedTerms disqualify a keyword candidate: praise, branding, and general
// business vocabulary that nobody searches for.
var bannedTerms = []string{
	"best", "great", "friendly", "welcome", "trusted", "quality",
	"professional team", "customer service", "our team", "about us",
	"contact", "copyright", "privacy", "terms",
}

// IsValidKeyword reports whether a candidate looks like a real search phrase:
// 2-5 words describing a service (optionally with a location), no praise or
// branding vocabulary.
func IsValidKeyword(kw string) bool {
	kw = strings.TrimSpace(strings.ToLower(kw))
	if kw == "" || strings.HasPrefix(kw, "#") {
		return false
	}
	words := strings.Fields(kw)
	if len(words) < 2 || len(words) > 5 {
		return false
	}
	for _, banned := range bannedTerms {
		if strings.Contains(kw, banned) {
			return false
		}
	}
	return true
}

// Keywords extracts candidate search phrases from raw text without a model:
// 2-4 word windows around a service term, ranked by frequency, with a
// city-suffixed variant for the top phrases. Used to backfill the keyword
// field when a backend returns none.
func Keywords(text string, city string) []string {
	words := tokenize(text)
	counts := make(map[string]int)
	order := make(map[string]int)

	for i := range words {
		if !isServiceTerm(words[i]) {
			continue
		}
		// Windows ending at or spanning the service term
		for _, window := range [][2]int{{i - 1, i + 1}, {i - 2, i + 1}, {i - 1, i + 2}} {
			lo, hi := window[0], window[1]
			if lo < 0 || hi > len(words) {
				continue
			}
			phrase := strings.Join(words[lo:hi], " ")
			if !IsValidKeyword(phrase) {
				continue
			}
			if _, ok := counts[phrase]; !ok {
				order[phrase] = len(order)
			}
			counts[phrase]++
		}
	}

	phrases := make([]string, 0, len(counts))
	for p := range counts {
		phrases = append(phrases, p)
	}
	// Frequency-ranked, first-seen breaking ties
	sort.Slice(phrases, func(a, b int) bool {
		if counts[phrases[a]] != counts[phrases[b]] {
			return counts[phrases[a]] > counts[phrases[b]]
		}
		return order[phrases[a]] < order[phrases[b]]
	})

	const maxKeywords = 10
	if len(phrases) > maxKeywords {
		phrases = phrases[:maxKeywords]
	}

	// Geo variants for the strongest phrases
	if city != "" {
		cityLower := strings.ToLower(strings.TrimSpace(city))
		geo := []string{}
		for i, p := range phrases {
			if i >= 3 {
				break
			}
			variant := p + " " + cityLower
			if IsValidKeyword(variant) && !contains(phrases, variant) {
				geo = append(geo, variant)
			}
		}
		phrases = append(phrases, geo...)
	}

	return phrases
}

func isServiceTerm(word string) bool {
	for _, term := range serviceTerms {
		if word == term {
			return true
		}
	}
	return false
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// tokenize lowercases and splits text into bare words.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-')
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
