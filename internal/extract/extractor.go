// Package extract turns raw scraped market text into the structured research
// fields. Extraction never fails the caller: provider trouble degrades to an
// empty result with an explicit status so the research record is still
// written with its raw text intact.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avdeyev/localscout/internal/llm"
	"github.com/avdeyev/localscout/internal/model"
)

// minInputLen is the threshold below which input counts as empty.
const minInputLen = 30

// maxPromptBytes caps how much raw text is sent to a backend.
const maxPromptBytes = 4000

// Completer is the slice of llm.Chain the extractor needs.
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// DomainContext anchors an extraction to a client's market.
type DomainContext struct {
	City     string
	Category string
}

// Extractor produces structured extractions through a backend chain.
type Extractor struct {
	chain Completer
}

// NewExtractor creates an extractor over the given backend chain.
func NewExtractor(chain Completer) *Extractor {
	return &Extractor{chain: chain}
}

// extractionPayload is the JSON shape requested from backends. Pricing values
// arrive as strings or numbers depending on the model's mood.
type extractionPayload struct {
	Services []string                   `json:"services"`
	Pricing  map[string]json.RawMessage `json:"pricing"`
	Gaps     []string                   `json:"gaps"`
	Keywords []string                   `json:"keywords"`
}

// Extract turns raw text into structured fields. It never returns an error:
//   - empty or near-empty input -> status "empty"
//   - no backend reachable      -> status "failed"
//   - backend served            -> status "succeeded"
func (e *Extractor) Extract(ctx context.Context, rawText string, dctx DomainContext) model.Extraction {
	trimmed := strings.TrimSpace(rawText)
	if len(trimmed) < minInputLen {
		return model.EmptyExtraction(model.ExtractionEmpty)
	}

	resp, err := e.chain.Complete(ctx, llm.CompletionRequest{
		System:   "You are a factual market research analyst. Extract ONLY what is explicitly stated. Do not guess, invent services, or assume pricing.",
		Prompt:   BuildPrompt(trimmed, dctx),
		JSONMode: true,
	})
	if err != nil {
		return model.EmptyExtraction(model.ExtractionFailed)
	}

	result := parsePayload(resp.Text)
	result.Backend = resp.Backend

	// A served but garbled completion still counts as a run: keep the
	// heuristic keyword pass so the record is not a total blank.
	if len(result.Keywords) == 0 {
		result.Keywords = Keywords(trimmed, dctx.City)
	}
	return result
}

// BuildPrompt constructs the extraction prompt for a text block.
func BuildPrompt(text string, dctx DomainContext) string {
	if len(text) > maxPromptBytes {
		text = text[:maxPromptBytes]
	}

	category := dctx.Category
	if category == "" {
		category = "local service"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following text about %s businesses", category)
	if dctx.City != "" {
		fmt.Fprintf(&b, " in %s", dctx.City)
	}
	b.WriteString(".\n\n")
	b.WriteString(`Respond with a single JSON object, no prose, with exactly these keys:
{
  "services": ["services explicitly offered"],
  "pricing": {"service or label": "price or pricing note explicitly stated"},
  "gaps": ["weaknesses, complaints, or services nobody offers"],
  "keywords": ["search phrases a customer would type, most relevant first, 2-5 words each"]
}

Rules:
- Extract ONLY what the text explicitly states. Do not guess.
- Use empty arrays/objects for anything the text does not mention.

TEXT:
"""
`)
	b.WriteString(text)
	b.WriteString("\n\"\"\"\n")
	return b.String()
}

// parsePayload decodes a backend response into an extraction. Unparseable
// output degrades to an empty-but-succeeded extraction.
func parsePayload(text string) model.Extraction {
	result := model.EmptyExtraction(model.ExtractionSucceeded)

	var payload extractionPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return result
	}

	result.Services = dedupeStrings(payload.Services)
	result.Gaps = dedupeStrings(payload.Gaps)
	for _, kw := range dedupeStrings(payload.Keywords) {
		kw = strings.ToLower(kw)
		if IsValidKeyword(kw) {
			result.Keywords = append(result.Keywords, kw)
		}
	}

	for label, raw := range payload.Pricing {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		result.Pricing[label] = pricingValue(raw)
	}

	return result
}

// pricingValue renders a pricing JSON value (string or number) as text.
func pricingValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%g", n)
	}
	return strings.Trim(string(raw), `"`)
}

// dedupeStrings trims, drops empties, and removes duplicates preserving order.
func dedupeStrings(items []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
