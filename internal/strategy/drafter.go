package strategy

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avdeyev/localscout/internal/llm"
	"github.com/avdeyev/localscout/internal/model"
)

// brandToneInstructions maps a client's declared voice onto concrete writing
// rules for the copy prompt.
var brandToneInstructions = map[string]string{
	"friendly":     "Write in a warm, approachable, conversational way. Use contractions, simple words, and a welcoming tone as if talking to a neighbor.",
	"no-BS":        "Write in a direct, straightforward, no-fluff style. Be concise, honest, and punchy. Skip hype and filler; lead with value.",
	"premium":      "Write in an elevated, polished tone. Emphasize quality, expertise, and premium service. Avoid casual slang; use refined language.",
	"professional": "Write in a clear, competent, business-appropriate tone. Balanced and trustworthy, neither stuffy nor casual.",
}

const (
	// minDraftChars is the QC floor: shorter drafts are written as failed.
	minDraftChars = 50
	// minSectionWords is the threshold below which chain output counts as
	// insufficient and the template takes over.
	minSectionWords = 20

	labelGoogleBusiness = "Google Business Profile"
	labelFacebook       = "Facebook"
)

// Completer is the slice of the backend chain the drafter needs.
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// Drafter writes platform copy from a scored research record. A nil chain is
// allowed; every draft then comes from the deterministic template.
type Drafter struct {
	chain     Completer
	maxTokens int
}

// NewDrafter creates a drafter over the given backend chain.
func NewDrafter(chain Completer, maxTokens int) *Drafter {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Drafter{chain: chain, maxTokens: maxTokens}
}

// Draft produces one Google Business post and one Facebook post for the
// opportunity. It never fails: when the backend chain is unreachable or its
// output is insufficient, the copy falls back to a deterministic template.
func (d *Drafter) Draft(ctx context.Context, client *model.Client, record *model.ResearchRecord, opp model.Opportunity) []model.ContentDraft {
	city := record.City
	if city == "" {
		city = client.City
	}

	gbp, fb := d.generateCopy(ctx, client, record, opp, city)

	if countWords(gbp) < minSectionWords {
		gbp = gbpTemplate(client, record.Extraction, opp.Topic, city)
	}
	if countWords(fb) < minSectionWords {
		fb = fbTemplate(client, opp.Topic, city)
	}

	notes := differentiationNotes(client, record.Extraction)
	now := time.Now().UTC()

	drafts := []model.ContentDraft{
		{
			ID:         uuid.New().String(),
			ClientID:   client.ID,
			ResearchID: record.ID,
			Topic:      opp.Topic,
			Platform:   model.PlatformGoogleBusiness,
			Title:      draftTitle(opp.Topic, city),
			Body:       gbp,
			Notes:      notes,
			Score:      opp.Score,
			WordCount:  countWords(gbp),
			Status:     qcStatus(gbp, city),
			CreatedAt:  now,
		},
		{
			ID:         uuid.New().String(),
			ClientID:   client.ID,
			ResearchID: record.ID,
			Topic:      opp.Topic,
			Platform:   model.PlatformFacebook,
			Title:      draftTitle(opp.Topic, city),
			Body:       fb,
			Notes:      notes,
			Score:      opp.Score,
			WordCount:  countWords(fb),
			Status:     qcStatus(fb, city),
			CreatedAt:  now,
		},
	}

	return drafts
}

// generateCopy asks the backend chain for both posts. Empty strings signal
// that the template should take over.
func (d *Drafter) generateCopy(ctx context.Context, client *model.Client, record *model.ResearchRecord, opp model.Opportunity, city string) (string, string) {
	if d.chain == nil {
		return "", ""
	}

	resp, err := d.chain.Complete(ctx, llm.CompletionRequest{
		Prompt:    buildCopyPrompt(client, record, opp, city),
		MaxTokens: d.maxTokens,
	})
	if err != nil || resp == nil {
		return "", ""
	}

	gbp := extractSection(resp.Text, labelGoogleBusiness)
	fb := extractSection(resp.Text, labelFacebook)
	return gbp, fb
}

// buildCopyPrompt assembles the copywriting prompt: research summary, focus
// topic, brand voice, differentiators, and the city requirement.
func buildCopyPrompt(client *model.Client, record *model.ResearchRecord, opp model.Opportunity, city string) string {
	ext := record.Extraction

	var summary strings.Builder
	fmt.Fprintf(&summary, "services=%s\n", strings.Join(ext.Services, ", "))
	if len(ext.Pricing) > 0 {
		var pairs []string
		for label, value := range ext.Pricing {
			pairs = append(pairs, label+": "+value)
		}
		fmt.Fprintf(&summary, "pricing=%s\n", strings.Join(pairs, "; "))
	}
	fmt.Fprintf(&summary, "gaps=%s\n", strings.Join(ext.Gaps, ", "))
	fmt.Fprintf(&summary, "keywords=%s\n", strings.Join(ext.Keywords, ", "))

	cityInstruction := ""
	if city != "" {
		cityInstruction = fmt.Sprintf(" MUST mention %s by name (for local SEO).", city)
	}

	tone := strings.ToLower(strings.TrimSpace(client.BrandTone))
	toneInstruction, ok := brandToneInstructions[tone]
	if !ok {
		tone = "friendly"
		toneInstruction = brandToneInstructions["friendly"]
	}

	differentiators := client.Differentiators
	if len(differentiators) == 0 {
		differentiators = []string{"reliable", "local", "transparent"}
	}

	return fmt.Sprintf(`You are a marketing copywriter for a local %s business.

Research on competitors in the area:
%s
Focus on ONE underserved service or gap: %s

Write exactly 2 posts:%s
1. **Google Business Profile**: 150-300 words, local SEO friendly, include a clear CTA
2. **Facebook**: 80-150 words, engaging, shareable

**BRAND VOICE (follow strictly)**: %s
%s

Differentiators to emphasize: %s

Format your response as:
## Google Business Profile
[your post here]

## Facebook
[your post here]
`, client.BusinessName, summary.String(), opp.Topic, cityInstruction, tone, toneInstruction, strings.Join(differentiators, ", "))
}

// extractSection pulls one labelled post out of the chain output, tolerating
// heading, bold, and plain label formats.
func extractSection(text, label string) string {
	quoted := regexp.QuoteMeta(label)
	patterns := []string{
		`(?is)##\s*` + quoted + `[^\n]*\n(.*?)(?:##|$)`,
		`(?is)\*\*` + quoted + `[^\n]*\*\*\s*\n(.*?)(?:\*\*|$)`,
		`(?is)` + quoted + `:\s*\n?(.*?)(?:\n\n|$)`,
	}
	for _, p := range patterns {
		re := regexp.MustCompile(p)
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// gbpTemplate is the deterministic Google Business fallback. It references
// the extracted gaps and the target city so it passes its own QC.
func gbpTemplate(client *model.Client, ext model.Extraction, topic, city string) string {
	var b strings.Builder

	where := ""
	if city != "" {
		where = " in " + city
	}
	fmt.Fprintf(&b, "Looking for %s%s? %s has you covered.", topic, where, client.BusinessName)

	if len(ext.Gaps) > 0 {
		fmt.Fprintf(&b, " While other providers around here fall short on %s, we make it a priority.", strings.Join(ext.Gaps, " and "))
	}
	if len(client.Differentiators) > 0 {
		fmt.Fprintf(&b, " What sets us apart: %s.", strings.Join(client.Differentiators, ", "))
	}
	if city != "" {
		fmt.Fprintf(&b, " We are proud to serve %s and the surrounding area.", city)
	}
	b.WriteString(" Call today for a free quote, or book online in under a minute.")

	return b.String()
}

// fbTemplate is the deterministic Facebook fallback: shorter and more casual.
func fbTemplate(client *model.Client, topic, city string) string {
	where := ""
	if city != "" {
		where = " right here in " + city
	}
	return fmt.Sprintf("Need %s%s? %s is local, fast, and upfront about pricing. Send us a message or give us a call and we will take it from there.",
		topic, where, client.BusinessName)
}

// differentiationNotes builds the human-readable angle summary stored beside
// each draft.
func differentiationNotes(client *model.Client, ext model.Extraction) string {
	if len(ext.Gaps) == 0 {
		return "No competitor gaps extracted; lead with the client differentiators."
	}
	note := "Competitor gaps to press: " + strings.Join(ext.Gaps, "; ") + "."
	if len(client.Differentiators) > 0 {
		note += " Pair with: " + strings.Join(client.Differentiators, ", ") + "."
	}
	return note
}

// draftTitle names the draft for the review dashboard.
func draftTitle(topic, city string) string {
	if city == "" {
		return topic
	}
	return topic + " in " + city
}

// qcStatus applies the post-generation checks: a draft under the length
// floor, or with no reference to the target city, is written as failed.
func qcStatus(body, city string) model.DraftStatus {
	if len(strings.TrimSpace(body)) < minDraftChars {
		return model.DraftFailed
	}
	if city != "" && !strings.Contains(strings.ToLower(body), strings.ToLower(city)) {
		return model.DraftFailed
	}
	return model.DraftPending
}

// countWords reports whitespace-separated word count.
func countWords(s string) int {
	return len(strings.Fields(s))
}
