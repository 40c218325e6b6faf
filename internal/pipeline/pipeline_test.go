package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/avdeyev/localscout/internal/extract"
	"github.com/avdeyev/localscout/internal/model"
	"github.com/avdeyev/localscout/internal/scrape"
	"github.com/avdeyev/localscout/internal/store"
	"github.com/avdeyev/localscout/internal/strategy"
)

type fakeStore struct {
	clients  map[string]*model.Client
	records  []*model.ResearchRecord
	drafts   []*model.ContentDraft
	locked   map[string]bool
	byIDHits int
}

func newFakeStore() *fakeStore {
	client := &model.Client{
		ID:           "junk-away-phoenix",
		BusinessName: "Junk Away",
		City:         "Phoenix",
		Category:     "junk removal",
		BrandTone:    "friendly",
	}
	return &fakeStore{
		clients: map[string]*model.Client{client.ID: client},
		locked:  make(map[string]bool),
	}
}

func (s *fakeStore) GetClient(ctx context.Context, id string) (*model.Client, error) {
	client, ok := s.clients[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("client: %w", store.ErrNotFound)
	}
	return client, nil
}

func (s *fakeStore) InsertResearchRecord(ctx context.Context, record *model.ResearchRecord) error {
	s.records = append(s.records, record)
	return nil
}

func (s *fakeStore) LatestResearchRecord(ctx context.Context, clientID string) (*model.ResearchRecord, error) {
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].ClientID == clientID {
			return s.records[i], nil
		}
	}
	return nil, fmt.Errorf("research record: %w", store.ErrNotFound)
}

func (s *fakeStore) ResearchRecordByID(ctx context.Context, id string) (*model.ResearchRecord, error) {
	s.byIDHits++
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("research record: %w", store.ErrNotFound)
}

func (s *fakeStore) InsertDraft(ctx context.Context, draft *model.ContentDraft) error {
	s.drafts = append(s.drafts, draft)
	return nil
}

func (s *fakeStore) AcquireRunLock(ctx context.Context, clientID string) error {
	if s.locked[clientID] {
		return fmt.Errorf("client %s: %w", clientID, store.ErrRunLocked)
	}
	s.locked[clientID] = true
	return nil
}

func (s *fakeStore) ReleaseRunLock(ctx context.Context, clientID string) error {
	s.locked[clientID] = false
	return nil
}

type fakeSearcher struct {
	competitors []model.Competitor
	reviews     string
	reviewCalls int
}

func (s *fakeSearcher) FindCompetitors(ctx context.Context, businessType, city string, maxResults int) []model.Competitor {
	return s.competitors
}

func (s *fakeSearcher) ReviewSnippets(ctx context.Context, name, city, niche string) string {
	s.reviewCalls++
	return s.reviews
}

type fakeScraper struct {
	pages map[string]string
	calls int
}

func (s *fakeScraper) Scrape(ctx context.Context, url string) (*scrape.Page, error) {
	s.calls++
	content, ok := s.pages[url]
	if !ok {
		return nil, errors.New("scrape failed")
	}
	return &scrape.Page{URL: url, Content: content, Source: "fetch"}, nil
}

type fakeExtractor struct {
	extraction model.Extraction
	lastInput  string
}

func (e *fakeExtractor) Extract(ctx context.Context, rawText string, dctx extract.DomainContext) model.Extraction {
	e.lastInput = rawText
	return e.extraction
}

func succeededExtraction() model.Extraction {
	ext := model.EmptyExtraction(model.ExtractionSucceeded)
	ext.Services = []string{"junk removal"}
	ext.Gaps = []string{"no online booking"}
	ext.Keywords = []string{"same day junk removal phoenix"}
	ext.Backend = "ollama"
	return ext
}

func newTestPipeline(st *fakeStore, searcher *fakeSearcher, scraper *fakeScraper, extractor *fakeExtractor) *Pipeline {
	return New(Deps{
		Store:     st,
		Searcher:  searcher,
		Scraper:   scraper,
		Extractor: extractor,
		Drafter:   strategy.NewDrafter(nil, 0),
	})
}

func marketFixture() (*fakeSearcher, *fakeScraper) {
	searcher := &fakeSearcher{
		competitors: []model.Competitor{
			{Name: "Haul Brothers", URL: "https://haulbrothers.example.com"},
			{Name: "Phoenix Junk Co", URL: "https://phoenixjunk.example.com"},
		},
	}
	scraper := &fakeScraper{pages: map[string]string{
		"https://haulbrothers.example.com": "Junk removal from $99. No online booking offered.",
		"https://phoenixjunk.example.com":  "Full-service cleanouts for homes and offices.",
	}}
	return searcher, scraper
}

func TestRunResearcherWritesOneRecord(t *testing.T) {
	st := newFakeStore()
	searcher, scraper := marketFixture()
	extractor := &fakeExtractor{extraction: succeededExtraction()}

	p := newTestPipeline(st, searcher, scraper, extractor)

	record, err := p.RunResearcher(context.Background(), "junk-away-phoenix", "Phoenix")
	if err != nil {
		t.Fatalf("RunResearcher failed: %v", err)
	}

	if len(st.records) != 1 {
		t.Fatalf("Expected exactly one record written, got %d", len(st.records))
	}
	if record.CompetitorCount != 2 {
		t.Errorf("Expected 2 contributing competitors, got %d", record.CompetitorCount)
	}
	if !strings.Contains(record.RawText, "Haul Brothers") {
		t.Errorf("Expected competitor names in raw text, got %q", record.RawText)
	}
	if record.Extraction.Status != model.ExtractionSucceeded {
		t.Errorf("Expected succeeded extraction, got %q", record.Extraction.Status)
	}
	if st.locked["junk-away-phoenix"] {
		t.Error("Run lock must be released after the run")
	}
}

func TestRunResearcherWritesRecordOnFailedExtraction(t *testing.T) {
	st := newFakeStore()
	searcher, scraper := marketFixture()
	extractor := &fakeExtractor{extraction: model.EmptyExtraction(model.ExtractionFailed)}

	p := newTestPipeline(st, searcher, scraper, extractor)

	record, err := p.RunResearcher(context.Background(), "junk-away-phoenix", "Phoenix")
	if err != nil {
		t.Fatalf("RunResearcher failed: %v", err)
	}

	if record.Extraction.Status != model.ExtractionFailed {
		t.Errorf("Expected failed status, got %q", record.Extraction.Status)
	}
	if record.RawText == "" {
		t.Error("Raw text must survive a failed extraction")
	}
	if len(st.records) != 1 {
		t.Errorf("Record must be written even when extraction fails, got %d", len(st.records))
	}
}

func TestRunResearcherIdempotentFields(t *testing.T) {
	st := newFakeStore()
	searcher, scraper := marketFixture()
	extractor := &fakeExtractor{extraction: succeededExtraction()}

	p := newTestPipeline(st, searcher, scraper, extractor)

	first, err := p.RunResearcher(context.Background(), "junk-away-phoenix", "Phoenix")
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := p.RunResearcher(context.Background(), "junk-away-phoenix", "Phoenix")
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if first.ID == second.ID {
		t.Error("Each run must write a new record")
	}
	if !reflect.DeepEqual(first.Extraction, second.Extraction) {
		t.Error("Same input must produce identical structured fields")
	}
}

func TestResearcherReviewsFallback(t *testing.T) {
	st := newFakeStore()
	searcher := &fakeSearcher{
		competitors: []model.Competitor{
			{Name: "Yelp Only Hauling", URL: "https://www.yelp.com/biz/yelp-only-hauling", Snippet: "listing snippet"},
		},
		reviews: "Great same-day service, fair prices, friendly crew.",
	}
	scraper := &fakeScraper{pages: map[string]string{}}
	extractor := &fakeExtractor{extraction: succeededExtraction()}

	p := newTestPipeline(st, searcher, scraper, extractor)

	record, err := p.RunResearcher(context.Background(), "junk-away-phoenix", "Phoenix")
	if err != nil {
		t.Fatalf("RunResearcher failed: %v", err)
	}

	if scraper.calls != 0 {
		t.Error("Listing-only competitors must not be scraped")
	}
	if searcher.reviewCalls != 1 {
		t.Errorf("Expected one reviews lookup, got %d", searcher.reviewCalls)
	}
	if !strings.Contains(record.RawText, "same-day service") {
		t.Errorf("Expected review text in raw text, got %q", record.RawText)
	}
}

func TestResearcherMissingClient(t *testing.T) {
	st := newFakeStore()
	searcher, scraper := marketFixture()
	p := newTestPipeline(st, searcher, scraper, &fakeExtractor{})

	_, err := p.RunResearcher(context.Background(), "nobody", "Phoenix")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestResearcherNoCity(t *testing.T) {
	st := newFakeStore()
	st.clients["junk-away-phoenix"].City = ""
	searcher, scraper := marketFixture()
	p := newTestPipeline(st, searcher, scraper, &fakeExtractor{})

	if _, err := p.RunResearcher(context.Background(), "junk-away-phoenix", ""); err == nil {
		t.Error("Expected error when no city is available")
	}
}

func TestResearcherLocked(t *testing.T) {
	st := newFakeStore()
	st.locked["junk-away-phoenix"] = true
	searcher, scraper := marketFixture()
	p := newTestPipeline(st, searcher, scraper, &fakeExtractor{})

	_, err := p.RunResearcher(context.Background(), "junk-away-phoenix", "Phoenix")
	if !errors.Is(err, store.ErrRunLocked) {
		t.Errorf("Expected ErrRunLocked, got %v", err)
	}
}

func TestRunStrategistUsesLatest(t *testing.T) {
	st := newFakeStore()
	st.records = append(st.records, &model.ResearchRecord{
		ID:         "rec-1",
		ClientID:   "junk-away-phoenix",
		City:       "Phoenix",
		Extraction: succeededExtraction(),
	})

	p := newTestPipeline(st, &fakeSearcher{}, &fakeScraper{}, &fakeExtractor{})

	drafts, err := p.RunStrategist(context.Background(), "junk-away-phoenix", "")
	if err != nil {
		t.Fatalf("RunStrategist failed: %v", err)
	}

	if len(drafts) != 2 {
		t.Fatalf("Expected 2 drafts, got %d", len(drafts))
	}
	if len(st.drafts) != 2 {
		t.Fatalf("Expected 2 drafts persisted, got %d", len(st.drafts))
	}
	for _, d := range drafts {
		if d.ResearchID != "rec-1" {
			t.Errorf("Draft must link to its research record, got %q", d.ResearchID)
		}
		if d.Score == 0 {
			t.Error("Draft must carry the opportunity score")
		}
	}
}

func TestRunStrategistNoRecords(t *testing.T) {
	st := newFakeStore()
	p := newTestPipeline(st, &fakeSearcher{}, &fakeScraper{}, &fakeExtractor{})

	_, err := p.RunStrategist(context.Background(), "junk-away-phoenix", "")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFullRunPropagatesRecordID(t *testing.T) {
	st := newFakeStore()
	searcher, scraper := marketFixture()
	extractor := &fakeExtractor{extraction: succeededExtraction()}

	p := newTestPipeline(st, searcher, scraper, extractor)

	record, drafts, err := p.Run(context.Background(), "junk-away-phoenix", "Phoenix")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if st.byIDHits == 0 {
		t.Error("Strategist must load the fresh record by identifier, not latest")
	}
	for _, d := range drafts {
		if d.ResearchID != record.ID {
			t.Errorf("Draft linked to %q, expected fresh record %q", d.ResearchID, record.ID)
		}
	}
	if st.locked["junk-away-phoenix"] {
		t.Error("Run lock must be released after the full run")
	}
}

func TestRawTextCapped(t *testing.T) {
	st := newFakeStore()
	searcher := &fakeSearcher{
		competitors: []model.Competitor{{Name: "Verbose Co", URL: "https://verbose.example.com"}},
	}
	scraper := &fakeScraper{pages: map[string]string{
		"https://verbose.example.com": strings.Repeat("junk removal services. ", 2000),
	}}
	extractor := &fakeExtractor{extraction: succeededExtraction()}

	p := newTestPipeline(st, searcher, scraper, extractor)

	record, err := p.RunResearcher(context.Background(), "junk-away-phoenix", "Phoenix")
	if err != nil {
		t.Fatalf("RunResearcher failed: %v", err)
	}

	if len(record.RawText) > model.MaxRawTextBytes {
		t.Errorf("Raw text must be capped at %d bytes, got %d", model.MaxRawTextBytes, len(record.RawText))
	}
}
