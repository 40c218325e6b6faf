// Package pipeline sequences the two stages: the Researcher gathers market
// text and writes one research record; the Strategist scores the record and
// writes content drafts. The stages never talk to each other; the store is
// the only coupling, and each stage can be re-run on its own.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avdeyev/localscout/internal/extract"
	"github.com/avdeyev/localscout/internal/model"
	"github.com/avdeyev/localscout/internal/scrape"
	"github.com/avdeyev/localscout/internal/search"
	"github.com/avdeyev/localscout/internal/strategy"
)

// Searcher finds competitors and review snippets for a market.
type Searcher interface {
	FindCompetitors(ctx context.Context, businessType, city string, maxResults int) []model.Competitor
	ReviewSnippets(ctx context.Context, name, city, niche string) string
}

// PageScraper turns a competitor URL into page text.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (*scrape.Page, error)
}

// Extractor turns raw market text into structured fields. It never fails;
// degradation is encoded in the extraction status.
type Extractor interface {
	Extract(ctx context.Context, rawText string, dctx extract.DomainContext) model.Extraction
}

// Drafter writes platform copy for a scored record.
type Drafter interface {
	Draft(ctx context.Context, client *model.Client, record *model.ResearchRecord, opp model.Opportunity) []model.ContentDraft
}

// Store is the slice of the relational store the pipeline needs.
type Store interface {
	GetClient(ctx context.Context, id string) (*model.Client, error)
	InsertResearchRecord(ctx context.Context, record *model.ResearchRecord) error
	LatestResearchRecord(ctx context.Context, clientID string) (*model.ResearchRecord, error)
	ResearchRecordByID(ctx context.Context, id string) (*model.ResearchRecord, error)
	InsertDraft(ctx context.Context, draft *model.ContentDraft) error
	AcquireRunLock(ctx context.Context, clientID string) error
	ReleaseRunLock(ctx context.Context, clientID string) error
}

// Pipeline orchestrates both stages over shared dependencies.
type Pipeline struct {
	store      Store
	searcher   Searcher
	scraper    PageScraper
	extractor  Extractor
	scorer     *strategy.Scorer
	drafter    Drafter
	maxResults int
	logger     *zap.Logger
}

// Deps carries the pipeline's collaborators. Zero-value loggers and a nil
// scorer get working defaults.
type Deps struct {
	Store      Store
	Searcher   Searcher
	Scraper    PageScraper
	Extractor  Extractor
	Scorer     *strategy.Scorer
	Drafter    Drafter
	MaxResults int
	Logger     *zap.Logger
}

// New creates a pipeline from explicit dependencies.
func New(deps Deps) *Pipeline {
	if deps.Scorer == nil {
		deps.Scorer = strategy.NewScorer()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.MaxResults <= 0 {
		deps.MaxResults = 5
	}
	return &Pipeline{
		store:      deps.Store,
		searcher:   deps.Searcher,
		scraper:    deps.Scraper,
		extractor:  deps.Extractor,
		scorer:     deps.Scorer,
		drafter:    deps.Drafter,
		maxResults: deps.MaxResults,
		logger:     deps.Logger,
	}
}

// RunResearcher performs one Researcher run: search, scrape, extract, and
// write exactly one research record. The record is written even when
// extraction fails, with the raw text intact.
func (p *Pipeline) RunResearcher(ctx context.Context, clientID, city string) (*model.ResearchRecord, error) {
	client, err := p.store.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("resolving client: %w", err)
	}

	if err := p.store.AcquireRunLock(ctx, client.ID); err != nil {
		return nil, err
	}
	defer func() { _ = p.store.ReleaseRunLock(context.WithoutCancel(ctx), client.ID) }()

	return p.research(ctx, client, city)
}

// RunStrategist performs one Strategist run against the given research
// record, or the client's latest when researchID is empty.
func (p *Pipeline) RunStrategist(ctx context.Context, clientID, researchID string) ([]model.ContentDraft, error) {
	client, err := p.store.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("resolving client: %w", err)
	}

	if err := p.store.AcquireRunLock(ctx, client.ID); err != nil {
		return nil, err
	}
	defer func() { _ = p.store.ReleaseRunLock(context.WithoutCancel(ctx), client.ID) }()

	return p.strategize(ctx, client, researchID)
}

// Run performs the full pipeline: researcher then strategist, with the fresh
// record's identifier propagated so the strategist never re-queries "latest".
func (p *Pipeline) Run(ctx context.Context, clientID, city string) (*model.ResearchRecord, []model.ContentDraft, error) {
	client, err := p.store.GetClient(ctx, clientID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving client: %w", err)
	}

	if err := p.store.AcquireRunLock(ctx, client.ID); err != nil {
		return nil, nil, err
	}
	defer func() { _ = p.store.ReleaseRunLock(context.WithoutCancel(ctx), client.ID) }()

	record, err := p.research(ctx, client, city)
	if err != nil {
		return nil, nil, err
	}

	drafts, err := p.strategize(ctx, client, record.ID)
	if err != nil {
		return record, nil, err
	}
	return record, drafts, nil
}

func (p *Pipeline) research(ctx context.Context, client *model.Client, city string) (*model.ResearchRecord, error) {
	if city == "" {
		city = client.City
	}
	if strings.TrimSpace(city) == "" {
		return nil, errors.New("no target city: pass --city or set one on the client")
	}

	log := p.logger.With(zap.String("client", client.ID), zap.String("city", city))
	log.Info("researcher starting", zap.String("category", client.Category))

	competitors := p.searcher.FindCompetitors(ctx, client.Category, city, p.maxResults)
	log.Info("competitors found", zap.Int("count", len(competitors)))

	var (
		parts       []string
		contributed int
	)
	for _, comp := range competitors {
		text := p.competitorText(ctx, comp, city, client.Category, log)
		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", comp.Name, text))
		contributed++
	}

	rawText := strings.Join(parts, "\n\n")
	if len(rawText) > model.MaxRawTextBytes {
		rawText = rawText[:model.MaxRawTextBytes]
	}

	extraction := p.extractor.Extract(ctx, rawText, extract.DomainContext{
		City:     city,
		Category: client.Category,
	})
	log.Info("extraction finished",
		zap.String("status", string(extraction.Status)),
		zap.String("backend", extraction.Backend),
		zap.Int("services", len(extraction.Services)),
		zap.Int("keywords", len(extraction.Keywords)))

	record := &model.ResearchRecord{
		ID:              uuid.New().String(),
		ClientID:        client.ID,
		City:            city,
		RawText:         rawText,
		Extraction:      extraction,
		CompetitorCount: contributed,
		CreatedAt:       time.Now().UTC(),
	}

	if err := p.store.InsertResearchRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("writing research record: %w", err)
	}
	log.Info("research record written", zap.String("record", record.ID))
	return record, nil
}

// competitorText gets text for one competitor: scrape its site when it has
// one, otherwise fall back to review snippets, then to the search snippet.
func (p *Pipeline) competitorText(ctx context.Context, comp model.Competitor, city, category string, log *zap.Logger) string {
	if search.HasRealWebsite(comp.URL) {
		page, err := p.scraper.Scrape(ctx, comp.URL)
		if err == nil {
			return page.Content
		}
		log.Debug("scrape failed, using reviews fallback",
			zap.String("competitor", comp.Name), zap.Error(err))
	}

	if reviews := p.searcher.ReviewSnippets(ctx, comp.Name, city, category); reviews != "" {
		return reviews
	}
	return comp.Snippet
}

func (p *Pipeline) strategize(ctx context.Context, client *model.Client, researchID string) ([]model.ContentDraft, error) {
	var (
		record *model.ResearchRecord
		err    error
	)
	if researchID != "" {
		record, err = p.store.ResearchRecordByID(ctx, researchID)
	} else {
		record, err = p.store.LatestResearchRecord(ctx, client.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading research record: %w", err)
	}

	log := p.logger.With(zap.String("client", client.ID), zap.String("record", record.ID))

	opp := p.scorer.Score(record)
	log.Info("opportunity scored",
		zap.Int("score", opp.Score),
		zap.Bool("baseline", opp.Baseline),
		zap.String("topic", opp.Topic))

	drafts := p.drafter.Draft(ctx, client, record, opp)
	for i := range drafts {
		if err := p.store.InsertDraft(ctx, &drafts[i]); err != nil {
			return nil, fmt.Errorf("writing draft: %w", err)
		}
		log.Info("draft written",
			zap.String("draft", drafts[i].ID),
			zap.String("platform", string(drafts[i].Platform)),
			zap.String("status", string(drafts[i].Status)))
	}
	return drafts, nil
}
