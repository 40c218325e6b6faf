package pipeline

import (
	"go.uber.org/zap"

	"github.com/avdeyev/localscout/internal/cache"
	"github.com/avdeyev/localscout/internal/extract"
	"github.com/avdeyev/localscout/internal/llm"
	"github.com/avdeyev/localscout/internal/model"
	"github.com/avdeyev/localscout/internal/scrape"
	"github.com/avdeyev/localscout/internal/search"
	"github.com/avdeyev/localscout/internal/strategy"
)

// NewFromConfig wires the full pipeline from runtime configuration: Tavily
// search, the Firecrawl-then-direct scrape chain with the layered page
// cache, the Ollama-then-OpenAI backend chain, and the store.
func NewFromConfig(cfg *model.Config, st Store, logger *zap.Logger) *Pipeline {
	var pageCache cache.Cache
	if cfg.Cache.Enabled {
		pageCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	var sources []scrape.Source
	if cfg.Scrape.FirecrawlAPIKey != "" {
		sources = append(sources, scrape.NewFirecrawl(cfg.Scrape))
	}
	sources = append(sources, scrape.NewFetcher(cfg.Scrape))

	chain := llm.NewChain(llm.NewBackends(cfg.LLM)...)

	return New(Deps{
		Store:      st,
		Searcher:   search.NewClient(cfg.Search),
		Scraper:    scrape.NewScraper(pageCache, cfg.Cache.TTL, sources...),
		Extractor:  extract.NewExtractor(chain),
		Scorer:     strategy.NewScorer(),
		Drafter:    strategy.NewDrafter(chain, cfg.LLM.MaxTokens),
		MaxResults: cfg.Search.MaxResults,
		Logger:     logger,
	})
}
