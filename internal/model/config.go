package model

import "time"

// Config is the full runtime configuration. Values come from defaults,
// then the config file, then environment variables, then flags.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
	Cache    CacheConfig    `yaml:"cache"`
	LLM      LLMConfig      `yaml:"llm"`
	Logs     LogsConfig     `yaml:"logs"`
}

// DatabaseConfig locates the SQLite store.
type DatabaseConfig struct {
	Path string `yaml:"path"` // File path; the driver creates it on first open
}

// SearchConfig configures the competitor-discovery provider.
type SearchConfig struct {
	APIKey      string `yaml:"api_key,omitempty"` // TAVILY_API_KEY
	MaxResults  int    `yaml:"max_results"`       // Hard guard, never exceeded
	SearchDepth string `yaml:"search_depth"`      // "basic" only; "advanced" burns credits
}

// ScrapeConfig configures the scraping chain: hosted API first, direct
// fetch fallback.
type ScrapeConfig struct {
	FirecrawlAPIKey string        `yaml:"firecrawl_api_key,omitempty"` // FIRECRAWL_API_KEY; empty disables the hosted scraper
	Timeout         time.Duration `yaml:"timeout"`
	UserAgent       string        `yaml:"user_agent"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	RequestsPerSec  float64       `yaml:"requests_per_sec"` // Per-domain rate limit for direct fetches
}

// CacheConfig configures the scraped-page cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// LLMConfig configures the extraction backend chain: local first, remote
// fallback. Either half may be left unconfigured.
type LLMConfig struct {
	OllamaBaseURL string `yaml:"ollama_base_url"`
	OllamaModel   string `yaml:"ollama_model"`
	OllamaTimeout int    `yaml:"ollama_timeout"` // seconds

	OpenAIAPIKey  string `yaml:"openai_api_key,omitempty"` // OPENAI_API_KEY
	OpenAIModel   string `yaml:"openai_model"`
	OpenAITimeout int    `yaml:"openai_timeout"` // seconds

	MaxTokens int `yaml:"max_tokens"`
}

// LogsConfig locates per-stage log files.
type LogsConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults. Provider API keys are left empty;
// whichever backend is actually exercised validates its own key.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "./localscout.db",
		},
		Search: SearchConfig{
			MaxResults:  5,
			SearchDepth: "basic",
		},
		Scrape: ScrapeConfig{
			Timeout:        30 * time.Second,
			UserAgent:      "localscout/0.1 (+https://github.com/avdeyev/localscout)",
			MaxBodyBytes:   2_000_000,
			RequestsPerSec: 1,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".localscout-cache",
			TTL:     24 * time.Hour,
		},
		LLM: LLMConfig{
			OllamaBaseURL: "http://localhost:11434",
			OllamaModel:   "llama3.1:8b",
			OllamaTimeout: 45,
			OpenAIModel:   "gpt-4o-mini",
			OpenAITimeout: 30,
			MaxTokens:     1024,
		},
		Logs: LogsConfig{
			Dir: "logs",
		},
	}
}
