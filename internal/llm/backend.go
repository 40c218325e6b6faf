// Package llm provides text-completion backends behind a common interface.
// Backends form an ordered chain: local Ollama first, hosted OpenAI as
// fallback. Availability is probed per call; there is no health cache.
package llm

import (
	"context"
	"errors"

	"github.com/avdeyev/localscout/internal/model"
)

// ErrNoBackend means no configured backend could serve a completion.
var ErrNoBackend = errors.New("no llm backend available")

// CompletionRequest is a single prompt for any backend.
type CompletionRequest struct {
	Prompt    string
	System    string
	Model     string // Empty uses the backend's configured model
	MaxTokens int
	JSONMode  bool // Ask the backend for a JSON object response
}

// CompletionResponse is a backend's answer.
type CompletionResponse struct {
	Text       string
	Backend    string // Which backend served it
	Model      string
	TokensUsed int
}

// Backend is one text-completion provider.
type Backend interface {
	// Name identifies the backend in records and logs.
	Name() string
	// Complete runs one prompt to completion.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// IsAvailable probes reachability. Called before every Complete.
	IsAvailable(ctx context.Context) bool
}

// NewBackends builds the ordered backend list from configuration: Ollama
// when a base URL is set, then OpenAI when an API key is set. Either or both
// may be absent.
func NewBackends(cfg model.LLMConfig) []Backend {
	var backends []Backend
	if cfg.OllamaBaseURL != "" {
		backends = append(backends, NewOllamaBackend(cfg))
	}
	if cfg.OpenAIAPIKey != "" {
		backends = append(backends, NewOpenAIBackend(cfg))
	}
	return backends
}
