package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avdeyev/localscout/internal/model"
)

// OllamaBackend implements the Backend interface for Ollama local models
type OllamaBackend struct {
	baseURL    string
	httpClient *http.Client
	config     model.LLMConfig
}

// Ollama API structures
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Format  string        `json:"format,omitempty"` // "json" enables strict JSON mode
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`

	// Token counts (only present when done=true)
	PromptEvalCount int `json:"prompt_eval_count,omitempty"`
	EvalCount       int `json:"eval_count,omitempty"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaBackend creates a new Ollama backend
func NewOllamaBackend(cfg model.LLMConfig) *OllamaBackend {
	baseURL := cfg.OllamaBaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(cfg.OllamaTimeout) * time.Second
	if timeout == 0 {
		timeout = 45 * time.Second // local models are slower; fail fast beyond this
	}

	return &OllamaBackend{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
	}
}

// Name returns the backend name
func (b *OllamaBackend) Name() string {
	return "ollama"
}

// IsAvailable checks if Ollama is running by listing installed models
func (b *OllamaBackend) IsAvailable(ctx context.Context) bool {
	url := fmt.Sprintf("%s/api/tags", b.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Complete generates a completion using Ollama's generate API
func (b *OllamaBackend) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = b.config.OllamaModel
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = b.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1024
	}

	apiReq := ollamaRequest{
		Model:  modelName,
		Prompt: req.Prompt,
		Stream: false, // Get complete response at once
		System: req.System,
		Options: ollamaOptions{
			Temperature: 0.3,
			NumPredict:  maxTokens,
		},
	}
	if req.JSONMode {
		apiReq.Format = "json"
	}

	resp, err := b.makeRequest(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	text := stripCodeFences(strings.TrimSpace(resp.Response))

	// Ollama reports counts when done; estimate when it omits them
	tokensUsed := resp.PromptEvalCount + resp.EvalCount
	if tokensUsed == 0 {
		tokensUsed = (len(req.Prompt) + len(text)) / 4
	}

	return &CompletionResponse{
		Text:       text,
		Backend:    b.Name(),
		Model:      resp.Model,
		TokensUsed: tokensUsed,
	}, nil
}

// makeRequest makes an HTTP request to the Ollama API
func (b *OllamaBackend) makeRequest(ctx context.Context, apiReq ollamaRequest) (*ollamaResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", b.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}

// stripCodeFences removes a surrounding markdown code fence, which local
// models emit even in JSON mode.
func stripCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
