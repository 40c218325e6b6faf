package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/avdeyev/localscout/internal/model"
)

// OpenAIBackend implements the Backend interface for OpenAI hosted models
type OpenAIBackend struct {
	client *openai.Client
	config model.LLMConfig
}

// NewOpenAIBackend creates a new OpenAI backend. BaseURL overrides are
// supported for self-hosted OpenAI-compatible endpoints and tests.
func NewOpenAIBackend(cfg model.LLMConfig) *OpenAIBackend {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// NewOpenAIBackendWithBaseURL creates an OpenAI backend against a custom endpoint.
func NewOpenAIBackendWithBaseURL(cfg model.LLMConfig, baseURL string) *OpenAIBackend {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	clientConfig.BaseURL = baseURL
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// Name returns the backend name
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// IsAvailable checks if the backend is configured and the API answers.
// Listing models is the lightest authenticated call.
func (b *OpenAIBackend) IsAvailable(ctx context.Context) bool {
	if b.config.OpenAIAPIKey == "" {
		return false
	}
	_, err := b.client.ListModels(ctx)
	return err == nil
}

// Complete generates a completion using the Chat Completions API
func (b *OpenAIBackend) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = b.config.OpenAIModel
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = b.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1024
	}

	timeout := time.Duration(b.config.OpenAITimeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       modelName,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: 0.3, // Lower temperature for more focused, factual output
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := b.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return &CompletionResponse{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Backend:    b.Name(),
		Model:      modelName,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
