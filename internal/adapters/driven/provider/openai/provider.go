// Package openai provides embedding and completion adapters backed by
// the OpenAI API via github.com/sashabaranov/go-openai.
package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driven"
)

// Ensure Provider implements both service interfaces.
var (
	_ driven.EmbeddingService  = (*Provider)(nil)
	_ driven.CompletionService = (*Provider)(nil)
)

// Default configuration values.
const (
	DefaultEmbedModel = "text-embedding-3-small"
	DefaultChatModel  = "gpt-4o-mini"

	// DefaultRequestsPerSecond caps embedding calls to stay inside API
	// rate limits during bulk ingestion.
	DefaultRequestsPerSecond = 5
)

// Config holds configuration for the OpenAI provider.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API endpoint, for Azure or compatible APIs.
	BaseURL string

	// EmbedModel is the embedding model (default: text-embedding-3-small).
	EmbedModel string

	// ChatModel is the completion model (default: gpt-4o-mini).
	ChatModel string

	// RequestsPerSecond limits embedding request rate (default: 5).
	RequestsPerSecond int
}

// Provider generates embeddings and completions using the OpenAI API.
type Provider struct {
	client     *openai.Client
	embedModel string
	chatModel  string
	limiter    *rate.Limiter
}

// NewProvider creates a new OpenAI provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w: API key not set", domain.ErrProviderUnavailable)
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client:     openai.NewClientWithConfig(clientCfg),
		embedModel: cfg.EmbedModel,
		chatModel:  cfg.ChatModel,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond),
	}, nil
}

// EmbedBatch generates one embedding per input text, in input order.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.embedModel),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai: got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	// Order by index, not response position
	embeddings := make([][]float32, len(texts))
	for _, data := range resp.Data {
		embeddings[data.Index] = data.Embedding
	}

	return embeddings, nil
}

// Complete answers a user prompt under a system prompt.
func (p *Provider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the embedding model in use.
func (p *Provider) ModelName() string {
	return p.embedModel
}

// ChatModelName returns the chat model in use.
func (p *Provider) ChatModelName() string {
	return p.chatModel
}
