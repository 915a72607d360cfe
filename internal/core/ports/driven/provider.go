package driven

import "context"

// EmbeddingService turns text into vectors. The core treats it as an
// opaque external Provider: requests carry plain strings and responses
// carry plain vectors. A nil service means embeddings are unavailable
// and operations that need them fail with domain.ErrProviderUnavailable.
type EmbeddingService interface {
	// EmbedBatch generates one embedding per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the embedding model in use.
	ModelName() string
}

// CompletionService produces natural-language answers. Same contract as
// EmbeddingService: plain strings in, plain strings out, no fallback
// when unconfigured.
type CompletionService interface {
	// Complete answers a user prompt under a system prompt.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// ChatModelName returns the chat model in use.
	ChatModelName() string
}
