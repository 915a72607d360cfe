// Command manualmind is the CLI entry point. It loads configuration,
// opens the SQLite store, wires the configured provider into the core
// services and hands control to the cobra command surface.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/oceanic-labs/manualmind/internal/adapters/driven/config/file"
	"github.com/oceanic-labs/manualmind/internal/adapters/driven/provider/ollama"
	"github.com/oceanic-labs/manualmind/internal/adapters/driven/provider/openai"
	"github.com/oceanic-labs/manualmind/internal/adapters/driven/storage/sqlite"
	"github.com/oceanic-labs/manualmind/internal/adapters/driving/cli"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driven"
	"github.com/oceanic-labs/manualmind/internal/core/services"
	"github.com/oceanic-labs/manualmind/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for OPENAI_API_KEY and friends.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("Loading .env: %v", err)
	}

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	embedder, completer := buildProvider(cfg)

	ingest := services.NewIngestService(
		store.DocumentStore(), store.ChunkStore(), store.TopicStore(), store.AuditLog(), embedder)
	ask := services.NewAskService(store.ChunkStore(), embedder, completer)
	gap := services.NewGapService(store.ChunkStore(), embedder, completer)
	conflicts := services.NewConflictService(
		store.ConflictStore(), store.ChunkStore(), store.ApprovalStore(), store.AuditLog())

	return cli.Execute(cli.Dependencies{
		Ingest:    ingest,
		Ask:       ask,
		Gap:       gap,
		Conflicts: conflicts,
		Documents: store.DocumentStore(),
		Chunks:    store.ChunkStore(),
		Topics:    store.TopicStore(),
	})
}

// buildProvider selects the embedding/completion provider from config.
// provider.kind: "openai" (default when an API key is present), "ollama",
// or "none". Nil services are valid; operations needing them fail with
// a provider-unavailable error.
func buildProvider(cfg driven.ConfigStore) (driven.EmbeddingService, driven.CompletionService) {
	kind := cfg.GetString("provider.kind")
	apiKey := cfg.GetString("provider.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if kind == "" {
		if apiKey != "" {
			kind = "openai"
		} else {
			kind = "none"
		}
	}

	switch kind {
	case "openai":
		p, err := openai.NewProvider(openai.Config{
			APIKey:            apiKey,
			BaseURL:           cfg.GetString("provider.base_url"),
			EmbedModel:        cfg.GetString("provider.embed_model"),
			ChatModel:         cfg.GetString("provider.chat_model"),
			RequestsPerSecond: cfg.GetInt("provider.requests_per_second"),
		})
		if err != nil {
			logger.Warn("OpenAI provider unavailable: %v", err)
			return nil, nil
		}
		return p, p

	case "ollama":
		p := ollama.NewProvider(ollama.Config{
			BaseURL:    cfg.GetString("provider.base_url"),
			EmbedModel: cfg.GetString("provider.embed_model"),
			ChatModel:  cfg.GetString("provider.chat_model"),
		})
		return p, p

	default:
		return nil, nil
	}
}
