package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driven"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driving"
	"github.com/oceanic-labs/manualmind/internal/logger"
	"github.com/oceanic-labs/manualmind/internal/tagging"
	"github.com/oceanic-labs/manualmind/internal/textproc"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// embedBatchSize is how many chunk bodies go to the Provider per call.
const embedBatchSize = 16

// IngestService turns manual text files into stored, tagged, embedded
// chunks. Re-ingesting a manual replaces its document row and full
// chunk set (delete-then-insert), which keeps chunk ids stable for
// unchanged source text.
type IngestService struct {
	docStore   driven.DocumentStore
	chunkStore driven.ChunkStore
	topicStore driven.TopicStore
	auditLog   driven.AuditLog
	embedder   driven.EmbeddingService
}

// NewIngestService creates a new ingest service.
// The embedder is optional (can be nil); chunks are then stored without
// embeddings and retrieval operations will fail until re-ingested.
func NewIngestService(
	docStore driven.DocumentStore,
	chunkStore driven.ChunkStore,
	topicStore driven.TopicStore,
	auditLog driven.AuditLog,
	embedder driven.EmbeddingService,
) *IngestService {
	return &IngestService{
		docStore:   docStore,
		chunkStore: chunkStore,
		topicStore: topicStore,
		auditLog:   auditLog,
		embedder:   embedder,
	}
}

// IngestDir processes every .txt file under opts.Dir in name order.
// A failing file is reported in its FileResult and never aborts the run.
func (s *IngestService) IngestDir(ctx context.Context, opts driving.IngestOptions) ([]driving.FileResult, error) {
	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading manuals directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			files = append(files, filepath.Join(opts.Dir, entry.Name()))
		}
	}
	sort.Strings(files)

	logger.Section("Ingestion")
	logger.Info("Found %d manual files in %s", len(files), opts.Dir)

	results := make([]driving.FileResult, 0, len(files))
	for _, path := range files {
		res, err := s.IngestFile(ctx, path, opts)
		if err != nil {
			// Per-file isolation: record and continue.
			results = append(results, driving.FileResult{
				ManualID: manualIDFromPath(path),
				Err:      err,
			})
			logger.Warn("Failed to ingest %s: %v", path, err)
			continue
		}
		results = append(results, *res)
	}

	return results, nil
}

// IngestFile processes a single manual file through the full pipeline:
// clean, split, validate, tag, embed, store.
func (s *IngestService) IngestFile(ctx context.Context, path string, opts driving.IngestOptions) (*driving.FileResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manual: %w", err)
	}

	manualID := manualIDFromPath(path)
	logger.Debug("Ingesting %s (manual id %s)", path, manualID)

	cleaned := textproc.Clean(string(raw))

	chunkerOpts := []textproc.Option{}
	if opts.MaxChars > 0 {
		chunkerOpts = append(chunkerOpts, textproc.WithMaxChars(opts.MaxChars))
	}
	sections := textproc.NewChunker(chunkerOpts...).Split(cleaned)
	sections = textproc.Validate(sections)
	logger.Debug("%s: %d sections after validation", manualID, len(sections))

	docType := opts.DocType
	if docType == "" {
		docType = tagging.DetectDocType(filepath.Base(path), cleaned)
	}

	chunks := make([]domain.Chunk, len(sections))
	for i, sec := range sections {
		c := domain.Chunk{
			ID:         fmt.Sprintf("%s::C%d", manualID, i),
			ManualID:   manualID,
			Text:       sec.Text,
			Heading:    sec.Heading,
			Path:       sec.Path,
			HeadingNum: sec.HeadingNum,
			Level:      sec.Level,
		}
		tagging.Apply(&c)
		chunks[i] = c
	}

	if err := s.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ManualID:   manualID,
		DocType:    docType,
		FilePath:   path,
		IngestedAt: time.Now().UTC(),
	}
	if err := s.docStore.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}

	// Replace the manual's chunk set atomically from the caller's view.
	if err := s.chunkStore.DeleteByManual(ctx, manualID); err != nil {
		return nil, fmt.Errorf("clearing previous chunks: %w", err)
	}
	if err := s.chunkStore.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("saving chunks: %w", err)
	}

	if err := s.registerTopics(ctx, chunks); err != nil {
		return nil, err
	}

	s.audit(ctx, "ingest", fmt.Sprintf("manual %s: %d chunks, doc type %s", manualID, len(chunks), docType))
	logger.Info("Ingested %s: %d chunks (%s)", manualID, len(chunks), docType)

	return &driving.FileResult{
		ManualID: manualID,
		Chunks:   len(chunks),
		DocType:  docType,
	}, nil
}

// embedChunks fills in embeddings batch by batch. Without a configured
// Provider the chunks are stored unembedded.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	if s.embedder == nil {
		logger.Warn("No embedding provider configured, storing chunks without embeddings")
		return nil
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = chunks[i].Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("embedding batch %d-%d: got %d vectors for %d texts", start, end, len(vectors), len(texts))
		}

		for i := start; i < end; i++ {
			chunks[i].Embedding = vectors[i-start]
		}
		logger.Debug("Embedded chunks %d-%d of %d", start, end, len(chunks))
	}

	return nil
}

// registerTopics lazily creates a topic row per distinct topic id,
// backfilling the description from the first heading seen.
func (s *IngestService) registerTopics(ctx context.Context, chunks []domain.Chunk) error {
	seen := make(map[string]bool)
	for _, c := range chunks {
		if c.TopicID == "" || seen[c.TopicID] {
			continue
		}
		seen[c.TopicID] = true

		err := s.topicStore.Ensure(ctx, domain.Topic{
			ID:          c.TopicID,
			Description: c.Heading,
			FirstSeen:   time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("registering topic %s: %w", c.TopicID, err)
		}
	}
	return nil
}

func (s *IngestService) audit(ctx context.Context, action, details string) {
	if s.auditLog == nil {
		return
	}
	err := s.auditLog.Record(ctx, driven.AuditEvent{
		ID:      uuid.NewString(),
		User:    "system",
		Action:  action,
		Details: details,
	})
	if err != nil {
		logger.Warn("Audit record failed: %v", err)
	}
}

// manualIDFromPath derives the manual id from the filename without its
// extension.
func manualIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
