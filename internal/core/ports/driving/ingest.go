package driving

import (
	"context"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

// IngestOptions controls a single ingestion run.
type IngestOptions struct {
	// Dir is the directory scanned for .txt manuals.
	Dir string

	// MaxChars is the chunk flush threshold; 0 means the default (1400).
	MaxChars int

	// DocType forces the document type instead of keyword detection.
	// Empty means detect.
	DocType domain.DocType
}

// FileResult is the outcome of ingesting one file.
type FileResult struct {
	// ManualID is the id derived from the filename.
	ManualID string

	// Chunks is the number of chunks stored.
	Chunks int

	// DocType is the classified (or forced) document type.
	DocType domain.DocType

	// Err is the per-file failure, nil on success. One bad file never
	// aborts the run.
	Err error
}

// IngestService turns a directory of manual text files into stored,
// tagged, embedded chunks.
type IngestService interface {
	// IngestDir processes every .txt file under opts.Dir. Results come
	// back in processing order, failures included.
	IngestDir(ctx context.Context, opts IngestOptions) ([]FileResult, error)

	// IngestFile processes a single manual file.
	IngestFile(ctx context.Context, path string, opts IngestOptions) (*FileResult, error)
}
