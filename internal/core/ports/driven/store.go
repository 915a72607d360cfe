package driven

import (
	"context"
	"time"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

// DocumentStore persists manual metadata. A manual's row is replaced
// atomically on re-ingestion.
type DocumentStore interface {
	// Save stores or replaces a document.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by manual id.
	Get(ctx context.Context, manualID string) (*domain.Document, error)

	// List returns all documents ordered by manual id.
	List(ctx context.Context) ([]domain.Document, error)

	// SetDocType overrides the detected document type.
	SetDocType(ctx context.Context, manualID string, docType domain.DocType) error

	// Delete removes a document.
	Delete(ctx context.Context, manualID string) error
}

// ChunkStore persists chunk records and their embeddings.
type ChunkStore interface {
	// SaveChunks stores chunks in one transaction.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// Get retrieves a chunk by id.
	Get(ctx context.Context, id string) (*domain.Chunk, error)

	// ListByManual returns the chunks of one manual in emission order.
	ListByManual(ctx context.Context, manualID string) ([]domain.Chunk, error)

	// ListAll returns every stored chunk.
	ListAll(ctx context.Context) ([]domain.Chunk, error)

	// DeleteByManual removes all chunks of a manual. Part of the
	// delete-then-insert re-ingest contract.
	DeleteByManual(ctx context.Context, manualID string) error

	// SetConflictType annotates a chunk with the most recent conflict
	// type observed against it.
	SetConflictType(ctx context.Context, chunkID string, conflictType domain.ConflictType) error
}

// TopicStore persists topic rows, created lazily on first sighting.
type TopicStore interface {
	// Ensure creates the topic if it does not exist and backfills an
	// empty description. Existing topics are otherwise untouched.
	Ensure(ctx context.Context, topic domain.Topic) error

	// Get retrieves a topic by id.
	Get(ctx context.Context, id string) (*domain.Topic, error)

	// List returns all topics with their chunk counts.
	List(ctx context.Context) ([]domain.Topic, error)
}

// ConflictStore persists conflict records. Conflicts are never deleted.
type ConflictStore interface {
	// Create persists a new conflict and assigns it the next display id.
	Create(ctx context.Context, c *domain.Conflict) error

	// Get retrieves a conflict by display id.
	Get(ctx context.Context, id string) (*domain.Conflict, error)

	// Update rewrites a conflict's mutable resolution fields.
	Update(ctx context.Context, c *domain.Conflict) error

	// ListByStatus returns conflicts in a lifecycle state, newest first.
	ListByStatus(ctx context.Context, status domain.ResolutionStatus) ([]domain.Conflict, error)

	// Stats returns counts by status, type and resolution method.
	Stats(ctx context.Context) (*ConflictStats, error)
}

// ConflictStats summarises the conflict register.
type ConflictStats struct {
	Total            int
	ByStatus         map[domain.ResolutionStatus]int
	ByType           map[domain.ConflictType]int
	ByResolution     map[domain.ResolutionType]int
	PendingApprovals int
}

// ApprovalStore persists sign-off rows for resolved conflicts.
type ApprovalStore interface {
	// Create records a new pending approval request.
	Create(ctx context.Context, req *domain.ApprovalRequest) error

	// Act transitions the pending request addressed to approver for the
	// given conflict into approved or rejected. Returns
	// domain.ErrInvalidState when no pending request exists.
	Act(ctx context.Context, conflictID, approver string, status domain.ApprovalStatus, comments string) error

	// ListPending returns pending requests, optionally filtered by approver.
	ListPending(ctx context.Context, approver string) ([]domain.ApprovalRequest, error)
}

// AuditLog records who did what, append-only.
type AuditLog interface {
	// Record appends an audit event.
	Record(ctx context.Context, event AuditEvent) error
}

// AuditEvent is one audit log entry.
type AuditEvent struct {
	// ID is assigned by the caller (a UUID).
	ID string

	// Timestamp defaults to now when zero.
	Timestamp time.Time

	// User is the acting identity, "system" for pipeline events.
	User string

	// Action is a short verb phrase ("conflict_created", "ingest").
	Action string

	// Details is free text.
	Details string
}
