package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/oceanic-labs/manualmind/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.manualmind/data/manualmind.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".manualmind", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "manualmind.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// TopicStore returns a TopicStore interface backed by this store.
func (s *Store) TopicStore() driven.TopicStore {
	return &topicStore{store: s}
}

// ConflictStore returns a ConflictStore interface backed by this store.
func (s *Store) ConflictStore() driven.ConflictStore {
	return &conflictStore{store: s}
}

// ApprovalStore returns an ApprovalStore interface backed by this store.
func (s *Store) ApprovalStore() driven.ApprovalStore {
	return &approvalStore{store: s}
}

// AuditLog returns an AuditLog interface backed by this store.
func (s *Store) AuditLog() driven.AuditLog {
	return &auditLog{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// Save stores or replaces a document.
func (s *documentStore) Save(ctx context.Context, doc *domain.Document) error {
	if doc.ManualID == "" {
		return domain.ErrInvalidInput
	}

	if doc.IngestedAt.IsZero() {
		doc.IngestedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents
			(manual_id, doc_type, compliance_standard, effective_date,
			 superseded_by, mandatory_review_date, file_path, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(manual_id) DO UPDATE SET
			doc_type = excluded.doc_type,
			compliance_standard = excluded.compliance_standard,
			effective_date = excluded.effective_date,
			superseded_by = excluded.superseded_by,
			mandatory_review_date = excluded.mandatory_review_date,
			file_path = excluded.file_path,
			ingested_at = excluded.ingested_at
	`, doc.ManualID, string(doc.DocType), doc.ComplianceStandard, doc.EffectiveDate,
		doc.SupersededBy, doc.MandatoryReviewDate, doc.FilePath, doc.IngestedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves a document by manual id.
func (s *documentStore) Get(ctx context.Context, manualID string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT manual_id, doc_type, compliance_standard, effective_date,
		       superseded_by, mandatory_review_date, file_path, ingested_at
		FROM documents WHERE manual_id = ?
	`, manualID)

	var doc domain.Document
	var docType string
	var ingestedAt sql.NullTime
	if err := row.Scan(&doc.ManualID, &docType, &doc.ComplianceStandard, &doc.EffectiveDate,
		&doc.SupersededBy, &doc.MandatoryReviewDate, &doc.FilePath, &ingestedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.DocType = domain.DocType(docType)
	if ingestedAt.Valid {
		doc.IngestedAt = ingestedAt.Time
	}

	return &doc, nil
}

// List returns all documents ordered by manual id.
func (s *documentStore) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT manual_id, doc_type, compliance_standard, effective_date,
		       superseded_by, mandatory_review_date, file_path, ingested_at
		FROM documents ORDER BY manual_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var docType string
		var ingestedAt sql.NullTime
		if err := rows.Scan(&doc.ManualID, &docType, &doc.ComplianceStandard, &doc.EffectiveDate,
			&doc.SupersededBy, &doc.MandatoryReviewDate, &doc.FilePath, &ingestedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.DocType = domain.DocType(docType)
		if ingestedAt.Valid {
			doc.IngestedAt = ingestedAt.Time
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// SetDocType overrides the detected document type.
func (s *documentStore) SetDocType(ctx context.Context, manualID string, docType domain.DocType) error {
	if !docType.Valid() {
		return domain.ErrInvalidInput
	}

	res, err := s.store.db.ExecContext(ctx,
		"UPDATE documents SET doc_type = ? WHERE manual_id = ?", string(docType), manualID)
	if err != nil {
		return fmt.Errorf("updating doc type: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a document.
func (s *documentStore) Delete(ctx context.Context, manualID string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE manual_id = ?", manualID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

const chunkColumns = `id, manual_id, position, text, heading, path, heading_num, level,
	topic_id, is_emergency, emergency_category, units, diving_modes,
	physiology_tags, systems_tags, normative_language, conflict_qualifiers,
	conflict_type, embedding`

// SaveChunks stores chunks in one transaction. Position follows slice order.
func (s *chunkStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (`+chunkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			manual_id = excluded.manual_id,
			position = excluded.position,
			text = excluded.text,
			heading = excluded.heading,
			path = excluded.path,
			heading_num = excluded.heading_num,
			level = excluded.level,
			topic_id = excluded.topic_id,
			is_emergency = excluded.is_emergency,
			emergency_category = excluded.emergency_category,
			units = excluded.units,
			diving_modes = excluded.diving_modes,
			physiology_tags = excluded.physiology_tags,
			systems_tags = excluded.systems_tags,
			normative_language = excluded.normative_language,
			conflict_qualifiers = excluded.conflict_qualifiers,
			conflict_type = excluded.conflict_type,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		unitsJSON, err := json.Marshal(chunk.Units)
		if err != nil {
			return fmt.Errorf("marshalling units: %w", err)
		}
		modesJSON, err := json.Marshal(chunk.DivingModes)
		if err != nil {
			return fmt.Errorf("marshalling diving modes: %w", err)
		}
		physioJSON, err := json.Marshal(chunk.PhysiologyTags)
		if err != nil {
			return fmt.Errorf("marshalling physiology tags: %w", err)
		}
		systemsJSON, err := json.Marshal(chunk.SystemsTags)
		if err != nil {
			return fmt.Errorf("marshalling systems tags: %w", err)
		}
		qualifiersJSON, err := json.Marshal(chunk.ConflictQualifiers)
		if err != nil {
			return fmt.Errorf("marshalling conflict qualifiers: %w", err)
		}

		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.ManualID, i, chunk.Text,
			chunk.Heading, chunk.Path, chunk.HeadingNum, chunk.Level, chunk.TopicID,
			boolToInt(chunk.IsEmergencyProcedure), chunk.EmergencyCategory,
			string(unitsJSON), string(modesJSON), string(physioJSON), string(systemsJSON),
			string(chunk.NormativeLanguage), string(qualifiersJSON),
			string(chunk.ConflictType), embeddingBlob); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a chunk by id.
func (s *chunkStore) Get(ctx context.Context, id string) (*domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying chunk: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("querying chunk: %w", err)
		}
		return nil, domain.ErrNotFound
	}

	return scanChunk(rows)
}

// ListByManual returns the chunks of one manual in emission order.
func (s *chunkStore) ListByManual(ctx context.Context, manualID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE manual_id = ? ORDER BY position", manualID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// ListAll returns every stored chunk.
func (s *chunkStore) ListAll(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks ORDER BY manual_id, position")
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// DeleteByManual removes all chunks of a manual.
func (s *chunkStore) DeleteByManual(ctx context.Context, manualID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE manual_id = ?", manualID)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// SetConflictType annotates a chunk with its latest conflict type.
func (s *chunkStore) SetConflictType(ctx context.Context, chunkID string, conflictType domain.ConflictType) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE chunks SET conflict_type = ? WHERE id = ?", string(conflictType), chunkID)
	if err != nil {
		return fmt.Errorf("updating conflict type: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Topic Store ====================

// topicStore implements driven.TopicStore.
type topicStore struct {
	store *Store
}

var _ driven.TopicStore = (*topicStore)(nil)

// Ensure creates the topic if missing and backfills an empty description.
func (s *topicStore) Ensure(ctx context.Context, topic domain.Topic) error {
	if topic.ID == "" {
		return domain.ErrInvalidInput
	}

	if topic.FirstSeen.IsZero() {
		topic.FirstSeen = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO topics (id, description, first_seen)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = CASE WHEN topics.description = '' THEN excluded.description ELSE topics.description END
	`, topic.ID, topic.Description, topic.FirstSeen)

	if err != nil {
		return fmt.Errorf("ensuring topic: %w", err)
	}
	return nil
}

// Get retrieves a topic by id.
func (s *topicStore) Get(ctx context.Context, id string) (*domain.Topic, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT id, description, first_seen FROM topics WHERE id = ?", id)

	var topic domain.Topic
	var firstSeen sql.NullTime
	if err := row.Scan(&topic.ID, &topic.Description, &firstSeen); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning topic: %w", err)
	}
	if firstSeen.Valid {
		topic.FirstSeen = firstSeen.Time
	}

	return &topic, nil
}

// List returns all topics with their chunk counts.
func (s *topicStore) List(ctx context.Context) ([]domain.Topic, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT t.id, t.description, t.first_seen, COUNT(c.id)
		FROM topics t
		LEFT JOIN chunks c ON c.topic_id = t.id
		GROUP BY t.id
		ORDER BY t.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic //nolint:prealloc // size unknown from query
	for rows.Next() {
		var topic domain.Topic
		var firstSeen sql.NullTime
		if err := rows.Scan(&topic.ID, &topic.Description, &firstSeen, &topic.ChunkCount); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		if firstSeen.Valid {
			topic.FirstSeen = firstSeen.Time
		}
		topics = append(topics, topic)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating topics: %w", err)
	}

	return topics, nil
}

// ==================== Conflict Store ====================

// conflictStore implements driven.ConflictStore.
type conflictStore struct {
	store *Store
}

var _ driven.ConflictStore = (*conflictStore)(nil)

const conflictColumns = `id, chunk1_id, chunk2_id, topic_id, type, detected_at, status,
	resolution_type, resolved_by, resolved_at, resolution_notes, detail,
	context1, context2, original_unit, converted_unit, conversion_factor`

// Create persists a new conflict and assigns it the next display id.
func (s *conflictStore) Create(ctx context.Context, c *domain.Conflict) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var count int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM conflict_resolutions").Scan(&count); err != nil {
		return fmt.Errorf("counting conflicts: %w", err)
	}
	c.ID = fmt.Sprintf("CONF_%03d", count+1)

	if c.DetectedAt.IsZero() {
		c.DetectedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = domain.ResolutionPending
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conflict_resolutions (`+conflictColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Chunk1ID, c.Chunk2ID, c.TopicID, string(c.Type), c.DetectedAt,
		string(c.Status), string(c.ResolutionType), c.ResolvedBy, nullTime(c.ResolvedAt),
		c.ResolutionNotes, c.Detail, c.Context1, c.Context2,
		c.OriginalUnit, c.ConvertedUnit, c.ConversionFactor)
	if err != nil {
		return fmt.Errorf("inserting conflict: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a conflict by display id.
func (s *conflictStore) Get(ctx context.Context, id string) (*domain.Conflict, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+conflictColumns+" FROM conflict_resolutions WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying conflict: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("querying conflict: %w", err)
		}
		return nil, domain.ErrNotFound
	}

	return scanConflict(rows)
}

// Update rewrites a conflict's mutable resolution fields.
func (s *conflictStore) Update(ctx context.Context, c *domain.Conflict) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE conflict_resolutions SET
			status = ?, resolution_type = ?, resolved_by = ?, resolved_at = ?,
			resolution_notes = ?, original_unit = ?, converted_unit = ?, conversion_factor = ?
		WHERE id = ?
	`, string(c.Status), string(c.ResolutionType), c.ResolvedBy, nullTime(c.ResolvedAt),
		c.ResolutionNotes, c.OriginalUnit, c.ConvertedUnit, c.ConversionFactor, c.ID)
	if err != nil {
		return fmt.Errorf("updating conflict: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByStatus returns conflicts in a lifecycle state, newest first.
// An empty status returns everything.
func (s *conflictStore) ListByStatus(ctx context.Context, status domain.ResolutionStatus) ([]domain.Conflict, error) {
	query := "SELECT " + conflictColumns + " FROM conflict_resolutions"
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY id DESC"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []domain.Conflict //nolint:prealloc // size unknown from query
	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conflicts: %w", err)
	}

	return conflicts, nil
}

// Stats returns counts by status, type and resolution method.
func (s *conflictStore) Stats(ctx context.Context) (*driven.ConflictStats, error) {
	stats := &driven.ConflictStats{
		ByStatus:     make(map[domain.ResolutionStatus]int),
		ByType:       make(map[domain.ConflictType]int),
		ByResolution: make(map[domain.ResolutionType]int),
	}

	rows, err := s.store.db.QueryContext(ctx,
		"SELECT status, type, resolution_type FROM conflict_resolutions")
	if err != nil {
		return nil, fmt.Errorf("querying conflict stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, ctype, rtype string
		if err := rows.Scan(&status, &ctype, &rtype); err != nil {
			return nil, fmt.Errorf("scanning conflict stats: %w", err)
		}
		stats.Total++
		stats.ByStatus[domain.ResolutionStatus(status)]++
		stats.ByType[domain.ConflictType(ctype)]++
		if rtype != "" {
			stats.ByResolution[domain.ResolutionType(rtype)]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conflict stats: %w", err)
	}

	if err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM approval_workflow WHERE status = 'pending'").
		Scan(&stats.PendingApprovals); err != nil {
		return nil, fmt.Errorf("counting pending approvals: %w", err)
	}

	return stats, nil
}

// ==================== Approval Store ====================

// approvalStore implements driven.ApprovalStore.
type approvalStore struct {
	store *Store
}

var _ driven.ApprovalStore = (*approvalStore)(nil)

// Create records a new pending approval request.
func (s *approvalStore) Create(ctx context.Context, req *domain.ApprovalRequest) error {
	if req.ConflictID == "" || req.Approver == "" {
		return domain.ErrInvalidInput
	}

	req.Status = domain.ApprovalPending

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO approval_workflow (conflict_id, level, approver, status, comments)
		VALUES (?, ?, ?, ?, ?)
	`, req.ConflictID, int(req.Level), req.Approver, string(req.Status), req.Comments)
	if err != nil {
		return fmt.Errorf("creating approval request: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting approval id: %w", err)
	}
	req.ID = id
	return nil
}

// Act transitions a pending request into approved or rejected.
func (s *approvalStore) Act(ctx context.Context, conflictID, approver string, status domain.ApprovalStatus, comments string) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE approval_workflow
		SET status = ?, comments = ?, acted_at = ?
		WHERE conflict_id = ? AND approver = ? COLLATE NOCASE AND status = 'pending'
	`, string(status), comments, time.Now().UTC(), conflictID, approver)
	if err != nil {
		return fmt.Errorf("acting on approval: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking approval update: %w", err)
	}
	if n == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// ListPending returns pending requests, optionally filtered by approver.
func (s *approvalStore) ListPending(ctx context.Context, approver string) ([]domain.ApprovalRequest, error) {
	query := `
		SELECT id, conflict_id, level, approver, status, acted_at, comments
		FROM approval_workflow WHERE status = 'pending'
	`
	args := []any{}
	if approver != "" {
		query += " AND approver = ? COLLATE NOCASE"
		args = append(args, approver)
	}
	query += " ORDER BY id"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying approvals: %w", err)
	}
	defer rows.Close()

	var reqs []domain.ApprovalRequest //nolint:prealloc // size unknown from query
	for rows.Next() {
		var req domain.ApprovalRequest
		var level int
		var status string
		var actedAt sql.NullTime
		if err := rows.Scan(&req.ID, &req.ConflictID, &level, &req.Approver,
			&status, &actedAt, &req.Comments); err != nil {
			return nil, fmt.Errorf("scanning approval: %w", err)
		}
		req.Level = domain.ApprovalLevel(level)
		req.Status = domain.ApprovalStatus(status)
		if actedAt.Valid {
			req.ActedAt = actedAt.Time
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating approvals: %w", err)
	}

	return reqs, nil
}

// ==================== Audit Log ====================

// auditLog implements driven.AuditLog.
type auditLog struct {
	store *Store
}

var _ driven.AuditLog = (*auditLog)(nil)

// Record appends an audit event.
func (s *auditLog) Record(ctx context.Context, event driven.AuditEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, timestamp, user, action, details)
		VALUES (?, ?, ?, ?, ?)
	`, event.ID, event.Timestamp, event.User, event.Action, event.Details)
	if err != nil {
		return fmt.Errorf("recording audit event: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullTime maps the zero time to NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// scanChunk scans a chunk from *sql.Rows.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var position, level, isEmergency int
	var normative, conflictType string
	var unitsJSON, modesJSON, physioJSON, systemsJSON, qualifiersJSON string
	var embeddingBlob []byte

	if err := rows.Scan(&chunk.ID, &chunk.ManualID, &position, &chunk.Text,
		&chunk.Heading, &chunk.Path, &chunk.HeadingNum, &level, &chunk.TopicID,
		&isEmergency, &chunk.EmergencyCategory, &unitsJSON, &modesJSON,
		&physioJSON, &systemsJSON, &normative, &qualifiersJSON,
		&conflictType, &embeddingBlob); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Level = level
	chunk.IsEmergencyProcedure = isEmergency != 0
	chunk.NormativeLanguage = domain.NormativeTier(normative)
	chunk.ConflictType = domain.ConflictType(conflictType)
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if err := unmarshalColumn(unitsJSON, &chunk.Units); err != nil {
		return nil, fmt.Errorf("unmarshaling units: %w", err)
	}
	if err := unmarshalColumn(modesJSON, &chunk.DivingModes); err != nil {
		return nil, fmt.Errorf("unmarshaling diving modes: %w", err)
	}
	if err := unmarshalColumn(physioJSON, &chunk.PhysiologyTags); err != nil {
		return nil, fmt.Errorf("unmarshaling physiology tags: %w", err)
	}
	if err := unmarshalColumn(systemsJSON, &chunk.SystemsTags); err != nil {
		return nil, fmt.Errorf("unmarshaling systems tags: %w", err)
	}
	if err := unmarshalColumn(qualifiersJSON, &chunk.ConflictQualifiers); err != nil {
		return nil, fmt.Errorf("unmarshaling conflict qualifiers: %w", err)
	}

	return &chunk, nil
}

// scanChunks scans all chunk rows.
func scanChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// scanConflict scans a conflict from *sql.Rows.
func scanConflict(rows *sql.Rows) (*domain.Conflict, error) {
	var c domain.Conflict
	var ctype, status, rtype string
	var detectedAt, resolvedAt sql.NullTime

	if err := rows.Scan(&c.ID, &c.Chunk1ID, &c.Chunk2ID, &c.TopicID, &ctype,
		&detectedAt, &status, &rtype, &c.ResolvedBy, &resolvedAt,
		&c.ResolutionNotes, &c.Detail, &c.Context1, &c.Context2,
		&c.OriginalUnit, &c.ConvertedUnit, &c.ConversionFactor); err != nil {
		return nil, fmt.Errorf("scanning conflict: %w", err)
	}

	c.Type = domain.ConflictType(ctype)
	c.Status = domain.ResolutionStatus(status)
	c.ResolutionType = domain.ResolutionType(rtype)
	if detectedAt.Valid {
		c.DetectedAt = detectedAt.Time
	}
	if resolvedAt.Valid {
		c.ResolvedAt = resolvedAt.Time
	}

	return &c, nil
}

// unmarshalColumn decodes a JSON column, treating "" and "null" as empty.
func unmarshalColumn[T any](data string, dst *T) error {
	if data == "" || data == jsonNull {
		return nil
	}
	return json.Unmarshal([]byte(data), dst)
}
