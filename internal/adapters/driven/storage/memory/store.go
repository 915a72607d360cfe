package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driven"
)

// Store keeps everything in maps guarded by one mutex. Substores share
// the maps so cross-store invariants (chunk counts, approval lookups)
// behave like the SQLite store.
type Store struct {
	mu         sync.RWMutex
	documents  map[string]domain.Document
	chunks     map[string]domain.Chunk
	chunkOrder []string
	topics     map[string]domain.Topic
	conflicts  map[string]domain.Conflict
	approvals  []domain.ApprovalRequest
	nextApprov int64
	events     []driven.AuditEvent
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		documents:  make(map[string]domain.Document),
		chunks:     make(map[string]domain.Chunk),
		topics:     make(map[string]domain.Topic),
		conflicts:  make(map[string]domain.Conflict),
		nextApprov: 1,
	}
}

// DocumentStore returns a DocumentStore backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore { return &documentStore{s} }

// ChunkStore returns a ChunkStore backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore { return &chunkStore{s} }

// TopicStore returns a TopicStore backed by this store.
func (s *Store) TopicStore() driven.TopicStore { return &topicStore{s} }

// ConflictStore returns a ConflictStore backed by this store.
func (s *Store) ConflictStore() driven.ConflictStore { return &conflictStore{s} }

// ApprovalStore returns an ApprovalStore backed by this store.
func (s *Store) ApprovalStore() driven.ApprovalStore { return &approvalStore{s} }

// AuditLog returns an AuditLog backed by this store.
func (s *Store) AuditLog() driven.AuditLog { return &auditLog{s} }

// Events returns a copy of the recorded audit events, oldest first.
func (s *Store) Events() []driven.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]driven.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

// ==================== Document Store ====================

type documentStore struct{ s *Store }

var _ driven.DocumentStore = (*documentStore)(nil)

func (d *documentStore) Save(_ context.Context, doc *domain.Document) error {
	if doc.ManualID == "" {
		return domain.ErrInvalidInput
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	d.s.documents[doc.ManualID] = *doc
	return nil
}

func (d *documentStore) Get(_ context.Context, manualID string) (*domain.Document, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	doc, ok := d.s.documents[manualID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (d *documentStore) List(_ context.Context) ([]domain.Document, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(d.s.documents))
	for _, doc := range d.s.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ManualID < docs[j].ManualID })
	return docs, nil
}

func (d *documentStore) SetDocType(_ context.Context, manualID string, docType domain.DocType) error {
	if !docType.Valid() {
		return domain.ErrInvalidInput
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	doc, ok := d.s.documents[manualID]
	if !ok {
		return domain.ErrNotFound
	}
	doc.DocType = docType
	d.s.documents[manualID] = doc
	return nil
}

func (d *documentStore) Delete(_ context.Context, manualID string) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	if _, ok := d.s.documents[manualID]; !ok {
		return domain.ErrNotFound
	}
	delete(d.s.documents, manualID)
	return nil
}

// ==================== Chunk Store ====================

type chunkStore struct{ s *Store }

var _ driven.ChunkStore = (*chunkStore)(nil)

func (c *chunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, ch := range chunks {
		if ch.ID == "" {
			return domain.ErrInvalidInput
		}
		if _, exists := c.s.chunks[ch.ID]; !exists {
			c.s.chunkOrder = append(c.s.chunkOrder, ch.ID)
		}
		c.s.chunks[ch.ID] = ch
	}
	return nil
}

func (c *chunkStore) Get(_ context.Context, id string) (*domain.Chunk, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	ch, ok := c.s.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ch, nil
}

func (c *chunkStore) ListByManual(_ context.Context, manualID string) ([]domain.Chunk, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	var out []domain.Chunk
	for _, id := range c.s.chunkOrder {
		ch, ok := c.s.chunks[id]
		if ok && ch.ManualID == manualID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (c *chunkStore) ListAll(_ context.Context) ([]domain.Chunk, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	out := make([]domain.Chunk, 0, len(c.s.chunks))
	for _, id := range c.s.chunkOrder {
		if ch, ok := c.s.chunks[id]; ok {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (c *chunkStore) DeleteByManual(_ context.Context, manualID string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	kept := c.s.chunkOrder[:0]
	for _, id := range c.s.chunkOrder {
		if ch, ok := c.s.chunks[id]; ok && ch.ManualID == manualID {
			delete(c.s.chunks, id)
			continue
		}
		kept = append(kept, id)
	}
	c.s.chunkOrder = kept
	return nil
}

func (c *chunkStore) SetConflictType(_ context.Context, chunkID string, conflictType domain.ConflictType) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	ch, ok := c.s.chunks[chunkID]
	if !ok {
		return domain.ErrNotFound
	}
	ch.ConflictType = conflictType
	c.s.chunks[chunkID] = ch
	return nil
}

// ==================== Topic Store ====================

type topicStore struct{ s *Store }

var _ driven.TopicStore = (*topicStore)(nil)

func (t *topicStore) Ensure(_ context.Context, topic domain.Topic) error {
	if topic.ID == "" {
		return domain.ErrInvalidInput
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	existing, ok := t.s.topics[topic.ID]
	if !ok {
		if topic.FirstSeen.IsZero() {
			topic.FirstSeen = time.Now().UTC()
		}
		t.s.topics[topic.ID] = topic
		return nil
	}
	if existing.Description == "" && topic.Description != "" {
		existing.Description = topic.Description
		t.s.topics[topic.ID] = existing
	}
	return nil
}

func (t *topicStore) Get(_ context.Context, id string) (*domain.Topic, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	topic, ok := t.s.topics[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &topic, nil
}

func (t *topicStore) List(_ context.Context) ([]domain.Topic, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	counts := make(map[string]int)
	for _, ch := range t.s.chunks {
		counts[ch.TopicID]++
	}
	topics := make([]domain.Topic, 0, len(t.s.topics))
	for _, topic := range t.s.topics {
		topic.ChunkCount = counts[topic.ID]
		topics = append(topics, topic)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

// ==================== Conflict Store ====================

type conflictStore struct{ s *Store }

var _ driven.ConflictStore = (*conflictStore)(nil)

func (c *conflictStore) Create(_ context.Context, conflict *domain.Conflict) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	conflict.ID = fmt.Sprintf("CONF_%03d", len(c.s.conflicts)+1)
	if conflict.DetectedAt.IsZero() {
		conflict.DetectedAt = time.Now().UTC()
	}
	if conflict.Status == "" {
		conflict.Status = domain.ResolutionPending
	}
	c.s.conflicts[conflict.ID] = *conflict
	return nil
}

func (c *conflictStore) Get(_ context.Context, id string) (*domain.Conflict, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	conflict, ok := c.s.conflicts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &conflict, nil
}

func (c *conflictStore) Update(_ context.Context, conflict *domain.Conflict) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.conflicts[conflict.ID]; !ok {
		return domain.ErrNotFound
	}
	c.s.conflicts[conflict.ID] = *conflict
	return nil
}

func (c *conflictStore) ListByStatus(_ context.Context, status domain.ResolutionStatus) ([]domain.Conflict, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	var out []domain.Conflict
	for _, conflict := range c.s.conflicts {
		if status == "" || conflict.Status == status {
			out = append(out, conflict)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (c *conflictStore) Stats(_ context.Context) (*driven.ConflictStats, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	stats := &driven.ConflictStats{
		ByStatus:     make(map[domain.ResolutionStatus]int),
		ByType:       make(map[domain.ConflictType]int),
		ByResolution: make(map[domain.ResolutionType]int),
	}
	for _, conflict := range c.s.conflicts {
		stats.Total++
		stats.ByStatus[conflict.Status]++
		stats.ByType[conflict.Type]++
		if conflict.ResolutionType != "" {
			stats.ByResolution[conflict.ResolutionType]++
		}
	}
	for _, req := range c.s.approvals {
		if req.Status == domain.ApprovalPending {
			stats.PendingApprovals++
		}
	}
	return stats, nil
}

// ==================== Approval Store ====================

type approvalStore struct{ s *Store }

var _ driven.ApprovalStore = (*approvalStore)(nil)

func (a *approvalStore) Create(_ context.Context, req *domain.ApprovalRequest) error {
	if req.ConflictID == "" || req.Approver == "" {
		return domain.ErrInvalidInput
	}
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	req.ID = a.s.nextApprov
	a.s.nextApprov++
	req.Status = domain.ApprovalPending
	a.s.approvals = append(a.s.approvals, *req)
	return nil
}

func (a *approvalStore) Act(_ context.Context, conflictID, approver string, status domain.ApprovalStatus, comments string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for i := range a.s.approvals {
		req := &a.s.approvals[i]
		if req.ConflictID == conflictID && strings.EqualFold(req.Approver, approver) && req.Status == domain.ApprovalPending {
			req.Status = status
			req.Comments = comments
			req.ActedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrInvalidState
}

func (a *approvalStore) ListPending(_ context.Context, approver string) ([]domain.ApprovalRequest, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	var out []domain.ApprovalRequest
	for _, req := range a.s.approvals {
		if req.Status != domain.ApprovalPending {
			continue
		}
		if approver != "" && !strings.EqualFold(req.Approver, approver) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

// ==================== Audit Log ====================

type auditLog struct{ s *Store }

var _ driven.AuditLog = (*auditLog)(nil)

func (a *auditLog) Record(_ context.Context, event driven.AuditEvent) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	a.s.events = append(a.s.events, event)
	return nil
}
