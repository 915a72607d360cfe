package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driven"
)

// setupTestStore creates a store backed by a temp directory.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "manualmind-sqlite-test-*")
	require.NoError(t, err)

	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tmpDir))
	}
	return store, cleanup
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Reopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "manualmind-sqlite-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	store, err := NewStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs no migration twice.
	store, err = NewStore(tmpDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestDocumentStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	doc := &domain.Document{
		ManualID:           "dom-alpha",
		DocType:            domain.DocTypeManual,
		ComplianceStandard: "IMCA D014",
		FilePath:           "manuals/dom-alpha.txt",
	}
	require.NoError(t, docs.Save(ctx, doc))

	got, err := docs.Get(ctx, "dom-alpha")
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeManual, got.DocType)
	assert.Equal(t, "IMCA D014", got.ComplianceStandard)
	assert.False(t, got.IngestedAt.IsZero())

	// Upsert replaces in place.
	doc.DocType = domain.DocTypeStandard
	require.NoError(t, docs.Save(ctx, doc))
	got, err = docs.Get(ctx, "dom-alpha")
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeStandard, got.DocType)

	list, err := docs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, docs.SetDocType(ctx, "dom-alpha", domain.DocTypeGuidance))
	got, err = docs.Get(ctx, "dom-alpha")
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeGuidance, got.DocType)

	assert.ErrorIs(t, docs.SetDocType(ctx, "missing", domain.DocTypeManual), domain.ErrNotFound)
	assert.ErrorIs(t, docs.SetDocType(ctx, "dom-alpha", domain.DocType("bogus")), domain.ErrInvalidInput)

	require.NoError(t, docs.Delete(ctx, "dom-alpha"))
	_, err = docs.Get(ctx, "dom-alpha")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, docs.Delete(ctx, "dom-alpha"), domain.ErrNotFound)
}

func testChunk() domain.Chunk {
	return domain.Chunk{
		ID:                   "dom-alpha::C0",
		ManualID:             "dom-alpha",
		Text:                 "The diver shall carry a bailout cylinder with a minimum reserve of 50 bar.",
		Heading:              "1.5 Bailout Gas Requirements",
		Path:                 "1 INTRODUCTION > 1.5 Bailout Gas Requirements",
		HeadingNum:           "1.5",
		Level:                2,
		TopicID:              "bailout_gas_requirements",
		IsEmergencyProcedure: true,
		EmergencyCategory:    "bailout",
		Units: []domain.UnitMeasurement{
			{Value: "50", Unit: "bar", Context: "minimum reserve of 50 bar"},
		},
		DivingModes:       []string{"air"},
		PhysiologyTags:    []string{"oxygen"},
		SystemsTags:       []string{"bailout"},
		NormativeLanguage: domain.NormativeMandatory,
		ConflictQualifiers: []domain.ConflictQualifier{
			{Type: domain.QualifierMinLimit, Keyword: "minimum", Context: "a minimum reserve of 50 bar"},
		},
		Embedding: []float32{0.25, -1.5, 3.0},
	}
}

func TestChunkStoreRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	chunks := store.ChunkStore()

	want := testChunk()
	require.NoError(t, chunks.SaveChunks(ctx, []domain.Chunk{want}))

	got, err := chunks.Get(ctx, want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.ManualID, got.ManualID)
	assert.Equal(t, want.Text, got.Text)
	assert.Equal(t, want.Heading, got.Heading)
	assert.Equal(t, want.Path, got.Path)
	assert.Equal(t, want.HeadingNum, got.HeadingNum)
	assert.Equal(t, want.Level, got.Level)
	assert.Equal(t, want.TopicID, got.TopicID)
	assert.True(t, got.IsEmergencyProcedure)
	assert.Equal(t, want.EmergencyCategory, got.EmergencyCategory)
	assert.Equal(t, want.Units, got.Units)
	assert.Equal(t, want.DivingModes, got.DivingModes)
	assert.Equal(t, want.PhysiologyTags, got.PhysiologyTags)
	assert.Equal(t, want.SystemsTags, got.SystemsTags)
	assert.Equal(t, want.NormativeLanguage, got.NormativeLanguage)
	assert.Equal(t, want.ConflictQualifiers, got.ConflictQualifiers)
	assert.Equal(t, want.Embedding, got.Embedding)

	_, err = chunks.Get(ctx, "missing::C0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkStoreListOrderAndDelete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	chunks := store.ChunkStore()

	set := make([]domain.Chunk, 3)
	for i := range set {
		c := testChunk()
		c.ID = "dom-alpha::C" + string(rune('0'+i))
		set[i] = c
	}
	require.NoError(t, chunks.SaveChunks(ctx, set))

	other := testChunk()
	other.ID = "imca::C0"
	other.ManualID = "imca"
	require.NoError(t, chunks.SaveChunks(ctx, []domain.Chunk{other}))

	byManual, err := chunks.ListByManual(ctx, "dom-alpha")
	require.NoError(t, err)
	require.Len(t, byManual, 3)
	for i, c := range byManual {
		assert.Equal(t, set[i].ID, c.ID)
	}

	all, err := chunks.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	require.NoError(t, chunks.DeleteByManual(ctx, "dom-alpha"))
	byManual, err = chunks.ListByManual(ctx, "dom-alpha")
	require.NoError(t, err)
	assert.Empty(t, byManual)

	all, err = chunks.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestChunkStoreEmptyMetadata(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	chunks := store.ChunkStore()

	bare := domain.Chunk{ID: "x::C0", ManualID: "x", Text: "Body."}
	require.NoError(t, chunks.SaveChunks(ctx, []domain.Chunk{bare}))

	got, err := chunks.Get(ctx, "x::C0")
	require.NoError(t, err)
	assert.Empty(t, got.Units)
	assert.Empty(t, got.DivingModes)
	assert.Empty(t, got.Embedding)
	assert.False(t, got.IsEmergencyProcedure)
}

func TestChunkStoreSetConflictType(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	chunks := store.ChunkStore()

	require.NoError(t, chunks.SaveChunks(ctx, []domain.Chunk{testChunk()}))
	require.NoError(t, chunks.SetConflictType(ctx, "dom-alpha::C0", domain.ConflictNumeric))

	got, err := chunks.Get(ctx, "dom-alpha::C0")
	require.NoError(t, err)
	assert.Equal(t, domain.ConflictNumeric, got.ConflictType)

	assert.ErrorIs(t, chunks.SetConflictType(ctx, "missing::C9", domain.ConflictNumeric), domain.ErrNotFound)
}

func TestTopicStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	topics := store.TopicStore()

	require.NoError(t, topics.Ensure(ctx, domain.Topic{ID: "bailout_gas_requirements", Description: "1.5 Bailout Gas Requirements"}))
	// Re-ensuring never overwrites an existing description.
	require.NoError(t, topics.Ensure(ctx, domain.Topic{ID: "bailout_gas_requirements", Description: "other"}))

	got, err := topics.Get(ctx, "bailout_gas_requirements")
	require.NoError(t, err)
	assert.Equal(t, "1.5 Bailout Gas Requirements", got.Description)
	assert.False(t, got.FirstSeen.IsZero())

	_, err = topics.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, topics.Ensure(ctx, domain.Topic{}), domain.ErrInvalidInput)

	// Chunk counts come from a join against the chunks table.
	require.NoError(t, store.ChunkStore().SaveChunks(ctx, []domain.Chunk{testChunk()}))
	require.NoError(t, topics.Ensure(ctx, domain.Topic{ID: "empty_topic", Description: "9 Unreferenced"}))

	list, err := topics.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bailout_gas_requirements", list[0].ID)
	assert.Equal(t, 1, list[0].ChunkCount)
	assert.Equal(t, "empty_topic", list[1].ID)
	assert.Equal(t, 0, list[1].ChunkCount)
}

func TestConflictStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	conflicts := store.ConflictStore()

	c1 := &domain.Conflict{
		Chunk1ID: "dom-alpha::C0",
		Chunk2ID: "imca::C7",
		TopicID:  "bailout_gas_requirements",
		Type:     domain.ConflictNumeric,
		Detail:   "Different values for bar: 50 vs 70",
		Context1: "reserve of 50 bar",
		Context2: "reserve of 70 bar",
	}
	require.NoError(t, conflicts.Create(ctx, c1))
	assert.Equal(t, "CONF_001", c1.ID)
	assert.Equal(t, domain.ResolutionPending, c1.Status)

	c2 := &domain.Conflict{
		Chunk1ID: "dom-alpha::C1",
		Chunk2ID: "spec::C3",
		TopicID:  "depth_limits",
		Type:     domain.ConflictUnitMismatch,
	}
	require.NoError(t, conflicts.Create(ctx, c2))
	assert.Equal(t, "CONF_002", c2.ID)

	got, err := conflicts.Get(ctx, "CONF_001")
	require.NoError(t, err)
	assert.Equal(t, c1.Detail, got.Detail)
	assert.Equal(t, c1.Context1, got.Context1)
	assert.True(t, got.ResolvedAt.IsZero())

	_, err = conflicts.Get(ctx, "CONF_999")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got.Status = domain.ResolutionResolved
	got.ResolutionType = domain.ResolveConvertUnits
	got.ResolvedBy = "jsmith"
	got.ResolvedAt = time.Now().UTC()
	got.OriginalUnit = "meters"
	got.ConvertedUnit = "feet"
	got.ConversionFactor = 3.28084
	require.NoError(t, conflicts.Update(ctx, got))

	updated, err := conflicts.Get(ctx, "CONF_001")
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionResolved, updated.Status)
	assert.Equal(t, "jsmith", updated.ResolvedBy)
	assert.False(t, updated.ResolvedAt.IsZero())
	assert.Equal(t, 3.28084, updated.ConversionFactor)

	pending, err := conflicts.ListByStatus(ctx, domain.ResolutionPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "CONF_002", pending[0].ID)

	all, err := conflicts.ListByStatus(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first.
	assert.Equal(t, "CONF_002", all[0].ID)

	missing := &domain.Conflict{ID: "CONF_999"}
	assert.ErrorIs(t, conflicts.Update(ctx, missing), domain.ErrNotFound)
}

func TestApprovalStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	approvals := store.ApprovalStore()

	req := &domain.ApprovalRequest{
		ConflictID: "CONF_001",
		Level:      domain.ApprovalManager,
		Approver:   "jdoe",
	}
	require.NoError(t, approvals.Create(ctx, req))
	assert.NotZero(t, req.ID)
	assert.Equal(t, domain.ApprovalPending, req.Status)

	assert.ErrorIs(t, approvals.Create(ctx, &domain.ApprovalRequest{}), domain.ErrInvalidInput)

	pending, err := approvals.ListPending(ctx, "")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.ApprovalManager, pending[0].Level)

	// Approver matching is case-insensitive.
	pending, err = approvals.ListPending(ctx, "JDOE")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, approvals.Act(ctx, "CONF_001", "JDoe", domain.ApprovalApproved, "reviewed"))

	pending, err = approvals.ListPending(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// A second act on the same request finds nothing pending.
	assert.ErrorIs(t, approvals.Act(ctx, "CONF_001", "jdoe", domain.ApprovalRejected, ""),
		domain.ErrInvalidState)
}

func TestConflictStats(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	conflicts := store.ConflictStore()

	require.NoError(t, conflicts.Create(ctx, &domain.Conflict{
		Chunk1ID: "a::C0", Chunk2ID: "b::C0", TopicID: "t1", Type: domain.ConflictNumeric,
	}))
	resolved := &domain.Conflict{
		Chunk1ID: "a::C1", Chunk2ID: "b::C1", TopicID: "t2", Type: domain.ConflictUnitMismatch,
	}
	require.NoError(t, conflicts.Create(ctx, resolved))
	resolved.Status = domain.ResolutionResolved
	resolved.ResolutionType = domain.ResolveDismiss
	require.NoError(t, conflicts.Update(ctx, resolved))

	require.NoError(t, store.ApprovalStore().Create(ctx, &domain.ApprovalRequest{
		ConflictID: resolved.ID, Level: domain.ApprovalSupervisor, Approver: "jdoe",
	}))

	stats, err := conflicts.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[domain.ResolutionPending])
	assert.Equal(t, 1, stats.ByStatus[domain.ResolutionResolved])
	assert.Equal(t, 1, stats.ByType[domain.ConflictNumeric])
	assert.Equal(t, 1, stats.ByResolution[domain.ResolveDismiss])
	assert.Equal(t, 1, stats.PendingApprovals)
}

func TestAuditLog(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	err := store.AuditLog().Record(ctx, driven.AuditEvent{
		ID:      "evt-1",
		User:    "system",
		Action:  "ingest",
		Details: "manual dom-alpha: 3 chunks",
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM audit_log").Scan(&count))
	assert.Equal(t, 1, count)
}
