package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oceanic-labs/manualmind/internal/conflict"
	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driven"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driving"
	"github.com/oceanic-labs/manualmind/internal/logger"
	"github.com/oceanic-labs/manualmind/internal/units"
)

// Ensure ConflictService implements the interface.
var _ driving.ConflictService = (*ConflictService)(nil)

// ConflictService owns the conflict register: detection scans, the
// resolution state machine and the sign-off workflow.
type ConflictService struct {
	conflictStore driven.ConflictStore
	chunkStore    driven.ChunkStore
	approvalStore driven.ApprovalStore
	auditLog      driven.AuditLog
}

// NewConflictService creates a new conflict service.
func NewConflictService(
	conflictStore driven.ConflictStore,
	chunkStore driven.ChunkStore,
	approvalStore driven.ApprovalStore,
	auditLog driven.AuditLog,
) *ConflictService {
	return &ConflictService{
		conflictStore: conflictStore,
		chunkStore:    chunkStore,
		approvalStore: approvalStore,
		auditLog:      auditLog,
	}
}

// DetectAll scans every stored chunk for conflicts within topic groups
// and persists the findings not already on the register. Conflicting
// chunks are annotated with the conflict type.
func (s *ConflictService) DetectAll(ctx context.Context) ([]domain.Conflict, error) {
	chunks, err := s.chunkStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}

	logger.Section("Conflict Detection")
	logger.Debug("Scanning %d chunks", len(chunks))

	findings := conflict.Detect(chunks)
	logger.Info("Detector produced %d findings", len(findings))

	existing, err := s.conflictStore.ListByStatus(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("loading register: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[pairKey(c.Chunk1ID, c.Chunk2ID, c.Type)] = true
	}

	var created []domain.Conflict
	for _, f := range findings {
		key := pairKey(f.Chunk1ID, f.Chunk2ID, f.Type)
		if seen[key] {
			continue
		}
		seen[key] = true

		c := domain.Conflict{
			Chunk1ID:   f.Chunk1ID,
			Chunk2ID:   f.Chunk2ID,
			TopicID:    f.TopicID,
			Type:       f.Type,
			Status:     domain.ResolutionPending,
			DetectedAt: time.Now().UTC(),
			Detail:     f.Detail,
			Context1:   f.Context1,
			Context2:   f.Context2,
		}
		if err := s.conflictStore.Create(ctx, &c); err != nil {
			return nil, fmt.Errorf("persisting conflict: %w", err)
		}

		for _, chunkID := range []string{f.Chunk1ID, f.Chunk2ID} {
			if err := s.chunkStore.SetConflictType(ctx, chunkID, f.Type); err != nil {
				logger.Warn("Annotating chunk %s failed: %v", chunkID, err)
			}
		}

		s.audit(ctx, "system", "conflict_created", fmt.Sprintf("%s: %s (%s vs %s)", c.ID, c.Detail, c.Chunk1ID, c.Chunk2ID))
		created = append(created, c)
	}

	logger.Info("Registered %d new conflicts", len(created))
	return created, nil
}

// Get retrieves one conflict.
func (s *ConflictService) Get(ctx context.Context, id string) (*domain.Conflict, error) {
	return s.conflictStore.Get(ctx, id)
}

// List returns conflicts in a lifecycle state; empty status means all.
func (s *ConflictService) List(ctx context.Context, status domain.ResolutionStatus) ([]domain.Conflict, error) {
	return s.conflictStore.ListByStatus(ctx, status)
}

// Resolve applies a resolution to a pending conflict.
func (s *ConflictService) Resolve(ctx context.Context, req driving.ResolveRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("%w: unknown resolution type %q", domain.ErrInvalidInput, req.Type)
	}
	if req.ResolvedBy == "" {
		return fmt.Errorf("%w: resolver identity is required", domain.ErrInvalidInput)
	}

	c, err := s.conflictStore.Get(ctx, req.ConflictID)
	if err != nil {
		return err
	}
	if !c.CanResolve() {
		return fmt.Errorf("%w: conflict %s is %s", domain.ErrInvalidState, c.ID, c.Status)
	}

	c.ResolutionType = req.Type
	c.ResolvedBy = req.ResolvedBy
	c.ResolvedAt = time.Now().UTC()
	c.ResolutionNotes = req.Notes

	if req.Type == domain.ResolveDismiss {
		c.Status = domain.ResolutionDismissed
	} else {
		c.Status = domain.ResolutionResolved
	}

	if req.Type == domain.ResolveConvertUnits {
		s.recordConversion(ctx, c)
	}

	if err := s.conflictStore.Update(ctx, c); err != nil {
		return fmt.Errorf("updating conflict: %w", err)
	}

	s.audit(ctx, req.ResolvedBy, "conflict_resolved", fmt.Sprintf("%s: %s (%s)", c.ID, req.Type, req.Notes))
	return nil
}

// recordConversion fills the unit-conversion bookkeeping for a
// convert_units resolution on a unit_mismatch conflict. Both chunks
// must still exist and disagree on exactly one unit pair.
func (s *ConflictService) recordConversion(ctx context.Context, c *domain.Conflict) {
	chunk1, err1 := s.chunkStore.Get(ctx, c.Chunk1ID)
	chunk2, err2 := s.chunkStore.Get(ctx, c.Chunk2ID)
	if err1 != nil || err2 != nil {
		logger.Warn("Conversion bookkeeping skipped for %s: chunks unavailable", c.ID)
		return
	}

	from, to := conversionPair(chunk1.Units, chunk2.Units)
	if from == "" || to == "" {
		return
	}

	factor, ok := units.Factor(from, to)
	if !ok {
		logger.Warn("No conversion from %s to %s for %s", from, to, c.ID)
		return
	}

	c.OriginalUnit = from
	c.ConvertedUnit = to
	c.ConversionFactor = factor
}

// conversionPair finds the first unit present in a but not b paired
// with the first unit present in b but not a.
func conversionPair(a, b []domain.UnitMeasurement) (from, to string) {
	inA := make(map[string]bool)
	for _, u := range a {
		inA[u.Unit] = true
	}
	inB := make(map[string]bool)
	for _, u := range b {
		inB[u.Unit] = true
	}

	for _, u := range a {
		if !inB[u.Unit] && from == "" {
			from = u.Unit
		}
	}
	for _, u := range b {
		if !inA[u.Unit] && to == "" {
			to = u.Unit
		}
	}
	return from, to
}

// RequestApproval opens a sign-off request for a resolved conflict.
func (s *ConflictService) RequestApproval(ctx context.Context, conflictID, approver string, level domain.ApprovalLevel) error {
	if approver == "" {
		return fmt.Errorf("%w: approver is required", domain.ErrInvalidInput)
	}
	if !level.Valid() {
		return fmt.Errorf("%w: unknown approval level %d", domain.ErrInvalidInput, level)
	}

	c, err := s.conflictStore.Get(ctx, conflictID)
	if err != nil {
		return err
	}
	if !c.CanRequestApproval() {
		return fmt.Errorf("%w: conflict %s is %s, approval needs a resolved conflict", domain.ErrInvalidState, c.ID, c.Status)
	}

	req := &domain.ApprovalRequest{
		ConflictID: conflictID,
		Level:      level,
		Approver:   approver,
	}
	if err := s.approvalStore.Create(ctx, req); err != nil {
		return fmt.Errorf("creating approval request: %w", err)
	}

	s.audit(ctx, approver, "approval_requested", fmt.Sprintf("%s: level %d (%s)", conflictID, level, level))
	return nil
}

// Approve signs off the pending request addressed to approver.
func (s *ConflictService) Approve(ctx context.Context, conflictID, approver, comments string) error {
	if err := s.approvalStore.Act(ctx, conflictID, approver, domain.ApprovalApproved, comments); err != nil {
		return err
	}
	s.audit(ctx, approver, "approval_granted", fmt.Sprintf("%s: %s", conflictID, comments))
	return nil
}

// Reject declines the pending request addressed to approver.
func (s *ConflictService) Reject(ctx context.Context, conflictID, approver, comments string) error {
	if err := s.approvalStore.Act(ctx, conflictID, approver, domain.ApprovalRejected, comments); err != nil {
		return err
	}
	s.audit(ctx, approver, "approval_rejected", fmt.Sprintf("%s: %s", conflictID, comments))
	return nil
}

// PendingApprovals lists open requests, optionally for one approver.
func (s *ConflictService) PendingApprovals(ctx context.Context, approver string) ([]domain.ApprovalRequest, error) {
	return s.approvalStore.ListPending(ctx, approver)
}

// Stats summarises the register.
func (s *ConflictService) Stats(ctx context.Context) (*driven.ConflictStats, error) {
	return s.conflictStore.Stats(ctx)
}

func (s *ConflictService) audit(ctx context.Context, user, action, details string) {
	if s.auditLog == nil {
		return
	}
	err := s.auditLog.Record(ctx, driven.AuditEvent{
		ID:      uuid.NewString(),
		User:    user,
		Action:  action,
		Details: details,
	})
	if err != nil {
		logger.Warn("Audit record failed: %v", err)
	}
}

// pairKey identifies a conflict by its chunk pair and type, direction
// insensitive.
func pairKey(a, b string, t domain.ConflictType) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b + "|" + string(t)
}
