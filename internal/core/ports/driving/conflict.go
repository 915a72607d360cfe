package driving

import (
	"context"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driven"
)

// ResolveRequest carries one resolution decision.
type ResolveRequest struct {
	// ConflictID is the display id (CONF_001).
	ConflictID string

	// Type is how the conflict is being resolved.
	Type domain.ResolutionType

	// ResolvedBy is the acting identity.
	ResolvedBy string

	// Notes is free text attached to the resolution.
	Notes string
}

// ConflictService owns the conflict register: detection, resolution
// and the sign-off workflow.
type ConflictService interface {
	// DetectAll scans every topic group and persists new conflicts.
	// Returns the conflicts created by this scan.
	DetectAll(ctx context.Context) ([]domain.Conflict, error)

	// Get retrieves one conflict with its chunk contexts.
	Get(ctx context.Context, id string) (*domain.Conflict, error)

	// List returns conflicts in a lifecycle state.
	List(ctx context.Context, status domain.ResolutionStatus) ([]domain.Conflict, error)

	// Resolve applies a resolution to a pending conflict. Dismiss moves
	// the conflict to dismissed; everything else moves it to resolved.
	Resolve(ctx context.Context, req ResolveRequest) error

	// RequestApproval opens a sign-off request for a resolved conflict.
	RequestApproval(ctx context.Context, conflictID, approver string, level domain.ApprovalLevel) error

	// Approve and Reject act on the pending request addressed to approver.
	Approve(ctx context.Context, conflictID, approver, comments string) error
	Reject(ctx context.Context, conflictID, approver, comments string) error

	// PendingApprovals lists open requests, optionally for one approver.
	PendingApprovals(ctx context.Context, approver string) ([]domain.ApprovalRequest, error)

	// Stats summarises the register.
	Stats(ctx context.Context) (*driven.ConflictStats, error)
}
