package domain

import "time"

// ConflictType identifies what kind of disagreement was detected.
type ConflictType string

const (
	// ConflictNumeric is two different values carrying the same raw unit word.
	ConflictNumeric ConflictType = "numeric"
	// ConflictUnitMismatch is two chunks measuring the same topic in
	// different canonical units of one category (distance or pressure).
	ConflictUnitMismatch ConflictType = "unit_mismatch"
)

// ResolutionStatus is the lifecycle state of a conflict.
type ResolutionStatus string

const (
	// ResolutionPending means the conflict awaits a resolution.
	ResolutionPending ResolutionStatus = "pending"
	// ResolutionResolved means a resolution has been recorded.
	ResolutionResolved ResolutionStatus = "resolved"
	// ResolutionDismissed means the conflict was reviewed and discarded.
	ResolutionDismissed ResolutionStatus = "dismissed"
	// ResolutionDeferred means the conflict was parked for later review.
	ResolutionDeferred ResolutionStatus = "deferred"
)

// ResolutionType records how a conflict was resolved.
type ResolutionType string

const (
	// ResolveAcceptChunk1 takes the first chunk's value as authoritative.
	ResolveAcceptChunk1 ResolutionType = "accept_chunk1"
	// ResolveAcceptChunk2 takes the second chunk's value as authoritative.
	ResolveAcceptChunk2 ResolutionType = "accept_chunk2"
	// ResolveMerge combines both requirements.
	ResolveMerge ResolutionType = "merge"
	// ResolveDismiss marks the conflict as a false positive.
	ResolveDismiss ResolutionType = "dismiss"
	// ResolveConvertUnits reconciles the values through a unit conversion.
	ResolveConvertUnits ResolutionType = "convert_units"
	// ResolveManualOverride records an out-of-band decision.
	ResolveManualOverride ResolutionType = "manual_override"
)

// Valid reports whether r is a known resolution type.
func (r ResolutionType) Valid() bool {
	switch r {
	case ResolveAcceptChunk1, ResolveAcceptChunk2, ResolveMerge,
		ResolveDismiss, ResolveConvertUnits, ResolveManualOverride:
		return true
	}
	return false
}

// Conflict is a detected disagreement between two chunks sharing a topic.
// Conflicts are created only by the detector scan and never deleted;
// status changes flow through the resolution/approval workflow.
type Conflict struct {
	// ID is the display id, "CONF_%03d", monotonically assigned.
	ID string

	// Chunk1ID and Chunk2ID identify the disagreeing chunks.
	Chunk1ID string
	Chunk2ID string

	// TopicID is the shared topic the chunks were grouped under.
	TopicID string

	// Type is numeric or unit_mismatch.
	Type ConflictType

	// DetectedAt is when the detector emitted this conflict.
	DetectedAt time.Time

	// Status tracks the resolution lifecycle, starting at pending.
	Status ResolutionStatus

	// Resolution fields, populated when Status leaves pending.
	ResolutionType  ResolutionType
	ResolvedBy      string
	ResolvedAt      time.Time
	ResolutionNotes string

	// Detail is a human-readable description of the disagreement.
	Detail string

	// Context1 and Context2 are snippets around the conflicting values.
	Context1 string
	Context2 string

	// Unit conversion bookkeeping, set only for convert_units resolutions.
	OriginalUnit     string
	ConvertedUnit    string
	ConversionFactor float64
}

// CanResolve reports whether the conflict accepts a resolution.
// Only pending conflicts may be resolved.
func (c *Conflict) CanResolve() bool {
	return c.Status == ResolutionPending
}

// CanRequestApproval reports whether an approval may be requested.
// A conflict must be resolved before sign-off can begin.
func (c *Conflict) CanRequestApproval() bool {
	return c.Status == ResolutionResolved
}

// ApprovalStatus is the state of a single approval request.
type ApprovalStatus string

const (
	// ApprovalPending means the approver has not acted yet.
	ApprovalPending ApprovalStatus = "pending"
	// ApprovalApproved means the approver signed off.
	ApprovalApproved ApprovalStatus = "approved"
	// ApprovalRejected means the approver rejected the resolution.
	ApprovalRejected ApprovalStatus = "rejected"
)

// ApprovalLevel ranks approvers.
type ApprovalLevel int

const (
	// ApprovalSupervisor is the first sign-off level.
	ApprovalSupervisor ApprovalLevel = 1
	// ApprovalManager is the second sign-off level.
	ApprovalManager ApprovalLevel = 2
	// ApprovalComplianceOfficer is the final sign-off level.
	ApprovalComplianceOfficer ApprovalLevel = 3
)

// Valid reports whether l is a known approval level.
func (l ApprovalLevel) Valid() bool {
	return l >= ApprovalSupervisor && l <= ApprovalComplianceOfficer
}

// String returns the level's display name.
func (l ApprovalLevel) String() string {
	switch l {
	case ApprovalSupervisor:
		return "supervisor"
	case ApprovalManager:
		return "manager"
	case ApprovalComplianceOfficer:
		return "compliance officer"
	}
	return "unknown"
}

// ApprovalRequest is one sign-off row for a resolved conflict.
type ApprovalRequest struct {
	// ID is assigned by the store.
	ID int64

	// ConflictID links to the conflict being approved.
	ConflictID string

	// Level is the approver's rank.
	Level ApprovalLevel

	// Approver is the identity the request is addressed to.
	Approver string

	// Status starts pending; approve/reject are terminal.
	Status ApprovalStatus

	// ActedAt is when the approver approved or rejected.
	ActedAt time.Time

	// Comments is the approver's note.
	Comments string
}
