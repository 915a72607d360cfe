package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolutionTypeValid(t *testing.T) {
	for _, rt := range []ResolutionType{
		ResolveAcceptChunk1, ResolveAcceptChunk2, ResolveMerge,
		ResolveDismiss, ResolveConvertUnits, ResolveManualOverride,
	} {
		assert.True(t, rt.Valid(), "type %q", rt)
	}

	assert.False(t, ResolutionType("split_the_difference").Valid())
	assert.False(t, ResolutionType("").Valid())
}

func TestConflictStateMachine(t *testing.T) {
	c := &Conflict{Status: ResolutionPending}
	assert.True(t, c.CanResolve())
	assert.False(t, c.CanRequestApproval())

	c.Status = ResolutionResolved
	assert.False(t, c.CanResolve())
	assert.True(t, c.CanRequestApproval())

	c.Status = ResolutionDismissed
	assert.False(t, c.CanResolve())
	assert.False(t, c.CanRequestApproval())
}

func TestApprovalLevel(t *testing.T) {
	assert.True(t, ApprovalSupervisor.Valid())
	assert.True(t, ApprovalManager.Valid())
	assert.True(t, ApprovalComplianceOfficer.Valid())
	assert.False(t, ApprovalLevel(0).Valid())
	assert.False(t, ApprovalLevel(4).Valid())

	assert.Equal(t, "supervisor", ApprovalSupervisor.String())
	assert.Equal(t, "manager", ApprovalManager.String())
	assert.Equal(t, "compliance officer", ApprovalComplianceOfficer.String())
	assert.Equal(t, "unknown", ApprovalLevel(9).String())
}
