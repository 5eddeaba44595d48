package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus_KnownValues(t *testing.T) {
	for status := range transitions {
		t.Run(string(status), func(t *testing.T) {
			parsed, err := ParseStatus(string(status))
			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		})
	}
}

func TestParseStatus_LegacyAlias(t *testing.T) {
	parsed, err := ParseStatus("pending_sme_signature")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingSME, parsed)
}

func TestParseStatus_UnknownIsHardError(t *testing.T) {
	for _, value := range []string{"", "DRAFT", "in_review", "pending-sme"} {
		_, err := ParseStatus(value)
		assert.Error(t, err, "value %q must not parse", value)
	}
}

func TestCanTransition_DirectionBranch(t *testing.T) {
	assert.True(t, CanTransition(StatusDraft, StatusPendingDAO))
	assert.True(t, CanTransition(StatusDraft, StatusPendingApprover))
	assert.False(t, CanTransition(StatusDraft, StatusPendingCPSO))
	assert.False(t, CanTransition(StatusDraft, StatusApproved))
}

func TestCanTransition_TerminalStatusesAreAbsorbing(t *testing.T) {
	for _, terminal := range []Status{StatusCompleted, StatusDisposed, StatusCancelled} {
		assert.Empty(t, NextStatuses(terminal), "%s must have no outgoing edges", terminal)
	}
	// Rejected is terminal for everyone except the owning requestor, who
	// resubmits back into the approval chain.
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, CanTransition(StatusRejected, StatusPendingDAO))
	assert.True(t, CanTransition(StatusRejected, StatusPendingApprover))
	assert.False(t, CanTransition(StatusRejected, StatusDraft))
}

func TestIsPreApproval(t *testing.T) {
	pre := []Status{StatusDraft, StatusSubmitted, StatusPendingDAO, StatusPendingApprover, StatusPendingCPSO}
	for _, s := range pre {
		assert.True(t, s.IsPreApproval(), "%s should be pre-approval", s)
	}
	post := []Status{StatusApproved, StatusPendingDTA, StatusActiveTransfer, StatusPendingSME,
		StatusPendingMediaCustodian, StatusCompleted, StatusDisposed, StatusRejected, StatusCancelled}
	for _, s := range post {
		assert.False(t, s.IsPreApproval(), "%s should not be pre-approval", s)
	}
}

func TestFirstApprovalStage(t *testing.T) {
	assert.Equal(t, StatusPendingDAO, FirstApprovalStage(DirectionHighToLow))
	assert.Equal(t, StatusPendingApprover, FirstApprovalStage(DirectionLowToHigh))
	assert.Equal(t, StatusPendingApprover, FirstApprovalStage(DirectionSameLevel))
}

func TestNextApprovalStage_SingleApproval(t *testing.T) {
	next, err := NextApprovalStage(StatusPendingDAO, DirectionHighToLow, false)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingCPSO, next)

	next, err = NextApprovalStage(StatusPendingApprover, DirectionLowToHigh, false)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingCPSO, next)

	next, err = NextApprovalStage(StatusPendingCPSO, DirectionHighToLow, false)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingDTA, next)
}

func TestNextApprovalStage_DualApproval(t *testing.T) {
	next, err := NextApprovalStage(StatusPendingDAO, DirectionHighToLow, true)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingApprover, next)
}

func TestNextApprovalStage_NotAnApprovalStage(t *testing.T) {
	_, err := NextApprovalStage(StatusActiveTransfer, DirectionHighToLow, false)
	assert.Error(t, err)
}

func TestApprovalRoleForStage(t *testing.T) {
	tests := []struct {
		status    Status
		direction TransferDirection
		want      Role
	}{
		{StatusSubmitted, DirectionHighToLow, RoleDAO},
		{StatusSubmitted, DirectionLowToHigh, RoleApprover},
		{StatusPendingDAO, DirectionHighToLow, RoleDAO},
		{StatusPendingApprover, DirectionSameLevel, RoleApprover},
		{StatusPendingCPSO, DirectionHighToLow, RoleCPSO},
	}
	for _, tt := range tests {
		role, err := ApprovalRoleForStage(tt.status, tt.direction)
		require.NoError(t, err)
		assert.Equal(t, tt.want, role, "status %s direction %s", tt.status, tt.direction)
	}

	_, err := ApprovalRoleForStage(StatusPendingDTA, DirectionHighToLow)
	assert.Error(t, err)
}

// Every non-terminal status must be able to reach a terminal status, so a
// request can never get stuck mid-pipeline.
func TestGraph_EveryStatusReachesTerminal(t *testing.T) {
	for start := range transitions {
		if start.IsTerminal() {
			continue
		}
		visited := map[Status]bool{}
		queue := []Status{start}
		reached := false
		for len(queue) > 0 && !reached {
			current := queue[0]
			queue = queue[1:]
			if visited[current] {
				continue
			}
			visited[current] = true
			if current.IsTerminal() {
				reached = true
				break
			}
			queue = append(queue, transitions[current]...)
		}
		assert.True(t, reached, "status %s cannot reach a terminal status", start)
	}
}
