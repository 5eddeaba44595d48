package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actorWith(userID string, acting Role, roles ...Role) Actor {
	return Actor{
		UserID:     userID,
		Name:       "Test User",
		Email:      "test@example.mil",
		ActingRole: acting,
		Roles:      roles,
	}
}

func TestAuthorize_SubmitOwnerOnly(t *testing.T) {
	req := RequestView{RequestorID: "user-1", Status: StatusDraft, Direction: DirectionHighToLow}

	owner := actorWith("user-1", RoleRequestor, RoleRequestor)
	assert.NoError(t, Authorize(OpSubmit, owner, req))

	stranger := actorWith("user-2", RoleRequestor, RoleRequestor)
	err := Authorize(OpSubmit, stranger, req)
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestAuthorize_RoleBeforeStatus(t *testing.T) {
	// A DTA probing a draft request must get Forbidden, not InvalidState:
	// the status precondition is only reported to actors who could ever act.
	req := RequestView{RequestorID: "user-1", Status: StatusDraft, Direction: DirectionHighToLow}

	dta := actorWith("user-9", RoleSME, RoleSME)
	err := Authorize(OpDTASign, dta, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrInvalidState))
}

func TestAuthorize_StatusGateAfterRole(t *testing.T) {
	req := RequestView{RequestorID: "user-1", Status: StatusDraft, Direction: DirectionHighToLow}

	dta := actorWith("user-9", RoleDTA, RoleDTA)
	err := Authorize(OpDTASign, dta, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestAuthorize_ApprovalStageDerivesRole(t *testing.T) {
	req := RequestView{RequestorID: "user-1", Status: StatusPendingDAO, Direction: DirectionHighToLow}

	dao := actorWith("dao-1", RoleDAO, RoleDAO)
	assert.NoError(t, Authorize(OpApprove, dao, req))

	// Holding the role is not enough; the actor must also act as it.
	wrongHat := actorWith("dao-1", RoleRequestor, RoleDAO, RoleRequestor)
	err := Authorize(OpApprove, wrongHat, req)
	assert.True(t, errors.Is(err, ErrForbidden))

	cpso := actorWith("cpso-1", RoleCPSO, RoleCPSO)
	err = Authorize(OpApprove, cpso, req)
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestAuthorize_ApproveOutsideApprovalChain(t *testing.T) {
	req := RequestView{RequestorID: "user-1", Status: StatusActiveTransfer, Direction: DirectionHighToLow}

	// An approval-role holder gets the status problem.
	cpso := actorWith("cpso-1", RoleCPSO, RoleCPSO)
	err := Authorize(OpApprove, cpso, req)
	assert.True(t, errors.Is(err, ErrInvalidState))

	// A non-approval actor gets Forbidden.
	dta := actorWith("dta-1", RoleDTA, RoleDTA)
	err = Authorize(OpApprove, dta, req)
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestAuthorize_AdminBypassesRolesNotStatus(t *testing.T) {
	admin := actorWith("admin-1", RoleAdmin, RoleAdmin)

	pending := RequestView{RequestorID: "user-1", Status: StatusPendingCPSO, Direction: DirectionLowToHigh}
	assert.NoError(t, Authorize(OpApprove, admin, pending))
	assert.NoError(t, Authorize(OpReject, admin, pending))

	completed := RequestView{RequestorID: "user-1", Status: StatusCompleted, Direction: DirectionLowToHigh}
	err := Authorize(OpApprove, admin, completed)
	assert.True(t, errors.Is(err, ErrInvalidState), "terminal statuses are irreversible even for admins")
}

func TestAuthorize_CancelOnlyPreApproval(t *testing.T) {
	owner := actorWith("user-1", RoleRequestor, RoleRequestor)

	for _, s := range []Status{StatusDraft, StatusSubmitted, StatusPendingDAO, StatusPendingApprover, StatusPendingCPSO} {
		req := RequestView{RequestorID: "user-1", Status: s, Direction: DirectionHighToLow}
		assert.NoError(t, Authorize(OpCancel, owner, req), "cancel should be allowed at %s", s)
	}
	for _, s := range []Status{StatusPendingDTA, StatusActiveTransfer, StatusPendingSME, StatusCompleted} {
		req := RequestView{RequestorID: "user-1", Status: s, Direction: DirectionHighToLow}
		err := Authorize(OpCancel, owner, req)
		assert.True(t, errors.Is(err, ErrInvalidState), "cancel must be refused at %s", s)
	}
}

func TestAuthorize_RecordScanRefusedOnTerminal(t *testing.T) {
	dta := actorWith("dta-1", RoleDTA, RoleDTA)

	active := RequestView{RequestorID: "user-1", Status: StatusActiveTransfer, Direction: DirectionHighToLow}
	assert.NoError(t, Authorize(OpRecordScan, dta, active))

	// Scan results may arrive after the SME has the request.
	late := RequestView{RequestorID: "user-1", Status: StatusPendingSME, Direction: DirectionHighToLow}
	assert.NoError(t, Authorize(OpRecordScan, dta, late))

	cancelled := RequestView{RequestorID: "user-1", Status: StatusCancelled, Direction: DirectionHighToLow}
	err := Authorize(OpRecordScan, dta, cancelled)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestAuthorizeEdit(t *testing.T) {
	draft := RequestView{RequestorID: "user-1", Status: StatusDraft, Direction: DirectionHighToLow}
	rejected := RequestView{RequestorID: "user-1", Status: StatusRejected, Direction: DirectionHighToLow}
	pending := RequestView{RequestorID: "user-1", Status: StatusPendingCPSO, Direction: DirectionHighToLow}

	owner := actorWith("user-1", RoleRequestor, RoleRequestor)
	assert.NoError(t, AuthorizeEdit(owner, draft))
	assert.NoError(t, AuthorizeEdit(owner, rejected))
	assert.Error(t, AuthorizeEdit(owner, pending))

	admin := actorWith("admin-1", RoleAdmin, RoleAdmin)
	assert.NoError(t, AuthorizeEdit(admin, pending))
}

func TestCanRead_RequestorSeesOwnOnly(t *testing.T) {
	req := RequestView{RequestorID: "user-1", Status: StatusPendingCPSO, Direction: DirectionHighToLow}

	owner := actorWith("user-1", RoleRequestor, RoleRequestor)
	assert.True(t, CanRead(owner, req, ApprovalData{}, &TransferData{}))

	other := actorWith("user-2", RoleRequestor, RoleRequestor)
	assert.False(t, CanRead(other, req, ApprovalData{}, &TransferData{}))
}

func TestCanRead_ApproverSeesStageOrOwnSignature(t *testing.T) {
	dao := actorWith("dao-1", RoleDAO, RoleDAO)

	atStage := RequestView{RequestorID: "user-1", Status: StatusPendingDAO, Direction: DirectionHighToLow}
	assert.True(t, CanRead(dao, atStage, ApprovalData{}, &TransferData{}))

	// Past the DAO stage and unsigned by this DAO: invisible.
	pastStage := RequestView{RequestorID: "user-1", Status: StatusPendingCPSO, Direction: DirectionHighToLow}
	assert.False(t, CanRead(dao, pastStage, ApprovalData{}, &TransferData{}))

	// Signed by this DAO: visible for the rest of its life.
	signed := ApprovalData{
		RoleDAO: {Actor: SignerIdentity{ID: "dao-1", Name: "DAO", Role: RoleDAO}, Signature: "sig", SignedAt: 1},
	}
	assert.True(t, CanRead(dao, pastStage, signed, &TransferData{}))

	// A signature retired by a resubmission still grants access.
	signed.Archive()
	assert.True(t, CanRead(dao, pastStage, signed, &TransferData{}))
}

func TestCanRead_DTAPipelineAndSignature(t *testing.T) {
	dta := actorWith("dta-1", RoleDTA, RoleDTA)

	inPipeline := RequestView{RequestorID: "user-1", Status: StatusPendingDTA, Direction: DirectionHighToLow}
	assert.True(t, CanRead(dta, inPipeline, ApprovalData{}, &TransferData{}))

	preApproval := RequestView{RequestorID: "user-1", Status: StatusPendingDAO, Direction: DirectionHighToLow}
	assert.False(t, CanRead(dta, preApproval, ApprovalData{}, &TransferData{}))

	completed := RequestView{RequestorID: "user-1", Status: StatusCompleted, Direction: DirectionHighToLow}
	assert.False(t, CanRead(dta, completed, ApprovalData{}, &TransferData{}))

	withSig := &TransferData{
		DTASignature: &SignatureRecord{Actor: SignerIdentity{ID: "dta-1", Name: "DTA", Role: RoleDTA}, Signature: "sig", SignedAt: 1},
	}
	assert.True(t, CanRead(dta, completed, ApprovalData{}, withSig))
}

func TestCanRead_AdminSeesEverything(t *testing.T) {
	admin := actorWith("admin-1", RoleAdmin, RoleAdmin)
	req := RequestView{RequestorID: "user-1", Status: StatusDraft, Direction: DirectionSameLevel}
	assert.True(t, CanRead(admin, req, ApprovalData{}, &TransferData{}))
}
