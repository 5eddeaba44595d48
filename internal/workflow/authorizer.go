package workflow

import (
	"errors"
	"fmt"
)

// Operation names a lifecycle operation gated by the authorization table.
type Operation string

const (
	OpSubmit           Operation = "submit"
	OpApprove          Operation = "approve"
	OpReject           Operation = "reject"
	OpCancel           Operation = "cancel"
	OpReturnToDraft    Operation = "return-to-draft"
	OpRecordScan       Operation = "record-antivirus-scan"
	OpInitiateTransfer Operation = "initiate-transfer"
	OpDTASign          Operation = "dta-sign"
	OpSMESign          Operation = "sme-sign"
	OpDisposition      Operation = "media-custodian-disposition"
	OpEdit             Operation = "edit"
	OpDelete           Operation = "delete"
)

// ErrForbidden and ErrInvalidState let callers map authorization failures to
// the service error taxonomy without string matching.
var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
)

// Actor is the authenticated user performing an operation. ActingRole is the
// explicitly selected role for this call, never ambient session state, so
// the authorizer stays pure and testable.
type Actor struct {
	UserID     string
	Name       string
	Email      string
	ActingRole Role
	Roles      []Role
}

// IsAdmin reports whether the actor holds the admin role at all, regardless
// of the role they are acting as.
func (a Actor) IsAdmin() bool {
	for _, r := range a.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// HasRole reports whether the actor's effective role set contains the role.
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RequestView is the slice of request state the authorizer needs.
type RequestView struct {
	RequestorID string
	Status      Status
	Direction   TransferDirection
}

// rule declares the gate for one operation: which statuses it accepts and
// which roles may perform it. approvalStage rules derive the allowed role
// from the request's current stage instead of a fixed set.
type rule struct {
	statuses      []Status
	roles         []Role
	ownerOnly     bool
	approvalStage bool
	noStatusGate  bool
}

// rules is the single authorization table consulted by every transition.
// Keeping it in one place is deliberate: per-endpoint role checks are how
// the gaps crept into earlier versions of this workflow.
var rules = map[Operation]rule{
	OpSubmit: {
		statuses:  []Status{StatusDraft, StatusRejected},
		roles:     []Role{RoleRequestor},
		ownerOnly: true,
	},
	OpApprove: {
		statuses:      []Status{StatusSubmitted, StatusPendingDAO, StatusPendingApprover, StatusPendingCPSO},
		approvalStage: true,
	},
	OpReject: {
		statuses:      []Status{StatusSubmitted, StatusPendingDAO, StatusPendingApprover, StatusPendingCPSO},
		approvalStage: true,
	},
	OpCancel: {
		statuses:  []Status{StatusDraft, StatusSubmitted, StatusPendingDAO, StatusPendingApprover, StatusPendingCPSO},
		roles:     []Role{RoleRequestor},
		ownerOnly: true,
	},
	OpReturnToDraft: {
		statuses:  []Status{StatusSubmitted, StatusPendingDAO, StatusPendingApprover, StatusPendingCPSO},
		roles:     []Role{RoleRequestor},
		ownerOnly: true,
	},
	OpRecordScan: {
		// Scan results may be recorded at any point during or after the
		// transfer, per domain procedure. Terminal statuses still refuse.
		roles:        []Role{RoleDTA},
		noStatusGate: true,
	},
	OpInitiateTransfer: {
		statuses: []Status{StatusPendingDTA, StatusApproved},
		roles:    []Role{RoleDTA},
	},
	OpDTASign: {
		statuses: []Status{StatusPendingDTA, StatusActiveTransfer, StatusApproved},
		roles:    []Role{RoleDTA},
	},
	OpSMESign: {
		statuses: []Status{StatusPendingSME},
		roles:    []Role{RoleSME},
	},
	OpDisposition: {
		statuses: []Status{StatusPendingMediaCustodian},
		roles:    []Role{RoleMediaCustodian},
	},
	OpEdit: {
		statuses:  []Status{StatusDraft, StatusRejected},
		roles:     []Role{RoleRequestor},
		ownerOnly: true,
	},
	OpDelete: {
		statuses:  []Status{StatusDraft},
		roles:     []Role{RoleRequestor},
		ownerOnly: true,
	},
}

// Authorize gates one operation against the table. Check order follows the
// propagation policy: role and ownership (Forbidden) before the status
// precondition (InvalidState), so a caller who may never act on a request
// learns nothing about where it sits in the pipeline.
//
// Admins bypass role and ownership checks but never the status gate:
// terminal states are irreversible for everyone.
func Authorize(op Operation, actor Actor, req RequestView) error {
	r, ok := rules[op]
	if !ok {
		return fmt.Errorf("%w: unknown operation %q", ErrForbidden, op)
	}

	if !actor.IsAdmin() {
		if r.approvalStage {
			required, err := ApprovalRoleForStage(req.Status, req.Direction)
			if err != nil {
				// Not an approval stage at all; report the status problem
				// only after confirming the actor holds some approval role.
				if !actor.HasRole(RoleDAO) && !actor.HasRole(RoleApprover) && !actor.HasRole(RoleCPSO) {
					return fmt.Errorf("%w: %s requires an approval role", ErrForbidden, op)
				}
				return fmt.Errorf("%w: request is in status %q", ErrInvalidState, req.Status)
			}
			if actor.ActingRole != required || !actor.HasRole(required) {
				return fmt.Errorf("%w: %s at status %q requires role %q", ErrForbidden, op, req.Status, required)
			}
		} else {
			allowed := false
			for _, role := range r.roles {
				if actor.ActingRole == role && actor.HasRole(role) {
					allowed = true
					break
				}
			}
			if !allowed {
				return fmt.Errorf("%w: %s requires one of roles %v", ErrForbidden, op, r.roles)
			}
			if r.ownerOnly && actor.UserID != req.RequestorID {
				return fmt.Errorf("%w: %s is limited to the owning requestor", ErrForbidden, op)
			}
		}
	}

	if r.noStatusGate {
		if req.Status.IsTerminal() {
			return fmt.Errorf("%w: request is in terminal status %q", ErrInvalidState, req.Status)
		}
		return nil
	}
	if len(r.statuses) > 0 {
		for _, s := range r.statuses {
			if req.Status == s {
				return nil
			}
		}
		return fmt.Errorf("%w: %s not permitted while request is in status %q", ErrInvalidState, op, req.Status)
	}
	return nil
}

// AuthorizeEdit applies the PUT rule: requestors edit their own drafts and
// rejected requests, admins edit regardless of status.
func AuthorizeEdit(actor Actor, req RequestView) error {
	if actor.IsAdmin() {
		return nil
	}
	return Authorize(OpEdit, actor, req)
}

// CanRead implements role-scoped visibility: a requestor sees their own
// requests; approval roles see requests at their pending stage or requests
// they have already signed; DTA-chain roles see their segment of the
// pipeline or anything bearing their signature; admins see everything.
func CanRead(actor Actor, req RequestView, approvals ApprovalData, transfer *TransferData) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.UserID == req.RequestorID {
		return true
	}

	for _, role := range actor.Roles {
		switch role {
		case RoleDAO, RoleApprover, RoleCPSO:
			if required, err := ApprovalRoleForStage(req.Status, req.Direction); err == nil && required == role {
				return true
			}
			// Archived cycles count too: a reviewer keeps access to what
			// they signed before a rejection.
			if approvals.SignedBy(actor.UserID) {
				return true
			}
		case RoleDTA:
			if inTransferPipeline(req.Status) {
				return true
			}
			if transfer != nil && transfer.SignedBy(actor.UserID) {
				return true
			}
		case RoleSME:
			if req.Status == StatusPendingSME || req.Status == StatusPendingMediaCustodian {
				return true
			}
			if transfer != nil && transfer.SMESignature != nil && transfer.SMESignature.Actor.ID == actor.UserID {
				return true
			}
		case RoleMediaCustodian:
			if req.Status == StatusPendingMediaCustodian {
				return true
			}
			if transfer != nil && transfer.MediaCustodianSignature != nil && transfer.MediaCustodianSignature.Actor.ID == actor.UserID {
				return true
			}
		}
	}
	return false
}

func inTransferPipeline(s Status) bool {
	switch s {
	case StatusApproved, StatusPendingDTA, StatusActiveTransfer, StatusPendingSME, StatusPendingMediaCustodian:
		return true
	}
	return false
}
