package workflow

import "fmt"

// Status is the single authoritative lifecycle position of an AFT request.
// The string values are part of the persisted and wire contract and must
// round-trip exactly.
type Status string

const (
	StatusDraft                 Status = "draft"
	StatusSubmitted             Status = "submitted"
	StatusPendingDAO            Status = "pending_dao"
	StatusPendingApprover       Status = "pending_approver"
	StatusPendingCPSO           Status = "pending_cpso"
	StatusApproved              Status = "approved"
	StatusPendingDTA            Status = "pending_dta"
	StatusActiveTransfer        Status = "active_transfer"
	StatusPendingSME            Status = "pending_sme"
	StatusPendingMediaCustodian Status = "pending_media_custodian"
	StatusCompleted             Status = "completed"
	StatusDisposed              Status = "disposed"
	StatusRejected              Status = "rejected"
	StatusCancelled             Status = "cancelled"
)

// legacyPendingSMESignature appears in data written by earlier versions of
// the system, which used it interchangeably with pending_sme. It is accepted
// on read and normalized to StatusPendingSME; it is never written.
const legacyPendingSMESignature = "pending_sme_signature"

// ParseStatus validates and normalizes a persisted status value.
// Unknown values are a hard error: a request row with an unrecognized
// status must never be silently coerced.
func ParseStatus(s string) (Status, error) {
	if s == legacyPendingSMESignature {
		return StatusPendingSME, nil
	}
	status := Status(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("unknown request status: %q", s)
	}
	return status, nil
}

// transitions is the directed lifecycle graph. Every status write performed
// by a transition operation must correspond to an edge here.
var transitions = map[Status][]Status{
	StatusDraft:           {StatusPendingDAO, StatusPendingApprover, StatusCancelled},
	StatusSubmitted:       {StatusPendingDAO, StatusPendingApprover, StatusDraft, StatusRejected, StatusCancelled},
	StatusPendingDAO:      {StatusPendingApprover, StatusPendingCPSO, StatusDraft, StatusRejected, StatusCancelled},
	StatusPendingApprover: {StatusPendingCPSO, StatusDraft, StatusRejected, StatusCancelled},
	StatusPendingCPSO:     {StatusPendingDTA, StatusDraft, StatusRejected, StatusCancelled},
	// approved is retained for rows written before CPSO approval dispatched
	// straight to the DTA queue; DTA operations accept it alongside pending_dta.
	StatusApproved:              {StatusActiveTransfer, StatusPendingSME},
	StatusPendingDTA:            {StatusActiveTransfer, StatusPendingSME},
	StatusActiveTransfer:        {StatusPendingSME},
	StatusPendingSME:            {StatusPendingMediaCustodian},
	StatusPendingMediaCustodian: {StatusCompleted, StatusDisposed},
	StatusRejected:              {StatusPendingDAO, StatusPendingApprover},
	StatusCompleted:             {},
	StatusDisposed:              {},
	StatusCancelled:             {},
}

// CanTransition reports whether the lifecycle graph contains an edge from
// one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable in one step from the given
// status. The returned slice must not be mutated.
func NextStatuses(from Status) []Status {
	return transitions[from]
}

// IsTerminal reports whether a status is absorbing. Rejected is terminal for
// every actor except the owning requestor, who may resubmit.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusDisposed, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsPreApproval reports whether a request has not yet cleared the approval
// chain. Cancellation is only permitted in this window.
func (s Status) IsPreApproval() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusPendingDAO, StatusPendingApprover, StatusPendingCPSO:
		return true
	}
	return false
}

// TransferDirection is the classification boundary a request crosses.
type TransferDirection string

const (
	DirectionHighToLow TransferDirection = "high-to-low"
	DirectionLowToHigh TransferDirection = "low-to-high"
	DirectionSameLevel TransferDirection = "same-level"
)

// FirstApprovalStage returns the stage a request enters on submission.
// High-to-low transfers require DAO review first; everything else goes to
// the ISSM/ISSO approver. This is the only conditional fork in the graph.
func FirstApprovalStage(direction TransferDirection) Status {
	if direction == DirectionHighToLow {
		return StatusPendingDAO
	}
	return StatusPendingApprover
}

// NextApprovalStage returns the status an approval at the given stage
// advances to. With dualApproval enabled, high-to-low transfers pass through
// the approver stage between DAO and CPSO review.
func NextApprovalStage(current Status, direction TransferDirection, dualApproval bool) (Status, error) {
	switch current {
	case StatusSubmitted:
		return FirstApprovalStage(direction), nil
	case StatusPendingDAO:
		if dualApproval {
			return StatusPendingApprover, nil
		}
		return StatusPendingCPSO, nil
	case StatusPendingApprover:
		return StatusPendingCPSO, nil
	case StatusPendingCPSO:
		return StatusPendingDTA, nil
	}
	return "", fmt.Errorf("status %q is not an approval stage", current)
}

// ApprovalRoleForStage returns the role whose signature an approval stage is
// waiting on. For submitted requests that is the role which would receive
// the request next, so that a reject-before-dispatch lands with the right
// reviewer.
func ApprovalRoleForStage(status Status, direction TransferDirection) (Role, error) {
	switch status {
	case StatusSubmitted:
		if direction == DirectionHighToLow {
			return RoleDAO, nil
		}
		return RoleApprover, nil
	case StatusPendingDAO:
		return RoleDAO, nil
	case StatusPendingApprover:
		return RoleApprover, nil
	case StatusPendingCPSO:
		return RoleCPSO, nil
	}
	return "", fmt.Errorf("status %q is not an approval stage", status)
}
