package workflow

import "fmt"

// Role identifies a workflow participant. The string values are persisted
// and must round-trip exactly.
type Role string

const (
	RoleRequestor      Role = "requestor"
	RoleDAO            Role = "dao"
	RoleApprover       Role = "approver"
	RoleCPSO           Role = "cpso"
	RoleDTA            Role = "dta"
	RoleSME            Role = "sme"
	RoleMediaCustodian Role = "media_custodian"
	RoleAdmin          Role = "admin"
)

var knownRoles = map[Role]struct{}{
	RoleRequestor:      {},
	RoleDAO:            {},
	RoleApprover:       {},
	RoleCPSO:           {},
	RoleDTA:            {},
	RoleSME:            {},
	RoleMediaCustodian: {},
	RoleAdmin:          {},
}

// ParseRole validates a role value
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if _, ok := knownRoles[role]; !ok {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return role, nil
}

// Action labels recorded in the audit log. RESUBMITTED is distinct from
// SUBMITTED so that security reviews can trace the reject/fix/resubmit loop.
const (
	ActionCreated            = "CREATED"
	ActionSubmitted          = "SUBMITTED"
	ActionResubmitted        = "RESUBMITTED"
	ActionUpdated            = "UPDATED"
	ActionApproved           = "APPROVED"
	ActionRejected           = "REJECTED"
	ActionCancelled          = "CANCELLED"
	ActionAntivirusScan      = "ANTIVIRUS_SCAN_RECORDED"
	ActionTransferInitiated  = "TRANSFER_INITIATED"
	ActionDTASigned          = "DTA_SIGNED"
	ActionSMESigned          = "SME_SIGNED"
	ActionDispositionApplied = "DISPOSITION_COMPLETED"
	ActionDeleted            = "DELETED"
)
