package models

import (
	"github.com/assuredtransfer/aft-request-api/internal/workflow"
)

// Request represents the AFT_REQUEST table. Status is the only
// authoritative lifecycle position; it is written exclusively by transition
// operations.
type Request struct {
	RequestID           string  `db:"REQUEST_ID" json:"requestId"`
	RequestNumber       string  `db:"REQUEST_NUMBER" json:"requestNumber"`
	TransferDirection   string  `db:"TRANSFER_DIRECTION" json:"transferDirection"`
	ClassificationLevel string  `db:"CLASSIFICATION_LEVEL" json:"classificationLevel"`
	TransferPurpose     string  `db:"TRANSFER_PURPOSE" json:"transferPurpose"`
	SourceSystem        string  `db:"SOURCE_SYSTEM" json:"sourceSystem"`
	DestSystem          string  `db:"DEST_SYSTEM" json:"destSystem"`
	RequestorID         string  `db:"REQUESTOR_ID" json:"requestorId"`
	ApproverID          *string `db:"APPROVER_ID" json:"approverId,omitempty"`
	DTAID               *string `db:"DTA_ID" json:"dtaId,omitempty"`
	SMEID               *string `db:"SME_ID" json:"smeId,omitempty"`
	CustodianID         *string `db:"CUSTODIAN_ID" json:"custodianId,omitempty"`
	Status              string  `db:"STATUS" json:"status"`
	ApprovalData        JSON    `db:"APPROVAL_DATA" json:"approvalData,omitempty"`
	TransferData        JSON    `db:"TRANSFER_DATA" json:"transferData,omitempty"`
	RejectionReason     *string `db:"REJECTION_REASON" json:"rejectionReason,omitempty"`
	CreatedTime         int64   `db:"CREATED_TIME" json:"createdTime"`
	UpdatedTime         int64   `db:"UPDATED_TIME" json:"updatedTime"`
}

// View projects the request into the slice of state the authorizer reads.
func (r *Request) View() workflow.RequestView {
	return workflow.RequestView{
		RequestorID: r.RequestorID,
		Status:      workflow.Status(r.Status),
		Direction:   workflow.TransferDirection(r.TransferDirection),
	}
}

// RequestCreateRequest is the API payload for creating a draft request
type RequestCreateRequest struct {
	TransferDirection   string `json:"transferDirection" binding:"required"`
	ClassificationLevel string `json:"classificationLevel" binding:"required"`
	TransferPurpose     string `json:"transferPurpose" binding:"required"`
	SourceSystem        string `json:"sourceSystem" binding:"required"`
	DestSystem          string `json:"destSystem" binding:"required"`
}

// RequestUpdateRequest is the API payload for editing a draft or rejected
// request. Status is deliberately absent: field updates never change status.
type RequestUpdateRequest struct {
	TransferDirection   string `json:"transferDirection,omitempty"`
	ClassificationLevel string `json:"classificationLevel,omitempty"`
	TransferPurpose     string `json:"transferPurpose,omitempty"`
	SourceSystem        string `json:"sourceSystem,omitempty"`
	DestSystem          string `json:"destSystem,omitempty"`
}

// SubmitRequest is the API payload for submitting a draft for approval
type SubmitRequest struct {
	Signature string `json:"signature" binding:"required"`
	// binding:"required" on a bool rejects an explicit false at bind time;
	// the transition service owns the acknowledgement check instead.
	TermsAck bool `json:"termsAck"`
}

// ApproveRequest is the API payload for an approval signature
type ApproveRequest struct {
	Signature string `json:"signature" binding:"required"`
	Notes     string `json:"notes,omitempty"`
}

// RejectRequest is the API payload for a rejection
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// AntivirusScanRequest records origination/destination scan results
type AntivirusScanRequest struct {
	Origination *ScanResultPayload `json:"origination,omitempty"`
	Destination *ScanResultPayload `json:"destination,omitempty"`
}

// ScanResultPayload is one side of an antivirus scan
type ScanResultPayload struct {
	FilesScanned int    `json:"filesScanned"`
	ThreatsFound int    `json:"threatsFound"`
	ScanEngine   string `json:"scanEngine,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// DTASignRequest is the API payload for the DTA signature, including the
// downstream role assignments
type DTASignRequest struct {
	Signature   string `json:"signature" binding:"required"`
	SMEID       string `json:"smeId,omitempty"`
	CustodianID string `json:"custodianId,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// SMESignRequest is the API payload for the SME signature
type SMESignRequest struct {
	Signature string `json:"signature" binding:"required"`
	Notes     string `json:"notes,omitempty"`
}

// DispositionRequest is the API payload for the media custodian's final
// disposition. Destroy dispositions require the second custodian fields
// (two-person integrity).
type DispositionRequest struct {
	DispositionType          string `json:"dispositionType" binding:"required"`
	Signature                string `json:"signature" binding:"required"`
	Notes                    string `json:"notes,omitempty"`
	SecondCustodianName      string `json:"secondCustodianName,omitempty"`
	SecondCustodianSignature string `json:"secondCustodianSignature,omitempty"`
}

// RequestResponse is the API representation of a request snapshot
type RequestResponse struct {
	RequestID           string                 `json:"requestId"`
	RequestNumber       string                 `json:"requestNumber"`
	TransferDirection   string                 `json:"transferDirection"`
	ClassificationLevel string                 `json:"classificationLevel"`
	TransferPurpose     string                 `json:"transferPurpose"`
	SourceSystem        string                 `json:"sourceSystem"`
	DestSystem          string                 `json:"destSystem"`
	RequestorID         string                 `json:"requestorId"`
	ApproverID          *string                `json:"approverId,omitempty"`
	DTAID               *string                `json:"dtaId,omitempty"`
	SMEID               *string                `json:"smeId,omitempty"`
	CustodianID         *string                `json:"custodianId,omitempty"`
	Status              string                 `json:"status"`
	ApprovalData        workflow.ApprovalData  `json:"approvalData,omitempty"`
	TransferData        *workflow.TransferData `json:"transferData,omitempty"`
	RejectionReason     *string                `json:"rejectionReason,omitempty"`
	CreatedTime         int64                  `json:"createdTime"`
	UpdatedTime         int64                  `json:"updatedTime"`
}
