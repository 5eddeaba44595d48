package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// The accumulator is the per-request record that grows as the workflow
// advances: approvalData keyed by role, transferData keyed by action. Every
// sub-record is a typed variant validated at construction, and a persisted
// blob that fails to parse is a hard error — silent data loss on malformed
// historical data is worse than a failed read.

// ErrKeyAlreadySet is returned when a role or action would overwrite an
// existing accumulator entry. Entries are append-only per key.
var ErrKeyAlreadySet = errors.New("accumulator key already written")

// SignerIdentity captures who produced a sub-record. Timestamps on the
// containing records are always server-assigned.
type SignerIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

func (s SignerIdentity) validate() error {
	if s.ID == "" {
		return fmt.Errorf("signer id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("signer name is required")
	}
	if s.Role == "" {
		return fmt.Errorf("signer role is required")
	}
	return nil
}

// ApprovalRecord is one role's approval signature. Once written it is
// immutable.
type ApprovalRecord struct {
	Actor     SignerIdentity `json:"actor"`
	Signature string         `json:"signature"`
	Notes     string         `json:"notes,omitempty"`
	SignedAt  int64          `json:"signedAt"`
}

// NewApprovalRecord validates and builds an approval record. signedAt is the
// server clock, never a client-supplied date.
func NewApprovalRecord(actor SignerIdentity, signature, notes string, signedAt int64) (ApprovalRecord, error) {
	if err := actor.validate(); err != nil {
		return ApprovalRecord{}, err
	}
	if signature == "" {
		return ApprovalRecord{}, fmt.Errorf("signature is required")
	}
	if signedAt <= 0 {
		return ApprovalRecord{}, fmt.Errorf("signedAt must be a server-assigned timestamp")
	}
	return ApprovalRecord{Actor: actor, Signature: signature, Notes: notes, SignedAt: signedAt}, nil
}

// ApprovalData maps approval role (dao/approver/cpso) to its signature
// record.
type ApprovalData map[Role]ApprovalRecord

// ParseApprovalData decodes a persisted approvalData blob. A nil or empty
// blob yields an empty map; anything unparseable is an error.
func ParseApprovalData(raw []byte) (ApprovalData, error) {
	if len(raw) == 0 {
		return ApprovalData{}, nil
	}
	var data ApprovalData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("corrupt approvalData: %w", err)
	}
	if data == nil {
		data = ApprovalData{}
	}
	return data, nil
}

// Set writes one role's record. Existing entries are never overwritten.
func (d ApprovalData) Set(role Role, rec ApprovalRecord) error {
	if _, exists := d[role]; exists {
		return fmt.Errorf("%w: approvalData[%s]", ErrKeyAlreadySet, role)
	}
	d[role] = rec
	return nil
}

// SignedBy reports whether the user signed any approval record, live or
// archived. Used for historical read access.
func (d ApprovalData) SignedBy(userID string) bool {
	for _, rec := range d {
		if rec.Actor.ID == userID {
			return true
		}
	}
	return false
}

// Archive retires the live approval records under cycle-suffixed keys
// ("dao#1", "dao#2", ...) so a resubmitted request re-enters the chain with
// no live signatures while every prior cycle stays in the blob. Returns the
// number of records retired.
func (d ApprovalData) Archive() int {
	cycle := 0
	for key := range d {
		if i := strings.IndexByte(string(key), '#'); i >= 0 {
			if n, err := strconv.Atoi(string(key)[i+1:]); err == nil && n > cycle {
				cycle = n
			}
		}
	}
	cycle++

	retired := 0
	for key, rec := range d {
		if strings.ContainsRune(string(key), '#') {
			continue
		}
		d[Role(fmt.Sprintf("%s#%d", key, cycle))] = rec
		delete(d, key)
		retired++
	}
	return retired
}

// Marshal serializes the map for persistence.
func (d ApprovalData) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// ScanResult is one side (origination or destination) of an antivirus scan.
type ScanResult struct {
	FilesScanned int    `json:"filesScanned"`
	ThreatsFound int    `json:"threatsFound"`
	ScanEngine   string `json:"scanEngine,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// AntivirusScan accumulates scan results for both sides of the transfer.
type AntivirusScan struct {
	Actor       SignerIdentity `json:"actor"`
	Origination *ScanResult    `json:"origination,omitempty"`
	Destination *ScanResult    `json:"destination,omitempty"`
	RecordedAt  int64          `json:"recordedAt"`
}

// TransferInitiation marks the start of the technical transfer.
type TransferInitiation struct {
	Actor       SignerIdentity `json:"actor"`
	InitiatedAt int64          `json:"initiatedAt"`
}

// SignatureRecord is a generic post-transfer signature (DTA, SME, second
// custodian).
type SignatureRecord struct {
	Actor     SignerIdentity `json:"actor"`
	Signature string         `json:"signature"`
	Notes     string         `json:"notes,omitempty"`
	SignedAt  int64          `json:"signedAt"`
}

// NewSignatureRecord validates and builds a signature record.
func NewSignatureRecord(actor SignerIdentity, signature, notes string, signedAt int64) (*SignatureRecord, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if signature == "" {
		return nil, fmt.Errorf("signature is required")
	}
	if signedAt <= 0 {
		return nil, fmt.Errorf("signedAt must be a server-assigned timestamp")
	}
	return &SignatureRecord{Actor: actor, Signature: signature, Notes: notes, SignedAt: signedAt}, nil
}

// Disposition types a media custodian may apply.
const (
	DispositionDestroy  = "destroy"
	DispositionSanitize = "sanitize"
	DispositionArchive  = "archive"
	DispositionRetain   = "retain"
)

// ValidDispositionType reports whether the given value is a known
// disposition type.
func ValidDispositionType(t string) bool {
	switch t {
	case DispositionDestroy, DispositionSanitize, DispositionArchive, DispositionRetain:
		return true
	}
	return false
}

// DispositionTerminalStatus maps a disposition type to the terminal status
// it produces: physical destruction and sanitization end in disposed,
// archival and retention complete the request.
func DispositionTerminalStatus(t string) Status {
	switch t {
	case DispositionDestroy, DispositionSanitize:
		return StatusDisposed
	default:
		return StatusCompleted
	}
}

// DispositionRecord is the media custodian's final disposition signature.
type DispositionRecord struct {
	Actor           SignerIdentity `json:"actor"`
	DispositionType string         `json:"dispositionType"`
	Signature       string         `json:"signature"`
	Notes           string         `json:"notes,omitempty"`
	SignedAt        int64          `json:"signedAt"`
}

// NewDispositionRecord validates and builds a disposition record.
func NewDispositionRecord(actor SignerIdentity, dispositionType, signature, notes string, signedAt int64) (*DispositionRecord, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if !ValidDispositionType(dispositionType) {
		return nil, fmt.Errorf("invalid disposition type: %q", dispositionType)
	}
	if signature == "" {
		return nil, fmt.Errorf("signature is required")
	}
	if signedAt <= 0 {
		return nil, fmt.Errorf("signedAt must be a server-assigned timestamp")
	}
	return &DispositionRecord{
		Actor:           actor,
		DispositionType: dispositionType,
		Signature:       signature,
		Notes:           notes,
		SignedAt:        signedAt,
	}, nil
}

// TransferData accumulates the transfer-execution chain. Writing one key
// never erases another: each setter refuses to overwrite and the struct is
// re-marshaled whole.
type TransferData struct {
	AntivirusScan                 *AntivirusScan      `json:"antivirusScan,omitempty"`
	TransferInitiation            *TransferInitiation `json:"transferInitiation,omitempty"`
	DTASignature                  *SignatureRecord    `json:"dtaSignature,omitempty"`
	SMESignature                  *SignatureRecord    `json:"smeSignature,omitempty"`
	MediaCustodianSignature       *DispositionRecord  `json:"mediaCustodianSignature,omitempty"`
	SecondMediaCustodianSignature *SignatureRecord    `json:"secondMediaCustodianSignature,omitempty"`
	CompletedAt                   *int64              `json:"completedAt,omitempty"`
}

// ParseTransferData decodes a persisted transferData blob. A nil or empty
// blob yields an empty accumulator; anything unparseable is an error.
func ParseTransferData(raw []byte) (*TransferData, error) {
	if len(raw) == 0 {
		return &TransferData{}, nil
	}
	var data TransferData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("corrupt transferData: %w", err)
	}
	return &data, nil
}

// Marshal serializes the accumulator for persistence.
func (t *TransferData) Marshal() ([]byte, error) {
	return json.Marshal(t)
}

// MergeAntivirusScan folds new scan results into the existing entry.
// Unlike signatures, scans may be recorded more than once (origination and
// destination arrive separately); sides already present are kept unless the
// new record carries a replacement.
func (t *TransferData) MergeAntivirusScan(scan AntivirusScan) {
	if t.AntivirusScan == nil {
		t.AntivirusScan = &scan
		return
	}
	existing := t.AntivirusScan
	existing.Actor = scan.Actor
	existing.RecordedAt = scan.RecordedAt
	if scan.Origination != nil {
		existing.Origination = scan.Origination
	}
	if scan.Destination != nil {
		existing.Destination = scan.Destination
	}
}

// SetTransferInitiation writes the transfer-initiation entry exactly once.
func (t *TransferData) SetTransferInitiation(init TransferInitiation) error {
	if t.TransferInitiation != nil {
		return fmt.Errorf("%w: transferData.transferInitiation", ErrKeyAlreadySet)
	}
	t.TransferInitiation = &init
	return nil
}

// SetDTASignature writes the DTA signature exactly once.
func (t *TransferData) SetDTASignature(rec *SignatureRecord) error {
	if t.DTASignature != nil {
		return fmt.Errorf("%w: transferData.dtaSignature", ErrKeyAlreadySet)
	}
	t.DTASignature = rec
	return nil
}

// SetSMESignature writes the SME signature exactly once.
func (t *TransferData) SetSMESignature(rec *SignatureRecord) error {
	if t.SMESignature != nil {
		return fmt.Errorf("%w: transferData.smeSignature", ErrKeyAlreadySet)
	}
	t.SMESignature = rec
	return nil
}

// SetDisposition writes the custodian disposition, the optional second
// custodian signature, and the completion timestamp exactly once.
func (t *TransferData) SetDisposition(rec *DispositionRecord, second *SignatureRecord, completedAt int64) error {
	if t.MediaCustodianSignature != nil {
		return fmt.Errorf("%w: transferData.mediaCustodianSignature", ErrKeyAlreadySet)
	}
	t.MediaCustodianSignature = rec
	t.SecondMediaCustodianSignature = second
	t.CompletedAt = &completedAt
	return nil
}

// SignedBy reports whether the user appears as a signer anywhere in the
// transfer chain. Used for historical read access.
func (t *TransferData) SignedBy(userID string) bool {
	if t.DTASignature != nil && t.DTASignature.Actor.ID == userID {
		return true
	}
	if t.SMESignature != nil && t.SMESignature.Actor.ID == userID {
		return true
	}
	if t.MediaCustodianSignature != nil && t.MediaCustodianSignature.Actor.ID == userID {
		return true
	}
	if t.SecondMediaCustodianSignature != nil && t.SecondMediaCustodianSignature.Actor.ID == userID {
		return true
	}
	if t.TransferInitiation != nil && t.TransferInitiation.Actor.ID == userID {
		return true
	}
	if t.AntivirusScan != nil && t.AntivirusScan.Actor.ID == userID {
		return true
	}
	return false
}
