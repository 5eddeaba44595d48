package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/assuredtransfer/aft-request-api/internal/dao"
	"github.com/assuredtransfer/aft-request-api/internal/database"
	"github.com/assuredtransfer/aft-request-api/internal/models"
	"github.com/assuredtransfer/aft-request-api/internal/serviceerror"
	"github.com/assuredtransfer/aft-request-api/internal/workflow"
	"github.com/assuredtransfer/aft-request-api/pkg/utils"
)

// TransitionService owns every status-changing operation of the request
// lifecycle. Each transition runs as one transaction: load the row under an
// exclusive lock, consult the authorization table, apply the status-guarded
// update together with its accumulator writes, and append the audit entry.
// If any piece fails the whole transition rolls back.
type TransitionService struct {
	requestDAO  *dao.RequestDAO
	auditDAO    *dao.AuditLogDAO
	securityDAO *dao.SecurityEventDAO
	userDAO     *dao.UserDAO
	db          *database.DB
	logger      *logrus.Logger

	// dualApproval inserts the approver stage between DAO and CPSO review
	// for high-to-low transfers
	dualApproval bool
}

// NewTransitionService creates a new transition service instance
func NewTransitionService(
	requestDAO *dao.RequestDAO,
	auditDAO *dao.AuditLogDAO,
	securityDAO *dao.SecurityEventDAO,
	userDAO *dao.UserDAO,
	db *database.DB,
	logger *logrus.Logger,
	dualApproval bool,
) *TransitionService {
	return &TransitionService{
		requestDAO:   requestDAO,
		auditDAO:     auditDAO,
		securityDAO:  securityDAO,
		userDAO:      userDAO,
		db:           db,
		logger:       logger,
		dualApproval: dualApproval,
	}
}

// transitionOutcome is what an operation-specific step hands back to the
// shared transaction driver.
type transitionOutcome struct {
	update        dao.TransitionUpdate
	action        string
	notes         string
	securityEvent string // empty = no security event
	securityNote  string
}

// stepFunc computes one operation's outcome from the locked row. The row's
// status has already been parsed and the operation authorized.
type stepFunc func(req *models.Request, status workflow.Status, now int64) (*transitionOutcome, *serviceerror.ServiceError)

// runTransition is the shared read-check-write-audit sequence. The row lock
// plus the status-guarded update ensure two concurrent transitions from the
// same pre-transition status cannot both succeed.
func (s *TransitionService) runTransition(
	ctx context.Context,
	requestID string,
	actor workflow.Actor,
	op workflow.Operation,
	step stepFunc,
) (*models.RequestResponse, *serviceerror.ServiceError) {
	if actor.UserID == "" {
		return nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "no authenticated actor")
	}
	if err := utils.ValidateRequestID(requestID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	var updated *models.Request
	txErr := s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		req, err := s.requestDAO.GetByIDForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}

		// The guard must match the raw stored value: legacy rows carry the
		// pre-normalization alias.
		storedStatus := req.Status
		status, err := workflow.ParseStatus(req.Status)
		if err != nil {
			return err
		}
		req.Status = string(status)

		if err := workflow.Authorize(op, actor, req.View()); err != nil {
			return err
		}

		now := utils.GetCurrentTimeMillis()
		outcome, svcErr := step(req, status, now)
		if svcErr != nil {
			return wrapServiceError(svcErr)
		}
		outcome.update.UpdatedTime = now

		if err := s.requestDAO.ApplyTransition(ctx, tx, req.RequestID, storedStatus, outcome.update); err != nil {
			return err
		}

		entry := &models.AuditLogEntry{
			AuditID:     utils.GenerateAuditID(),
			RequestID:   req.RequestID,
			ActorID:     actor.UserID,
			Action:      outcome.action,
			OldStatus:   strPtr(string(status)),
			NewStatus:   outcome.update.NewStatus,
			Notes:       outcome.notes,
			CreatedTime: now,
		}
		if err := s.auditDAO.CreateWithTx(ctx, tx, entry); err != nil {
			return err
		}

		if outcome.securityEvent != "" {
			event := &models.SecurityEvent{
				EventID:     utils.GenerateEventID(),
				RequestID:   req.RequestID,
				ActorID:     actor.UserID,
				EventType:   outcome.securityEvent,
				Detail:      outcome.securityNote,
				CreatedTime: now,
			}
			if err := s.securityDAO.CreateWithTx(ctx, tx, event); err != nil {
				return err
			}
			s.logger.WithFields(logrus.Fields{
				"security_audit": true,
				"request_id":     req.RequestID,
				"request_number": req.RequestNumber,
				"actor_id":       actor.UserID,
				"acting_role":    actor.ActingRole,
				"event_type":     outcome.securityEvent,
			}).Warn("Security-sensitive transition recorded")
		}

		applyUpdateToRow(req, outcome.update, now)
		updated = req
		return nil
	})

	if txErr != nil {
		if svcErr, ok := unwrapServiceError(txErr); ok {
			return nil, svcErr
		}
		return nil, mapTransitionError(txErr)
	}

	s.logger.WithFields(logrus.Fields{
		"request_id":     updated.RequestID,
		"request_number": updated.RequestNumber,
		"operation":      op,
		"actor_id":       actor.UserID,
		"acting_role":    actor.ActingRole,
		"new_status":     updated.Status,
	}).Info("Request transition applied")

	return buildRequestResponse(updated)
}

// applyUpdateToRow mirrors the guarded UPDATE onto the in-memory row so the
// response reflects the committed state without a second read.
func applyUpdateToRow(req *models.Request, update dao.TransitionUpdate, now int64) {
	req.Status = update.NewStatus
	req.UpdatedTime = now
	if update.ApprovalData != nil {
		req.ApprovalData = update.ApprovalData
	}
	if update.TransferData != nil {
		req.TransferData = update.TransferData
	}
	if update.RejectionReason != nil {
		req.RejectionReason = update.RejectionReason
	} else if update.ClearRejectionReason {
		req.RejectionReason = nil
	}
	if update.ApproverID != nil {
		req.ApproverID = update.ApproverID
	}
	if update.DTAID != nil {
		req.DTAID = update.DTAID
	}
	if update.SMEID != nil {
		req.SMEID = update.SMEID
	}
	if update.CustodianID != nil {
		req.CustodianID = update.CustodianID
	}
}

func strPtr(s string) *string { return &s }

// Submit moves a draft into the approval chain. High-to-low transfers go to
// the DAO first, everything else to the ISSM/ISSO approver. Submitting a
// rejected request is a resubmission: the rejection reason is cleared and
// the action is logged as RESUBMITTED.
func (s *TransitionService) Submit(ctx context.Context, requestID string, actor workflow.Actor, payload models.SubmitRequest) (*models.RequestResponse, *serviceerror.ServiceError) {
	return s.runTransition(ctx, requestID, actor, workflow.OpSubmit,
		func(req *models.Request, status workflow.Status, now int64) (*transitionOutcome, *serviceerror.ServiceError) {
			if payload.Signature == "" {
				return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "signature is required")
			}
			if !payload.TermsAck {
				return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "terms acknowledgement is required")
			}

			direction := workflow.TransferDirection(req.TransferDirection)
			outcome := &transitionOutcome{
				update: dao.TransitionUpdate{
					NewStatus: string(workflow.FirstApprovalStage(direction)),
				},
				action: workflow.ActionSubmitted,
				notes:  fmt.Sprintf("Submitted by %s (%s)", actor.Name, actor.ActingRole),
			}

			if status == workflow.StatusRejected {
				outcome.action = workflow.ActionResubmitted
				outcome.notes = fmt.Sprintf("Resubmitted by %s (%s)", actor.Name, actor.ActingRole)
				outcome.update.ClearRejectionReason = true
				outcome.securityEvent = workflow.ActionResubmitted
				outcome.securityNote = fmt.Sprintf("request %s resubmitted after rejection", req.RequestNumber)

				// The re-entered chain must collect fresh signatures from
				// every stage: prior records are retired, not erased, so the
				// same role can sign again without losing the old cycle.
				approvals, parseErr := workflow.ParseApprovalData([]byte(req.ApprovalData))
				if parseErr != nil {
					return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, parseErr.Error())
				}
				if approvals.Archive() > 0 {
					blob, marshalErr := approvals.Marshal()
					if marshalErr != nil {
						return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, marshalErr.Error())
					}
					outcome.update.ApprovalData = models.JSON(blob)
				}
			}
			return outcome, nil
		})
}

// Approve records the acting reviewer's signature and advances the request
// to the next approval stage, or into the DTA queue after CPSO review.
func (s *TransitionService) Approve(ctx context.Context, requestID string, actor workflow.Actor, payload models.ApproveRequest) (*models.RequestResponse, *serviceerror.ServiceError) {
	return s.runTransition(ctx, requestID, actor, workflow.OpApprove,
		func(req *models.Request, status workflow.Status, now int64) (*transitionOutcome, *serviceerror.ServiceError) {
			if payload.Signature == "" {
				return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "signature is required")
			}

			direction := workflow.TransferDirection(req.TransferDirection)
			next, err := workflow.NextApprovalStage(status, direction, s.dualApproval)
			if err != nil {
				return nil, serviceerror.InvalidState("cannot approve while request is in status %q", status)
			}

			role := actor.ActingRole
			if actor.IsAdmin() {
				// Admins sign in place of whichever role the stage awaits
				if stageRole, roleErr := workflow.ApprovalRoleForStage(status, direction); roleErr == nil {
					role = stageRole
				}
			}

			approvals, parseErr := workflow.ParseApprovalData([]byte(req.ApprovalData))
			if parseErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, parseErr.Error())
			}
			record, recErr := workflow.NewApprovalRecord(workflow.SignerIdentity{
				ID:    actor.UserID,
				Name:  actor.Name,
				Email: actor.Email,
				Role:  role,
			}, payload.Signature, payload.Notes, now)
			if recErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, recErr.Error())
			}
			if setErr := approvals.Set(role, record); setErr != nil {
				return nil, serviceerror.InvalidState("role %q has already signed this request", role)
			}
			blob, marshalErr := approvals.Marshal()
			if marshalErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, marshalErr.Error())
			}

			return &transitionOutcome{
				update: dao.TransitionUpdate{
					NewStatus:    string(next),
					ApprovalData: models.JSON(blob),
				},
				action: workflow.ActionApproved,
				notes:  fmt.Sprintf("Approved by %s (%s)", actor.Name, role),
			}, nil
		})
}

// Reject terminates the approval chain with a mandatory reason. The owning
// requestor may later edit and resubmit.
func (s *TransitionService) Reject(ctx context.Context, requestID string, actor workflow.Actor, payload models.RejectRequest) (*models.RequestResponse, *serviceerror.ServiceError) {
	return s.runTransition(ctx, requestID, actor, workflow.OpReject,
		func(req *models.Request, status workflow.Status, now int64) (*transitionOutcome, *serviceerror.ServiceError) {
			if payload.Reason == "" {
				return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "rejection reason is required")
			}

			return &transitionOutcome{
				update: dao.TransitionUpdate{
					NewStatus:       string(workflow.StatusRejected),
					RejectionReason: strPtr(payload.Reason),
				},
				action:        workflow.ActionRejected,
				notes:         fmt.Sprintf("Rejected by %s (%s): %s", actor.Name, actor.ActingRole, payload.Reason),
				securityEvent: workflow.ActionRejected,
				securityNote:  fmt.Sprintf("request %s rejected: %s", req.RequestNumber, payload.Reason),
			}, nil
		})
}

// Cancel withdraws a request before it clears the approval chain.
// Cancelled is absorbing.
func (s *TransitionService) Cancel(ctx context.Context, requestID string, actor workflow.Actor) (*models.RequestResponse, *serviceerror.ServiceError) {
	return s.runTransition(ctx, requestID, actor, workflow.OpCancel,
		func(req *models.Request, status workflow.Status, now int64) (*transitionOutcome, *serviceerror.ServiceError) {
			return &transitionOutcome{
				update: dao.TransitionUpdate{NewStatus: string(workflow.StatusCancelled)},
				action: workflow.ActionCancelled,
				notes:  fmt.Sprintf("Cancelled by %s (%s)", actor.Name, actor.ActingRole),
			}, nil
		})
}

// ReturnToDraft lets the owning requestor pull a request back out of the
// approval chain for editing. Logged as UPDATED, distinct from the
// resubmission path.
func (s *TransitionService) ReturnToDraft(ctx context.Context, requestID string, actor workflow.Actor) (*models.RequestResponse, *serviceerror.ServiceError) {
	return s.runTransition(ctx, requestID, actor, workflow.OpReturnToDraft,
		func(req *models.Request, status workflow.Status, now int64) (*transitionOutcome, *serviceerror.ServiceError) {
			return &transitionOutcome{
				update: dao.TransitionUpdate{NewStatus: string(workflow.StatusDraft)},
				action: workflow.ActionUpdated,
				notes:  fmt.Sprintf("Returned to draft by %s (%s)", actor.Name, actor.ActingRole),
			}, nil
		})
}

// RecordAntivirusScan merges origination/destination scan results into the
// transfer accumulator. There is no status gate beyond terminal statuses;
// scans may be recorded at any point during or after the transfer.
func (s *TransitionService) RecordAntivirusScan(ctx context.Context, requestID string, actor workflow.Actor, payload models.AntivirusScanRequest) (*models.RequestResponse, *serviceerror.ServiceError) {
	return s.runTransition(ctx, requestID, actor, workflow.OpRecordScan,
		func(req *models.Request, status workflow.Status, now int64) (*transitionOutcome, *serviceerror.ServiceError) {
			if payload.Origination == nil && payload.Destination == nil {
				return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
					"at least one of origination or destination scan results is required")
			}

			transfer, parseErr := workflow.ParseTransferData([]byte(req.TransferData))
			if parseErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, parseErr.Error())
			}

			scan := workflow.AntivirusScan{
				Actor:      signerIdentity(actor),
				RecordedAt: now,
			}
			if payload.Origination != nil {
				scan.Origination = scanResult(payload.Origination)
			}
			if payload.Destination != nil {
				scan.Destination = scanResult(payload.Destination)
			}
			transfer.MergeAntivirusScan(scan)

			blob, marshalErr := transfer.Marshal()
			if marshalErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, marshalErr.Error())
			}

			return &transitionOutcome{
				update: dao.TransitionUpdate{
					NewStatus:    string(status), // scan does not advance the lifecycle
					TransferData: models.JSON(blob),
				},
				action: workflow.ActionAntivirusScan,
				notes:  fmt.Sprintf("Antivirus scan recorded by %s (%s)", actor.Name, actor.ActingRole),
			}, nil
		})
}

func scanResult(p *models.ScanResultPayload) *workflow.ScanResult {
	return &workflow.ScanResult{
		FilesScanned: p.FilesScanned,
		ThreatsFound: p.ThreatsFound,
		ScanEngine:   p.ScanEngine,
		Notes:        p.Notes,
	}
}

// InitiateTransfer marks the start of the technical transfer and records
// who initiated it.
func (s *TransitionService) InitiateTransfer(ctx context.Context, requestID string, actor workflow.Actor) (*models.RequestResponse, *serviceerror.ServiceError) {
	return s.runTransition(ctx, requestID, actor, workflow.OpInitiateTransfer,
		func(req *models.Request, status workflow.Status, now int64) (*transitionOutcome, *serviceerror.ServiceError) {
			transfer, parseErr := workflow.ParseTransferData([]byte(req.TransferData))
			if parseErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, parseErr.Error())
			}

			if setErr := transfer.SetTransferInitiation(workflow.TransferInitiation{
				Actor:       signerIdentity(actor),
				InitiatedAt: now,
			}); setErr != nil {
				return nil, serviceerror.InvalidState("transfer already initiated for this request")
			}

			blob, marshalErr := transfer.Marshal()
			if marshalErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, marshalErr.Error())
			}

			outcome := &transitionOutcome{
				update: dao.TransitionUpdate{
					NewStatus:    string(workflow.StatusActiveTransfer),
					TransferData: models.JSON(blob),
				},
				action: workflow.ActionTransferInitiated,
				notes:  fmt.Sprintf("Transfer initiated by %s (%s)", actor.Name, actor.ActingRole),
			}
			if req.DTAID == nil {
				outcome.update.DTAID = strPtr(actor.UserID)
			}
			return outcome, nil
		})
}

// DTASign records the DTA's signature, optionally assigns the SME and media
// custodian for the remaining stages, and moves the request to SME review.
func (s *TransitionService) DTASign(ctx context.Context, requestID string, actor workflow.Actor, payload models.DTASignRequest) (*models.RequestResponse, *serviceerror.ServiceError) {
	return s.runTransition(ctx, requestID, actor, workflow.OpDTASign,
		func(req *models.Request, status workflow.Status, now int64) (*transitionOutcome, *serviceerror.ServiceError) {
			transfer, parseErr := workflow.ParseTransferData([]byte(req.TransferData))
			if parseErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, parseErr.Error())
			}

			record, recErr := workflow.NewSignatureRecord(signerIdentity(actor), payload.Signature, payload.Notes, now)
			if recErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, recErr.Error())
			}
			if setErr := transfer.SetDTASignature(record); setErr != nil {
				return nil, serviceerror.InvalidState("DTA has already signed this request")
			}

			blob, marshalErr := transfer.Marshal()
			if marshalErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, marshalErr.Error())
			}

			outcome := &transitionOutcome{
				update: dao.TransitionUpdate{
					NewStatus:    string(workflow.StatusPendingSME),
					TransferData: models.JSON(blob),
					DTAID:        strPtr(actor.UserID),
				},
				action: workflow.ActionDTASigned,
				notes:  fmt.Sprintf("DTA signature by %s (%s)", actor.Name, actor.ActingRole),
			}

			if payload.SMEID != "" {
				if svcErr := s.verifyRoleHolder(ctx, payload.SMEID, workflow.RoleSME); svcErr != nil {
					return nil, svcErr
				}
				outcome.update.SMEID = strPtr(payload.SMEID)
			}
			if payload.CustodianID != "" {
				if svcErr := s.verifyRoleHolder(ctx, payload.CustodianID, workflow.RoleMediaCustodian); svcErr != nil {
					return nil, svcErr
				}
				outcome.update.CustodianID = strPtr(payload.CustodianID)
			}
			return outcome, nil
		})
}

// verifyRoleHolder checks that an assignee exists, is active, and holds the
// required role.
func (s *TransitionService) verifyRoleHolder(ctx context.Context, userID string, role workflow.Role) *serviceerror.ServiceError {
	user, err := s.userDAO.GetByID(ctx, userID)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("assignee %s not found", userID))
	}
	if !user.Active {
		return serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("assignee %s is inactive", userID))
	}
	additional, err := s.userDAO.GetAdditionalRoles(ctx, userID)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	for _, r := range user.EffectiveRoles(additional) {
		if r == role {
			return nil
		}
	}
	return serviceerror.CustomServiceError(serviceerror.ValidationError,
		fmt.Sprintf("assignee %s does not hold role %q", userID, role))
}

// SMESign records the subject matter expert's post-transfer signature and
// hands the request to the media custodian.
func (s *TransitionService) SMESign(ctx context.Context, requestID string, actor workflow.Actor, payload models.SMESignRequest) (*models.RequestResponse, *serviceerror.ServiceError) {
	return s.runTransition(ctx, requestID, actor, workflow.OpSMESign,
		func(req *models.Request, status workflow.Status, now int64) (*transitionOutcome, *serviceerror.ServiceError) {
			transfer, parseErr := workflow.ParseTransferData([]byte(req.TransferData))
			if parseErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, parseErr.Error())
			}

			record, recErr := workflow.NewSignatureRecord(signerIdentity(actor), payload.Signature, payload.Notes, now)
			if recErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, recErr.Error())
			}
			if setErr := transfer.SetSMESignature(record); setErr != nil {
				return nil, serviceerror.InvalidState("SME has already signed this request")
			}

			blob, marshalErr := transfer.Marshal()
			if marshalErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, marshalErr.Error())
			}

			return &transitionOutcome{
				update: dao.TransitionUpdate{
					NewStatus:    string(workflow.StatusPendingMediaCustodian),
					TransferData: models.JSON(blob),
					SMEID:        strPtr(actor.UserID),
				},
				action: workflow.ActionSMESigned,
				notes:  fmt.Sprintf("SME signature by %s (%s)", actor.Name, actor.ActingRole),
			}, nil
		})
}

// Disposition applies the media custodian's final disposition. Destroy
// dispositions enforce two-person integrity: a second custodian's name and
// signature are mandatory. Destruction and sanitization end in disposed;
// archival and retention complete the request.
func (s *TransitionService) Disposition(ctx context.Context, requestID string, actor workflow.Actor, payload models.DispositionRequest) (*models.RequestResponse, *serviceerror.ServiceError) {
	return s.runTransition(ctx, requestID, actor, workflow.OpDisposition,
		func(req *models.Request, status workflow.Status, now int64) (*transitionOutcome, *serviceerror.ServiceError) {
			if !workflow.ValidDispositionType(payload.DispositionType) {
				return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
					fmt.Sprintf("invalid disposition type: %q", payload.DispositionType))
			}

			var second *workflow.SignatureRecord
			if payload.DispositionType == workflow.DispositionDestroy {
				if payload.SecondCustodianName == "" || payload.SecondCustodianSignature == "" {
					return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
						"destroy disposition requires a second custodian name and signature (two-person integrity)")
				}
				second = &workflow.SignatureRecord{
					Actor: workflow.SignerIdentity{
						ID:   payload.SecondCustodianName,
						Name: payload.SecondCustodianName,
						Role: workflow.RoleMediaCustodian,
					},
					Signature: payload.SecondCustodianSignature,
					SignedAt:  now,
				}
			}

			transfer, parseErr := workflow.ParseTransferData([]byte(req.TransferData))
			if parseErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, parseErr.Error())
			}

			record, recErr := workflow.NewDispositionRecord(signerIdentity(actor), payload.DispositionType, payload.Signature, payload.Notes, now)
			if recErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, recErr.Error())
			}
			if setErr := transfer.SetDisposition(record, second, now); setErr != nil {
				return nil, serviceerror.InvalidState("disposition has already been applied to this request")
			}

			blob, marshalErr := transfer.Marshal()
			if marshalErr != nil {
				return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, marshalErr.Error())
			}

			terminal := workflow.DispositionTerminalStatus(payload.DispositionType)
			outcome := &transitionOutcome{
				update: dao.TransitionUpdate{
					NewStatus:    string(terminal),
					TransferData: models.JSON(blob),
					CustodianID:  strPtr(actor.UserID),
				},
				action: workflow.ActionDispositionApplied,
				notes: fmt.Sprintf("Disposition %q applied by %s (%s)",
					payload.DispositionType, actor.Name, actor.ActingRole),
			}
			if payload.DispositionType == workflow.DispositionDestroy {
				outcome.securityEvent = "MEDIA_DESTROYED"
				outcome.securityNote = fmt.Sprintf("request %s media destroyed under two-person integrity (witness: %s)",
					req.RequestNumber, payload.SecondCustodianName)
			}
			return outcome, nil
		})
}
