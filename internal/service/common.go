package service

import (
	"errors"
	"fmt"

	"github.com/assuredtransfer/aft-request-api/internal/dao"
	"github.com/assuredtransfer/aft-request-api/internal/models"
	"github.com/assuredtransfer/aft-request-api/internal/serviceerror"
	"github.com/assuredtransfer/aft-request-api/internal/workflow"
)

// serviceErrorWrapper lets a *ServiceError flow through code paths typed as
// error (transaction closures) without losing its classification.
type serviceErrorWrapper struct {
	inner *serviceerror.ServiceError
}

func (w *serviceErrorWrapper) Error() string {
	return w.inner.Error + ": " + w.inner.ErrorDescription
}

func wrapServiceError(e *serviceerror.ServiceError) error {
	return &serviceErrorWrapper{inner: e}
}

// unwrapServiceError recovers a wrapped *ServiceError, if any.
func unwrapServiceError(err error) (*serviceerror.ServiceError, bool) {
	var w *serviceErrorWrapper
	if errors.As(err, &w) {
		return w.inner, true
	}
	return nil, false
}

// mapTransitionError translates engine-level failures into the stable
// service error taxonomy. Transient persistence errors deliberately surface
// as a generic database error; the engine never retries.
func mapTransitionError(err error) *serviceerror.ServiceError {
	switch {
	case errors.Is(err, dao.ErrNotFound):
		return serviceerror.CustomServiceError(serviceerror.NotFoundError, err.Error())
	case errors.Is(err, workflow.ErrForbidden):
		return serviceerror.CustomServiceError(serviceerror.ForbiddenError, err.Error())
	case errors.Is(err, workflow.ErrInvalidState):
		return serviceerror.CustomServiceError(serviceerror.InvalidStateError, err.Error())
	case errors.Is(err, dao.ErrStatusMoved):
		return serviceerror.CustomServiceError(serviceerror.ConflictError, err.Error())
	case errors.Is(err, workflow.ErrKeyAlreadySet):
		return serviceerror.CustomServiceError(serviceerror.InvalidStateError, err.Error())
	default:
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
}

// buildRequestResponse converts a persisted request row into its API
// representation. Accumulator blobs that fail to parse abort the read: a
// corrupt persisted accumulator must never degrade to an empty object.
func buildRequestResponse(req *models.Request) (*models.RequestResponse, *serviceerror.ServiceError) {
	approvals, err := workflow.ParseApprovalData([]byte(req.ApprovalData))
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError,
			fmt.Sprintf("request %s: %v", req.RequestID, err))
	}
	transfer, err := workflow.ParseTransferData([]byte(req.TransferData))
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError,
			fmt.Sprintf("request %s: %v", req.RequestID, err))
	}

	resp := &models.RequestResponse{
		RequestID:           req.RequestID,
		RequestNumber:       req.RequestNumber,
		TransferDirection:   req.TransferDirection,
		ClassificationLevel: req.ClassificationLevel,
		TransferPurpose:     req.TransferPurpose,
		SourceSystem:        req.SourceSystem,
		DestSystem:          req.DestSystem,
		RequestorID:         req.RequestorID,
		ApproverID:          req.ApproverID,
		DTAID:               req.DTAID,
		SMEID:               req.SMEID,
		CustodianID:         req.CustodianID,
		Status:              req.Status,
		RejectionReason:     req.RejectionReason,
		CreatedTime:         req.CreatedTime,
		UpdatedTime:         req.UpdatedTime,
	}
	if len(approvals) > 0 {
		resp.ApprovalData = approvals
	}
	resp.TransferData = transfer
	return resp, nil
}

// signerIdentity builds the accumulator identity for the acting user
func signerIdentity(actor workflow.Actor) workflow.SignerIdentity {
	return workflow.SignerIdentity{
		ID:    actor.UserID,
		Name:  actor.Name,
		Email: actor.Email,
		Role:  actor.ActingRole,
	}
}
