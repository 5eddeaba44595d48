package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/assuredtransfer/aft-request-api/internal/dao"
	"github.com/assuredtransfer/aft-request-api/internal/database"
	"github.com/assuredtransfer/aft-request-api/internal/models"
	"github.com/assuredtransfer/aft-request-api/internal/serviceerror"
	"github.com/assuredtransfer/aft-request-api/internal/utils"
	"github.com/assuredtransfer/aft-request-api/internal/workflow"
	pkgutils "github.com/assuredtransfer/aft-request-api/pkg/utils"
)

// RequestService handles request CRUD, role-scoped visibility, and audit
// history reads. Status-changing operations live in TransitionService.
type RequestService struct {
	requestDAO *dao.RequestDAO
	auditDAO   *dao.AuditLogDAO
	db         *database.DB
	logger     *logrus.Logger
}

// NewRequestService creates a new request service instance
func NewRequestService(
	requestDAO *dao.RequestDAO,
	auditDAO *dao.AuditLogDAO,
	db *database.DB,
	logger *logrus.Logger,
) *RequestService {
	return &RequestService{
		requestDAO: requestDAO,
		auditDAO:   auditDAO,
		db:         db,
		logger:     logger,
	}
}

// Create creates a new draft request owned by the acting requestor
func (s *RequestService) Create(ctx context.Context, actor workflow.Actor, payload models.RequestCreateRequest) (*models.RequestResponse, *serviceerror.ServiceError) {
	if actor.UserID == "" {
		return nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "no authenticated actor")
	}
	if !actor.HasRole(workflow.RoleRequestor) && !actor.IsAdmin() {
		return nil, serviceerror.CustomServiceError(serviceerror.ForbiddenError,
			"creating a request requires the requestor role")
	}
	if err := pkgutils.ValidateTransferDirection(payload.TransferDirection); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := pkgutils.ValidateRequired("classificationLevel", payload.ClassificationLevel); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	now := pkgutils.GetCurrentTimeMillis()
	emptyObject := models.JSON(json.RawMessage(`{}`))
	req := &models.Request{
		RequestID:           pkgutils.GenerateID(),
		RequestNumber:       pkgutils.GenerateRequestNumber(),
		TransferDirection:   payload.TransferDirection,
		ClassificationLevel: payload.ClassificationLevel,
		TransferPurpose:     payload.TransferPurpose,
		SourceSystem:        payload.SourceSystem,
		DestSystem:          payload.DestSystem,
		RequestorID:         actor.UserID,
		Status:              string(workflow.StatusDraft),
		ApprovalData:        emptyObject,
		TransferData:        emptyObject,
		CreatedTime:         now,
		UpdatedTime:         now,
	}

	txErr := s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		if err := s.requestDAO.CreateWithTx(ctx, tx, req); err != nil {
			return err
		}
		entry := &models.AuditLogEntry{
			AuditID:     pkgutils.GenerateAuditID(),
			RequestID:   req.RequestID,
			ActorID:     actor.UserID,
			Action:      workflow.ActionCreated,
			OldStatus:   nil,
			NewStatus:   req.Status,
			Notes:       fmt.Sprintf("Created by %s (%s)", actor.Name, actor.ActingRole),
			CreatedTime: now,
		}
		return s.auditDAO.CreateWithTx(ctx, tx, entry)
	})
	if txErr != nil {
		return nil, mapTransitionError(txErr)
	}

	s.logger.WithFields(logrus.Fields{
		"request_id":     req.RequestID,
		"request_number": req.RequestNumber,
		"requestor_id":   actor.UserID,
	}).Info("Request created")

	return buildRequestResponse(req)
}

// Get retrieves a request snapshot under role-scoped visibility
func (s *RequestService) Get(ctx context.Context, actor workflow.Actor, requestID string) (*models.RequestResponse, *serviceerror.ServiceError) {
	req, svcErr := s.loadVisible(ctx, actor, requestID)
	if svcErr != nil {
		return nil, svcErr
	}
	return buildRequestResponse(req)
}

// loadVisible loads a request and enforces read visibility. An actor who
// may not see the request gets Forbidden, not NotFound: request IDs appear
// in audit trails, so masking existence buys nothing.
func (s *RequestService) loadVisible(ctx context.Context, actor workflow.Actor, requestID string) (*models.Request, *serviceerror.ServiceError) {
	if actor.UserID == "" {
		return nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "no authenticated actor")
	}
	if err := pkgutils.ValidateRequestID(requestID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	req, err := s.requestDAO.GetByID(ctx, requestID)
	if err != nil {
		return nil, mapTransitionError(err)
	}

	approvals, parseErr := workflow.ParseApprovalData([]byte(req.ApprovalData))
	if parseErr != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, parseErr.Error())
	}
	transfer, parseErr := workflow.ParseTransferData([]byte(req.TransferData))
	if parseErr != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, parseErr.Error())
	}

	if !workflow.CanRead(actor, req.View(), approvals, transfer) {
		return nil, serviceerror.CustomServiceError(serviceerror.ForbiddenError,
			"request is not visible to the acting user")
	}
	return req, nil
}

// List returns the page of requests visible to the actor, optionally
// narrowed to one status.
func (s *RequestService) List(ctx context.Context, actor workflow.Actor, statusFilter string, params *utils.PaginationParams) ([]models.RequestResponse, *utils.PaginationMetadata, *serviceerror.ServiceError) {
	if actor.UserID == "" {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "no authenticated actor")
	}
	if statusFilter != "" {
		if _, err := workflow.ParseStatus(statusFilter); err != nil {
			return nil, nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
		}
	}

	filter := visibilityFilter(actor)
	filter.Status = statusFilter

	requests, total, err := s.requestDAO.List(ctx, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, nil, mapTransitionError(err)
	}

	responses := make([]models.RequestResponse, 0, len(requests))
	for i := range requests {
		resp, svcErr := buildRequestResponse(&requests[i])
		if svcErr != nil {
			return nil, nil, svcErr
		}
		responses = append(responses, *resp)
	}

	return responses, utils.CalculatePaginationMetadata(total, params.Limit, params.Offset), nil
}

// visibilityFilter composes the listing filter from the actor's full role
// set: own requests, requests at a stage one of their roles serves, and
// requests carrying their signature.
func visibilityFilter(actor workflow.Actor) dao.ListFilter {
	if actor.IsAdmin() {
		return dao.ListFilter{}
	}

	filter := dao.ListFilter{SignerUserID: actor.UserID}
	seen := map[string]struct{}{}
	addStatus := func(statuses ...workflow.Status) {
		for _, st := range statuses {
			if _, ok := seen[string(st)]; !ok {
				seen[string(st)] = struct{}{}
				filter.AnyStatuses = append(filter.AnyStatuses, string(st))
			}
		}
	}

	for _, role := range actor.Roles {
		switch role {
		case workflow.RoleRequestor:
			filter.RequestorID = actor.UserID
		case workflow.RoleDAO:
			addStatus(workflow.StatusSubmitted, workflow.StatusPendingDAO)
		case workflow.RoleApprover:
			addStatus(workflow.StatusSubmitted, workflow.StatusPendingApprover)
		case workflow.RoleCPSO:
			addStatus(workflow.StatusPendingCPSO)
		case workflow.RoleDTA:
			addStatus(workflow.StatusApproved, workflow.StatusPendingDTA,
				workflow.StatusActiveTransfer, workflow.StatusPendingSME,
				workflow.StatusPendingMediaCustodian)
		case workflow.RoleSME:
			addStatus(workflow.StatusPendingSME, workflow.StatusPendingMediaCustodian)
		case workflow.RoleMediaCustodian:
			addStatus(workflow.StatusPendingMediaCustodian)
		}
	}
	return filter
}

// Update edits the classification fields of a draft or rejected request.
// Status never changes here.
func (s *RequestService) Update(ctx context.Context, actor workflow.Actor, requestID string, payload models.RequestUpdateRequest) (*models.RequestResponse, *serviceerror.ServiceError) {
	if actor.UserID == "" {
		return nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "no authenticated actor")
	}
	if err := pkgutils.ValidateRequestID(requestID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	req, err := s.requestDAO.GetByID(ctx, requestID)
	if err != nil {
		return nil, mapTransitionError(err)
	}

	if authErr := workflow.AuthorizeEdit(actor, req.View()); authErr != nil {
		return nil, mapTransitionError(authErr)
	}

	if payload.TransferDirection != "" {
		if valErr := pkgutils.ValidateTransferDirection(payload.TransferDirection); valErr != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, valErr.Error())
		}
		req.TransferDirection = payload.TransferDirection
	}
	if payload.ClassificationLevel != "" {
		req.ClassificationLevel = payload.ClassificationLevel
	}
	if payload.TransferPurpose != "" {
		req.TransferPurpose = payload.TransferPurpose
	}
	if payload.SourceSystem != "" {
		req.SourceSystem = payload.SourceSystem
	}
	if payload.DestSystem != "" {
		req.DestSystem = payload.DestSystem
	}
	req.UpdatedTime = pkgutils.GetCurrentTimeMillis()

	if err := s.requestDAO.UpdateFields(ctx, req); err != nil {
		return nil, mapTransitionError(err)
	}

	s.logger.WithFields(logrus.Fields{
		"request_id": req.RequestID,
		"actor_id":   actor.UserID,
	}).Info("Request fields updated")

	return buildRequestResponse(req)
}

// Delete removes a request while it is still a draft; non-draft requests
// are never physically deleted. Audit entries for the request are kept.
func (s *RequestService) Delete(ctx context.Context, actor workflow.Actor, requestID string) *serviceerror.ServiceError {
	if actor.UserID == "" {
		return serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "no authenticated actor")
	}
	if err := pkgutils.ValidateRequestID(requestID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	req, err := s.requestDAO.GetByID(ctx, requestID)
	if err != nil {
		return mapTransitionError(err)
	}

	if authErr := workflow.Authorize(workflow.OpDelete, actor, req.View()); authErr != nil {
		return mapTransitionError(authErr)
	}

	if err := s.requestDAO.Delete(ctx, requestID); err != nil {
		return mapTransitionError(err)
	}

	s.logger.WithFields(logrus.Fields{
		"request_id":     req.RequestID,
		"request_number": req.RequestNumber,
		"actor_id":       actor.UserID,
	}).Info("Draft request deleted")

	return nil
}

// History returns a request's audit trail in creation order, under the same
// visibility rules as Get.
func (s *RequestService) History(ctx context.Context, actor workflow.Actor, requestID string) ([]models.AuditLogEntry, *serviceerror.ServiceError) {
	if _, svcErr := s.loadVisible(ctx, actor, requestID); svcErr != nil {
		return nil, svcErr
	}

	entries, err := s.auditDAO.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, mapTransitionError(err)
	}
	return entries, nil
}
