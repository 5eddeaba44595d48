package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/assuredtransfer/aft-request-api/internal/models"
	"github.com/assuredtransfer/aft-request-api/internal/service"
	"github.com/assuredtransfer/aft-request-api/internal/serviceerror"
	"github.com/assuredtransfer/aft-request-api/internal/utils"
	"github.com/assuredtransfer/aft-request-api/internal/workflow"
)

// TransitionHandler handles lifecycle transition HTTP requests
type TransitionHandler struct {
	transitionService *service.TransitionService
}

// NewTransitionHandler creates a new transition handler instance
func NewTransitionHandler(transitionService *service.TransitionService) *TransitionHandler {
	return &TransitionHandler{
		transitionService: transitionService,
	}
}

// sendTransition runs one transition and writes the resulting snapshot
func sendTransition(c *gin.Context, run func(ctx context.Context, requestID string, actor workflow.Actor) (*models.RequestResponse, *serviceerror.ServiceError)) {
	requestID := c.Param("requestId")
	if requestID == "" {
		utils.SendBadRequestError(c, "requestId is required")
		return
	}

	actor := utils.GetActorFromContext(c)

	response, svcErr := run(c.Request.Context(), requestID, actor)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	utils.SendOKResponse(c, response)
}

// SubmitRequest handles POST /requests/:requestId/submit
func (h *TransitionHandler) SubmitRequest(c *gin.Context) {
	var request models.SubmitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, err.Error())
		return
	}
	sendTransition(c, func(ctx context.Context, requestID string, actor workflow.Actor) (*models.RequestResponse, *serviceerror.ServiceError) {
		return h.transitionService.Submit(ctx, requestID, actor, request)
	})
}

// ApproveRequest handles POST /requests/:requestId/approve
func (h *TransitionHandler) ApproveRequest(c *gin.Context) {
	var request models.ApproveRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, err.Error())
		return
	}
	sendTransition(c, func(ctx context.Context, requestID string, actor workflow.Actor) (*models.RequestResponse, *serviceerror.ServiceError) {
		return h.transitionService.Approve(ctx, requestID, actor, request)
	})
}

// RejectRequest handles POST /requests/:requestId/reject
func (h *TransitionHandler) RejectRequest(c *gin.Context) {
	var request models.RejectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, err.Error())
		return
	}
	sendTransition(c, func(ctx context.Context, requestID string, actor workflow.Actor) (*models.RequestResponse, *serviceerror.ServiceError) {
		return h.transitionService.Reject(ctx, requestID, actor, request)
	})
}

// CancelRequest handles POST /requests/:requestId/cancel
func (h *TransitionHandler) CancelRequest(c *gin.Context) {
	sendTransition(c, h.transitionService.Cancel)
}

// ReturnRequestToDraft handles POST /requests/:requestId/return-to-draft
func (h *TransitionHandler) ReturnRequestToDraft(c *gin.Context) {
	sendTransition(c, h.transitionService.ReturnToDraft)
}

// RecordAntivirusScan handles POST /requests/:requestId/antivirus-scan
func (h *TransitionHandler) RecordAntivirusScan(c *gin.Context) {
	var request models.AntivirusScanRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, err.Error())
		return
	}
	sendTransition(c, func(ctx context.Context, requestID string, actor workflow.Actor) (*models.RequestResponse, *serviceerror.ServiceError) {
		return h.transitionService.RecordAntivirusScan(ctx, requestID, actor, request)
	})
}

// InitiateTransfer handles POST /requests/:requestId/initiate-transfer
func (h *TransitionHandler) InitiateTransfer(c *gin.Context) {
	sendTransition(c, h.transitionService.InitiateTransfer)
}

// DTASignRequest handles POST /requests/:requestId/dta-sign
func (h *TransitionHandler) DTASignRequest(c *gin.Context) {
	var request models.DTASignRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, err.Error())
		return
	}
	sendTransition(c, func(ctx context.Context, requestID string, actor workflow.Actor) (*models.RequestResponse, *serviceerror.ServiceError) {
		return h.transitionService.DTASign(ctx, requestID, actor, request)
	})
}

// SMESignRequest handles POST /requests/:requestId/sme-sign
func (h *TransitionHandler) SMESignRequest(c *gin.Context) {
	var request models.SMESignRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, err.Error())
		return
	}
	sendTransition(c, func(ctx context.Context, requestID string, actor workflow.Actor) (*models.RequestResponse, *serviceerror.ServiceError) {
		return h.transitionService.SMESign(ctx, requestID, actor, request)
	})
}

// RecordDisposition handles POST /requests/:requestId/disposition
func (h *TransitionHandler) RecordDisposition(c *gin.Context) {
	var request models.DispositionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, err.Error())
		return
	}
	sendTransition(c, func(ctx context.Context, requestID string, actor workflow.Actor) (*models.RequestResponse, *serviceerror.ServiceError) {
		return h.transitionService.Disposition(ctx, requestID, actor, request)
	})
}
