package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/assuredtransfer/aft-request-api/internal/models"
	"github.com/assuredtransfer/aft-request-api/internal/service"
	"github.com/assuredtransfer/aft-request-api/internal/utils"
)

// RequestHandler handles request CRUD and history HTTP requests
type RequestHandler struct {
	requestService *service.RequestService
}

// NewRequestHandler creates a new request handler instance
func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// CreateRequest handles POST /requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var request models.RequestCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, err.Error())
		return
	}

	actor := utils.GetActorFromContext(c)

	response, svcErr := h.requestService.Create(c.Request.Context(), actor, request)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	utils.SendCreatedResponse(c, response)
}

// GetRequest handles GET /requests/:requestId
func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID := c.Param("requestId")
	if requestID == "" {
		utils.SendBadRequestError(c, "requestId is required")
		return
	}

	actor := utils.GetActorFromContext(c)

	response, svcErr := h.requestService.Get(c.Request.Context(), actor, requestID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	utils.SendOKResponse(c, response)
}

// ListRequests handles GET /requests
func (h *RequestHandler) ListRequests(c *gin.Context) {
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	params := utils.NewPaginationParams(limit, offset)

	actor := utils.GetActorFromContext(c)

	requests, pagination, svcErr := h.requestService.List(c.Request.Context(), actor, status, params)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	utils.SendOKResponse(c, gin.H{
		"requests":   requests,
		"pagination": pagination,
	})
}

// UpdateRequest handles PUT /requests/:requestId
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	requestID := c.Param("requestId")
	if requestID == "" {
		utils.SendBadRequestError(c, "requestId is required")
		return
	}

	var request models.RequestUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, err.Error())
		return
	}

	actor := utils.GetActorFromContext(c)

	response, svcErr := h.requestService.Update(c.Request.Context(), actor, requestID, request)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	utils.SendOKResponse(c, response)
}

// DeleteRequest handles DELETE /requests/:requestId
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	requestID := c.Param("requestId")
	if requestID == "" {
		utils.SendBadRequestError(c, "requestId is required")
		return
	}

	actor := utils.GetActorFromContext(c)

	if svcErr := h.requestService.Delete(c.Request.Context(), actor, requestID); svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	utils.SendNoContentResponse(c)
}

// GetRequestHistory handles GET /requests/:requestId/history
func (h *RequestHandler) GetRequestHistory(c *gin.Context) {
	requestID := c.Param("requestId")
	if requestID == "" {
		utils.SendBadRequestError(c, "requestId is required")
		return
	}

	actor := utils.GetActorFromContext(c)

	entries, svcErr := h.requestService.History(c.Request.Context(), actor, requestID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	utils.SendOKResponse(c, gin.H{
		"requestId": requestID,
		"history":   entries,
		"count":     len(entries),
	})
}
