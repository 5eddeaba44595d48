package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/assuredtransfer/aft-request-api/internal/models"
	"github.com/assuredtransfer/aft-request-api/internal/service"
	"github.com/assuredtransfer/aft-request-api/internal/utils"
)

// AuthHandler handles authentication and user HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var request models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, err.Error())
		return
	}

	response, svcErr := h.authService.Login(c.Request.Context(), request)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	utils.SendOKResponse(c, response)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor := utils.GetActorFromContext(c)

	response, svcErr := h.authService.Me(c.Request.Context(), actor)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	utils.SendOKResponse(c, response)
}

// ListUsers handles GET /users?role=
func (h *AuthHandler) ListUsers(c *gin.Context) {
	role := c.Query("role")
	if role == "" {
		utils.SendBadRequestError(c, "role parameter is required")
		return
	}

	actor := utils.GetActorFromContext(c)

	users, svcErr := h.authService.ListUsersByRole(c.Request.Context(), actor, role)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	utils.SendOKResponse(c, gin.H{
		"users": users,
		"count": len(users),
	})
}
