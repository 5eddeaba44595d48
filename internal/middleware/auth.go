package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/assuredtransfer/aft-request-api/internal/service"
	"github.com/assuredtransfer/aft-request-api/internal/utils"
	"github.com/assuredtransfer/aft-request-api/internal/workflow"
)

// ActingRoleHeader selects which of the caller's roles this call is made
// under. Defaults to the user's primary role when absent.
const ActingRoleHeader = "X-Acting-Role"

// Authentication validates the bearer token, loads the user and their
// effective roles, and stores a workflow.Actor in the Gin context.
func Authentication(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.SendUnauthorizedError(c, "missing or invalid Authorization header")
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		user, roles, svcErr := authService.ResolveToken(c.Request.Context(), tokenString)
		if svcErr != nil {
			utils.SendServiceError(c, svcErr)
			c.Abort()
			return
		}

		actingRole := workflow.Role(user.PrimaryRole)
		if header := c.GetHeader(ActingRoleHeader); header != "" {
			requested, err := workflow.ParseRole(header)
			if err != nil {
				utils.SendBadRequestError(c, err.Error())
				c.Abort()
				return
			}
			if !holdsRole(roles, requested) {
				utils.SendForbiddenError(c, "acting role is not held by the authenticated user")
				c.Abort()
				return
			}
			actingRole = requested
		}

		utils.SetActorInContext(c, workflow.Actor{
			UserID:     user.UserID,
			Name:       user.FullName,
			Email:      user.Email,
			ActingRole: actingRole,
			Roles:      roles,
		})
		c.Next()
	}
}

func holdsRole(roles []workflow.Role, role workflow.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
