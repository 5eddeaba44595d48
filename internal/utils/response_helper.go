package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/assuredtransfer/aft-request-api/internal/serviceerror"
	"github.com/assuredtransfer/aft-request-api/internal/workflow"
	pkgutils "github.com/assuredtransfer/aft-request-api/pkg/utils"
)

// SendSuccessResponse sends a successful JSON response
func SendSuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendCreatedResponse sends a 201 Created response
func SendCreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendOKResponse sends a 200 OK response
func SendOKResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendNoContentResponse sends a 204 No Content response
func SendNoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// SendServiceError writes a ServiceError with the HTTP status its code maps
// to. The body is the ServiceError itself so clients see the stable code.
func SendServiceError(c *gin.Context, svcErr *serviceerror.ServiceError) {
	c.JSON(HTTPStatusForServiceError(svcErr), svcErr)
}

// HTTPStatusForServiceError maps error codes to HTTP status codes
func HTTPStatusForServiceError(svcErr *serviceerror.ServiceError) int {
	switch svcErr.Code {
	case serviceerror.ValidationError.Code:
		return http.StatusBadRequest
	case serviceerror.UnauthorizedError.Code:
		return http.StatusUnauthorized
	case serviceerror.ForbiddenError.Code:
		return http.StatusForbidden
	case serviceerror.NotFoundError.Code:
		return http.StatusNotFound
	case serviceerror.ConflictError.Code, serviceerror.InvalidStateError.Code:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// SendBadRequestError sends a 400 Bad Request error
func SendBadRequestError(c *gin.Context, details string) {
	SendServiceError(c, serviceerror.CustomServiceError(serviceerror.ValidationError, details))
}

// SendUnauthorizedError sends a 401 Unauthorized error
func SendUnauthorizedError(c *gin.Context, details string) {
	SendServiceError(c, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, details))
}

// SendForbiddenError sends a 403 Forbidden error
func SendForbiddenError(c *gin.Context, details string) {
	SendServiceError(c, serviceerror.CustomServiceError(serviceerror.ForbiddenError, details))
}

// SendInternalServerError sends a 500 Internal Server Error
func SendInternalServerError(c *gin.Context, details string) {
	SendServiceError(c, serviceerror.CustomServiceError(serviceerror.InternalServerError, details))
}

const actorContextKey = "actor"

// SetActorInContext stores the authenticated actor in the Gin context
func SetActorInContext(c *gin.Context, actor workflow.Actor) {
	c.Set(actorContextKey, actor)
}

// GetActorFromContext extracts the authenticated actor from the Gin context.
// The zero Actor is returned when authentication middleware did not run.
func GetActorFromContext(c *gin.Context) workflow.Actor {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return workflow.Actor{}
	}
	actor, ok := value.(workflow.Actor)
	if !ok {
		return workflow.Actor{}
	}
	return actor
}

// GetCorrelationIDFromContext extracts correlation ID from context
func GetCorrelationIDFromContext(c *gin.Context) string {
	correlationID, exists := c.Get("correlationID")
	if !exists {
		return pkgutils.GenerateID()
	}
	return correlationID.(string)
}
