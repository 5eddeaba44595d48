package middleware

import (
	"github.com/gin-gonic/gin"

	pkgutils "github.com/assuredtransfer/aft-request-api/pkg/utils"
)

// CorrelationIDHeader carries the request correlation ID end to end
const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID propagates the caller's correlation ID, generating one when
// the header is absent, and echoes it back on the response.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = pkgutils.GenerateID()
		}
		c.Set("correlationID", correlationID)
		c.Header(CorrelationIDHeader, correlationID)
		c.Next()
	}
}
