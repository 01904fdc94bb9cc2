package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/localeflow/pkg/logger"
)

const (
	// CorrelationIDHeader carries the caller-supplied request id
	CorrelationIDHeader = "X-Request-ID"
	// CorrelationIDKey is the gin context key for the correlation id
	CorrelationIDKey = "correlation_id"
)

// CorrelationID accepts a caller-supplied X-Request-ID or mints one, and
// echoes it back on the response
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Set(CorrelationIDKey, correlationID)

		// Propagate through the request context so logger.WithContext
		// picks it up in services and repositories.
		ctx := context.WithValue(c.Request.Context(), logger.CorrelationIDContextKey, correlationID)
		c.Request = c.Request.WithContext(ctx)

		c.Writer.Header().Set(CorrelationIDHeader, correlationID)
		c.Next()
	}
}

// GetCorrelationID reads the correlation id back out of the gin context
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(CorrelationIDKey); exists {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}
