package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/logger"
	"go.uber.org/zap"
)

// Recovery turns handler panics into 500 responses instead of dropped
// connections
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
				)
				common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
