package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/pkg/logger"
)

// RequestLogger logs one line per HTTP request with the correlation id
// carried by the request context
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}

		reqLogger := logger.WithContext(c.Request.Context())
		if len(c.Errors) > 0 {
			reqLogger.Error("Request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		reqLogger.Info("Request completed", fields...)
	}
}
