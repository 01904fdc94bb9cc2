package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/logger"
	"github.com/richxcame/localeflow/pkg/middleware"
	"go.uber.org/zap"
)

// Middleware enforces rate limits per endpoint. Authenticated requests are
// keyed by user id, anonymous ones by client IP. Redis failures admit the
// request rather than blocking traffic.
func Middleware(limiter *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		identity := c.ClientIP()
		identityType := IdentityAnonymous
		if userID, ok := middleware.GetUserID(c); ok {
			identity = userID.String()
			identityType = IdentityAuthenticated
		}

		rule := limiter.RuleFor(endpoint, identityType)
		result, err := limiter.Allow(c.Request.Context(), endpoint, identity, rule, identityType)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("Rate limit check failed",
				zap.String("endpoint", endpoint), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			if result.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			}
			common.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
