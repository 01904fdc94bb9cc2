package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the payload served by the health endpoints
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthCheck returns a liveness handler that always reports healthy
func HealthCheck(serviceName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
		})
	}
}

// HealthCheckWithDeps returns a readiness handler. It runs every
// dependency check and serves 503 when any fails, with per-dependency
// results in the body.
func HealthCheckWithDeps(serviceName, version string, checks map[string]func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
			Checks:  make(map[string]string, len(checks)),
		}

		statusCode := http.StatusOK
		for name, check := range checks {
			if err := check(); err != nil {
				resp.Checks[name] = "unhealthy: " + err.Error()
				resp.Status = "unhealthy"
				statusCode = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "healthy"
		}

		c.JSON(statusCode, resp)
	}
}
