package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/richxcame/localeflow/pkg/common"
)

// Cache is the subset of the Redis client used for response caching
type Cache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	summaryCacheKey   = "analytics:summary"
	overviewCacheKey  = "analytics:overview"
	dashboardCacheKey = "analytics:dashboard"

	// Rollups are recomputed at most every 30 seconds.
	cacheTTL = 30 * time.Second
)

// Handler exposes dashboard and analytics endpoints
type Handler struct {
	service *Service
	cache   Cache
}

// NewHandler creates the analytics handler. A nil cache disables
// response caching.
func NewHandler(service *Service, cache Cache) *Handler {
	return &Handler{service: service, cache: cache}
}

// RegisterRoutes wires analytics endpoints onto the router group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/summary", h.Summary)
		analytics.GET("/overview", h.Overview)
	}
	r.GET("/dashboard/summary", h.DashboardSummary)
}

// Summary returns the platform-wide analytics rollup
func (h *Handler) Summary(c *gin.Context) {
	h.respondCached(c, summaryCacheKey, func() interface{} { return h.service.Summary() })
}

// Overview returns the detailed reporting view
func (h *Handler) Overview(c *gin.Context) {
	h.respondCached(c, overviewCacheKey, func() interface{} { return h.service.Overview() })
}

// DashboardSummary returns the home dashboard metrics
func (h *Handler) DashboardSummary(c *gin.Context) {
	h.respondCached(c, dashboardCacheKey, func() interface{} { return h.service.DashboardSummary() })
}

// InvalidateCache drops every cached analytics response. Callers that
// bulk-load project data use it to avoid serving stale rollups for a
// full TTL.
func (h *Handler) InvalidateCache(ctx context.Context) error {
	if h.cache == nil {
		return nil
	}
	return h.cache.Delete(ctx, summaryCacheKey, overviewCacheKey, dashboardCacheKey)
}

// respondCached serves the cached payload when present, otherwise builds
// it, stores it, and serves it. Cache failures fall through to a fresh
// build so Redis outages never break the dashboard.
func (h *Handler) respondCached(c *gin.Context, key string, build func() interface{}) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if raw, err := h.cache.GetString(ctx, key); err == nil && raw != "" {
			common.SuccessResponse(c, json.RawMessage(raw))
			return
		}
	}

	data := build()
	if h.cache != nil {
		if raw, err := json.Marshal(data); err == nil {
			_ = h.cache.SetWithExpiration(ctx, key, raw, cacheTTL)
		}
	}
	common.SuccessResponse(c, data)
}
