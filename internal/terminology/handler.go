package terminology

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/logger"
)

// Handler exposes term base endpoints
type Handler struct {
	service *Service
}

// NewHandler creates the term base handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires term base endpoints onto the router group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	terms := r.Group("/term-base")
	{
		terms.POST("", h.AddEntry)
		terms.GET("", h.ListEntries)
	}
}

// AddEntryRequest is the payload for creating a term base entry
type AddEntryRequest struct {
	Sector       string `json:"sector" binding:"required"`
	SourceLocale string `json:"source_locale" binding:"required"`
	TargetLocale string `json:"target_locale" binding:"required"`
	Term         string `json:"term" binding:"required"`
	Translation  string `json:"translation" binding:"required"`
	Notes        string `json:"notes"`
}

// AddEntry stores a new term base entry
func (h *Handler) AddEntry(c *gin.Context) {
	var req AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	entry := h.service.AddEntry(c.Request.Context(),
		req.Sector, req.SourceLocale, req.TargetLocale, req.Term, req.Translation, req.Notes)

	logger.WithContext(c.Request.Context()).Info("term base entry added",
		zap.String("entry_id", entry.ID.String()),
		zap.String("sector", entry.Sector))

	common.CreatedResponse(c, entry)
}

// ListEntries returns terms for a sector and locale pair
func (h *Handler) ListEntries(c *gin.Context) {
	sector := c.Query("sector")
	sourceLocale := c.Query("source_locale")
	targetLocale := c.Query("target_locale")
	if sector == "" || sourceLocale == "" || targetLocale == "" {
		common.ErrorResponse(c, 400, "sector, source_locale and target_locale are required")
		return
	}

	entries := h.service.ListEntries(sector, sourceLocale, targetLocale)
	common.SuccessResponse(c, entries)
}
