package tm

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/logger"
)

// Handler exposes translation memory endpoints
type Handler struct {
	service *Service
}

// NewHandler creates the TM handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires TM endpoints onto the router group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	tm := r.Group("/translation-memory")
	{
		tm.POST("", h.AddEntry)
		tm.GET("", h.ListEntries)
	}
}

// AddEntryRequest is the payload for creating a TM entry
type AddEntryRequest struct {
	SourceLocale   string `json:"source_locale" binding:"required"`
	TargetLocale   string `json:"target_locale" binding:"required"`
	SourceText     string `json:"source_text" binding:"required"`
	TranslatedText string `json:"translated_text" binding:"required"`
}

// AddEntry stores a new translation memory entry
func (h *Handler) AddEntry(c *gin.Context) {
	var req AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	entry := h.service.AddEntry(c.Request.Context(), req.SourceLocale, req.TargetLocale, req.SourceText, req.TranslatedText)

	logger.WithContext(c.Request.Context()).Info("translation memory entry added",
		zap.String("entry_id", entry.ID.String()),
		zap.String("source_locale", entry.SourceLocale),
		zap.String("target_locale", entry.TargetLocale))

	common.CreatedResponse(c, entry)
}

// ListEntries returns TM entries for a locale pair
func (h *Handler) ListEntries(c *gin.Context) {
	sourceLocale := c.Query("source_locale")
	targetLocale := c.Query("target_locale")
	if sourceLocale == "" || targetLocale == "" {
		common.ErrorResponse(c, 400, "source_locale and target_locale are required")
		return
	}

	entries := h.service.ListEntries(sourceLocale, targetLocale)
	common.SuccessResponse(c, entries)
}
