package llm

import (
	"net/http"
	"time"

	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"

	"github.com/richxcame/localeflow/pkg/common"
)

// Handler exposes LLM-assisted translation endpoints
type Handler struct {
	service        *Service
	requestTimeout time.Duration
}

// NewHandler creates the LLM handler
func NewHandler(service *Service, requestTimeout time.Duration) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &Handler{service: service, requestTimeout: requestTimeout}
}

// RegisterRoutes wires LLM endpoints onto the router group. Handlers run
// behind a timeout middleware since providers can hang.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	guard := h.timeoutMiddleware()
	r.POST("/translate", guard, h.Translate)
	r.POST("/quality-estimate", guard, h.EstimateQuality)
	r.POST("/suggest-improvements", guard, h.SuggestImprovements)
}

func (h *Handler) timeoutMiddleware() gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(h.requestTimeout),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusGatewayTimeout, "llm request timed out")
		}),
	)
}

// TranslateRequest is the LLM translation payload
type TranslateRequest struct {
	SourceText string `json:"source_text" binding:"required"`
	SourceLang string `json:"source_lang" binding:"required"`
	TargetLang string `json:"target_lang" binding:"required"`
	Context    string `json:"context"`
	Provider   string `json:"provider"`
}

// Translate translates text with the requested provider
func (h *Handler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}
	if req.Provider == "" {
		req.Provider = "openai"
	}

	result := h.service.TranslateText(c.Request.Context(),
		req.SourceText, req.SourceLang, req.TargetLang, req.Context, req.Provider)
	common.SuccessResponse(c, result)
}

// QualityEstimateRequest is the quality estimation payload
type QualityEstimateRequest struct {
	SourceText     string `json:"source_text" binding:"required"`
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang" binding:"required"`
	TargetLang     string `json:"target_lang" binding:"required"`
}

// EstimateQuality scores a translation
func (h *Handler) EstimateQuality(c *gin.Context) {
	var req QualityEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	result := h.service.EstimateQuality(c.Request.Context(),
		req.SourceText, req.TranslatedText, req.SourceLang, req.TargetLang)
	common.SuccessResponse(c, result)
}

// SuggestImprovementsRequest is the improvement suggestion payload
type SuggestImprovementsRequest struct {
	SourceText     string `json:"source_text" binding:"required"`
	TranslatedText string `json:"translated_text" binding:"required"`
	Context        string `json:"context"`
}

// SuggestImprovements returns improvement suggestions for a translation
func (h *Handler) SuggestImprovements(c *gin.Context) {
	var req SuggestImprovementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	suggestions := h.service.SuggestImprovements(c.Request.Context(),
		req.SourceText, req.TranslatedText, req.Context)
	common.SuccessResponse(c, gin.H{"suggestions": suggestions})
}
