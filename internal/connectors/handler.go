package connectors

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/pkg/common"
)

// Handler exposes connector registration and content sync endpoints
type Handler struct {
	service *Service
}

// NewHandler creates the connectors handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires connector endpoints onto the router group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	connectors := r.Group("/connectors")
	{
		connectors.POST("", h.Register)
		connectors.GET("", h.List)
		connectors.POST("/:id/content", h.SyncContent)
	}
}

// RegisterRequest is the payload to register a new connector
type RegisterRequest struct {
	Name         string            `json:"name" binding:"required"`
	Type         string            `json:"type" binding:"required,oneof=cms git"`
	Sector       string            `json:"sector" binding:"required"`
	Metadata     map[string]string `json:"metadata"`
	AutoSync     *bool             `json:"auto_sync"`
	ContentPaths []string          `json:"content_paths"`
}

// Register adds a new content integration
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	autoSync := true
	if req.AutoSync != nil {
		autoSync = *req.AutoSync
	}

	connector := h.service.Register(RegisterConnectorInput{
		Name:         req.Name,
		Type:         models.ConnectorType(req.Type),
		Sector:       req.Sector,
		Metadata:     req.Metadata,
		AutoSync:     autoSync,
		ContentPaths: req.ContentPaths,
	})
	common.CreatedResponse(c, connector)
}

// List returns all registered connectors
func (h *Handler) List(c *gin.Context) {
	common.SuccessResponse(c, h.service.List())
}

// SyncContentRequest is content pushed from a connector
type SyncContentRequest struct {
	ContentID          string            `json:"content_id" binding:"required"`
	SourceLocale       string            `json:"source_locale" binding:"required"`
	TargetLocales      []string          `json:"target_locales" binding:"required,min=1"`
	Content            string            `json:"content" binding:"required"`
	Metadata           map[string]string `json:"metadata"`
	Name               string            `json:"name"`
	Client             string            `json:"client"`
	Priority           string            `json:"priority"`
	DueDate            *time.Time        `json:"due_date"`
	EstimatedWordCount int               `json:"estimated_word_count"`
	Budget             float64           `json:"budget"`
	Description        string            `json:"description"`
	AssignedVendorID   string            `json:"assigned_vendor_id"`
}

// SyncContent turns inbound connector content into a translation job
func (h *Handler) SyncContent(c *gin.Context) {
	connectorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, 400, "invalid connector id")
		return
	}

	var req SyncContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	job, err := h.service.SyncContent(c.Request.Context(), connectorID, ContentSyncInput{
		ContentID:          req.ContentID,
		SourceLocale:       req.SourceLocale,
		TargetLocales:      req.TargetLocales,
		Content:            req.Content,
		Metadata:           req.Metadata,
		Name:               req.Name,
		Client:             req.Client,
		Priority:           req.Priority,
		DueDate:            req.DueDate,
		EstimatedWordCount: req.EstimatedWordCount,
		Budget:             req.Budget,
		Description:        req.Description,
		AssignedVendorID:   req.AssignedVendorID,
	})
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}
	common.CreatedResponse(c, job)
}
