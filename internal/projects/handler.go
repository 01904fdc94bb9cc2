package projects

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/logger"
	"github.com/richxcame/localeflow/pkg/middleware"
	"github.com/richxcame/localeflow/pkg/pagination"
)

// Handler exposes project, job, and studio endpoints
type Handler struct {
	service *Service
}

// NewHandler creates the projects handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires project endpoints onto the router group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		projects.POST("", h.CreateProject)
		projects.GET("", h.ListProjects)
		projects.GET("/:id", h.GetProject)
		projects.GET("/:id/segments", h.ListSegments)
		projects.POST("/:id/segments/:segmentID", h.UpdateSegment)
	}

	jobs := r.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.POST("/:id/steps/:step/complete", h.CompleteStep)
		jobs.POST("/:id/quality", h.SubmitQualityReport)
	}

	r.GET("/translation-studio/:id", h.StudioSnapshot)
}

// CreateProjectRequest is the manual project creation payload
type CreateProjectRequest struct {
	Name               string            `json:"name" binding:"required"`
	Sector             string            `json:"sector" binding:"required"`
	SourceLocale       string            `json:"source_locale" binding:"required"`
	TargetLocales      []string          `json:"target_locales" binding:"required,min=1"`
	Content            string            `json:"content" binding:"required"`
	Client             string            `json:"client"`
	Priority           string            `json:"priority"`
	DueDate            *time.Time        `json:"due_date"`
	EstimatedWordCount int               `json:"estimated_word_count"`
	Budget             float64           `json:"budget"`
	Description        string            `json:"description"`
	AssignedVendorID   string            `json:"assigned_vendor_id"`
	ConnectorID        string            `json:"connector_id"`
	Metadata           map[string]string `json:"metadata"`
}

// CreateProject creates a job from a manual project form
func (h *Handler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	connectorID := uuid.Nil
	if req.ConnectorID != "" {
		parsed, err := uuid.Parse(req.ConnectorID)
		if err != nil {
			common.ErrorResponse(c, 400, "invalid connector id")
			return
		}
		connectorID = parsed
	}

	createdBy := ""
	if userID, ok := middleware.GetUserID(c); ok {
		createdBy = userID.String()
	}

	job := h.service.CreateProject(c.Request.Context(), CreateProjectInput{
		Name:               req.Name,
		Sector:             req.Sector,
		SourceLocale:       req.SourceLocale,
		TargetLocales:      req.TargetLocales,
		Content:            req.Content,
		Client:             req.Client,
		Priority:           models.ParsePriority(req.Priority),
		DueDate:            req.DueDate,
		EstimatedWordCount: req.EstimatedWordCount,
		Budget:             req.Budget,
		Description:        req.Description,
		AssignedVendorID:   req.AssignedVendorID,
		ConnectorID:        connectorID,
		CreatedByID:        createdBy,
		Metadata:           req.Metadata,
	})

	common.CreatedResponse(c, job)
}

// ListProjects returns the caller's project list filtered by role
func (h *Handler) ListProjects(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	jobs := h.service.ListProjectsForUser(userID, role)
	params := pagination.ParseParams(c)
	page, meta := paginateJobs(jobs, params)
	common.SuccessResponseWithMeta(c, page, meta)
}

// ListJobs returns every job regardless of ownership
func (h *Handler) ListJobs(c *gin.Context) {
	jobs := h.service.ListProjects()
	params := pagination.ParseParams(c)
	page, meta := paginateJobs(jobs, params)
	common.SuccessResponseWithMeta(c, page, meta)
}

func paginateJobs(jobs []models.Job, params pagination.Params) ([]models.Job, *pagination.Meta) {
	total := int64(len(jobs))
	start := params.Offset
	if start > len(jobs) {
		start = len(jobs)
	}
	end := start + params.Limit
	if end > len(jobs) {
		end = len(jobs)
	}
	return jobs[start:end], pagination.BuildMeta(params.Limit, params.Offset, total)
}

// GetProject returns one job by id
func (h *Handler) GetProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, 400, "invalid project id")
		return
	}

	job, err := h.service.GetProject(c.Request.Context(), projectID)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, job)
}

// ListSegments returns all segments of a project
func (h *Handler) ListSegments(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, 400, "invalid project id")
		return
	}

	job, err := h.service.GetProject(c.Request.Context(), projectID)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, job.Segments)
}

// UpdateSegment applies a studio edit to one segment
func (h *Handler) UpdateSegment(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, 400, "invalid project id")
		return
	}
	segmentID, err := uuid.Parse(c.Param("segmentID"))
	if err != nil {
		common.ErrorResponse(c, 400, "invalid segment id")
		return
	}

	var update SegmentUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	segment, err := h.service.UpdateSegment(c.Request.Context(), projectID, segmentID, update)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	logger.WithContext(c.Request.Context()).Info("segment updated",
		zap.String("project_id", projectID.String()),
		zap.String("segment_id", segmentID.String()))

	common.SuccessResponse(c, segment)
}

// CompleteStep advances the named workflow step
func (h *Handler) CompleteStep(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, 400, "invalid job id")
		return
	}

	var completion StepCompletion
	if err := c.ShouldBindJSON(&completion); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	job, err := h.service.CompleteStep(c.Request.Context(), jobID, c.Param("step"), completion)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, job)
}

// SubmitQualityReport attaches a quality evaluation to a job
func (h *Handler) SubmitQualityReport(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, 400, "invalid job id")
		return
	}

	var report models.QualityReport
	if err := c.ShouldBindJSON(&report); err != nil {
		common.ErrorResponse(c, 400, "invalid request: "+err.Error())
		return
	}

	job, err := h.service.AddQualityReport(c.Request.Context(), jobID, report)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, job)
}

// StudioSnapshot returns the CAT workspace payload for a target locale
func (h *Handler) StudioSnapshot(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, 400, "invalid project id")
		return
	}

	targetLocale := c.Query("target_locale")
	if targetLocale == "" {
		common.ErrorResponse(c, 400, "target_locale is required")
		return
	}

	snapshot, err := h.service.StudioSnapshot(c.Request.Context(), projectID, targetLocale)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, snapshot)
}
