// Package uploads accepts source documents for translation projects and
// hands them to the configured storage backend.
package uploads

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/logger"
	"github.com/richxcame/localeflow/pkg/middleware"
	"github.com/richxcame/localeflow/pkg/storage"
)

// Handler stores uploaded source documents
type Handler struct {
	storage storage.Storage
	logger  *zap.Logger
}

// NewHandler creates the upload handler
func NewHandler(store storage.Storage, log *zap.Logger) *Handler {
	return &Handler{storage: store, logger: log}
}

// RegisterRoutes wires the upload endpoint onto an authenticated group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/upload", h.Upload)
}

// Upload stores a multipart source document and returns its storage key
func (h *Handler) Upload(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "file is required")
		return
	}

	projectID := c.PostForm("project_id")
	if projectID == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "project_id is required")
		return
	}

	if !storage.ValidateUploadExtension(fileHeader.Filename) {
		common.ErrorResponse(c, http.StatusBadRequest, "File type not supported")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "failed to read upload")
		return
	}
	defer file.Close()

	key := storage.GenerateSourceDocumentKey(userID, fileHeader.Filename)
	contentType := storage.GetMimeTypeFromExtension(fileHeader.Filename)

	result, err := h.storage.Upload(c.Request.Context(), key, file, fileHeader.Size, contentType)
	if err != nil {
		h.logger.Error("upload failed", zap.String("key", key), zap.Error(err))
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to store file")
		return
	}

	logger.WithContext(c.Request.Context()).Info("File uploaded",
		zap.String("user_id", userID.String()),
		zap.String("project_id", projectID),
		zap.String("key", result.Key),
		zap.Int64("size", result.Size))

	common.SuccessResponse(c, gin.H{
		"filename":   fileHeader.Filename,
		"key":        result.Key,
		"url":        result.URL,
		"size":       result.Size,
		"project_id": projectID,
	})
}
