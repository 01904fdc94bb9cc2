package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provider represents a storage provider type
type Provider string

const (
	ProviderS3    Provider = "s3"
	ProviderLocal Provider = "local"
)

// UploadResult contains the result of an upload operation
type UploadResult struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PresignedURLResult contains a presigned URL for direct upload/download
type PresignedURLResult struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Storage interface defines the storage operations
type Storage interface {
	// Upload uploads a file to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error)

	// Download downloads a file from storage
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete deletes a file from storage
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a file
	GetURL(key string) string

	// Exists checks if a file exists
	Exists(ctx context.Context, key string) (bool, error)
}

// GenerateSourceDocumentKey generates a unique storage key for an uploaded
// source document belonging to a user
func GenerateSourceDocumentKey(userID uuid.UUID, filename string) string {
	ext := path.Ext(filename)
	uniqueID := uuid.New().String()[:8]
	timestamp := time.Now().Format("20060102")

	// Format: uploads/{user_id}/{timestamp}_{unique_id}{ext}
	return fmt.Sprintf("uploads/%s/%s_%s%s", userID.String(), timestamp, uniqueID, ext)
}

// GenerateConnectorPayloadKey generates a storage key for raw connector
// content snapshots kept for audit
func GenerateConnectorPayloadKey(connectorID uuid.UUID, contentID string) string {
	uniqueID := uuid.New().String()[:8]
	return fmt.Sprintf("connectors/%s/payloads/%s_%s.json", connectorID.String(), contentID, uniqueID)
}

// AllowedUploadExtensions are the source document types accepted by the
// upload endpoint. Content is stored as-is; no format parsing happens here.
var AllowedUploadExtensions = []string{".txt", ".docx", ".pdf", ".xlsx"}

// ValidateUploadExtension checks a filename against the allowed extensions
func ValidateUploadExtension(filename string) bool {
	ext := strings.ToLower(path.Ext(filename))
	for _, allowed := range AllowedUploadExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// GetMimeTypeFromExtension returns the MIME type for the accepted file
// extensions
func GetMimeTypeFromExtension(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	mimeTypes := map[string]string{
		".txt":  "text/plain",
		".pdf":  "application/pdf",
		".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		".json": "application/json",
	}

	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
