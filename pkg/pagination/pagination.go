package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLimit is used when no limit query parameter is supplied
	DefaultLimit = 20
	// MaxLimit caps the limit query parameter
	MaxLimit = 100
	// DefaultOffset is used when no offset query parameter is supplied
	DefaultOffset = 0
)

// Params holds parsed pagination parameters
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Meta describes a paginated result set
type Meta struct {
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ParseParams extracts limit and offset from the request query. Invalid or
// out-of-range values fall back to the defaults; limit is capped at MaxLimit.
func ParseParams(c *gin.Context) Params {
	limit := DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
			if limit > MaxLimit {
				limit = MaxLimit
			}
		}
	}

	offset := DefaultOffset
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	return Params{Limit: limit, Offset: offset}
}

// BuildMeta builds pagination metadata for a result set
func BuildMeta(limit, offset int, total int64) *Meta {
	totalPages := 0
	if limit > 0 && total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Meta{
		Limit:      limit,
		Offset:     offset,
		Total:      total,
		TotalPages: totalPages,
	}
}

// HasMore reports whether more items exist beyond the current page
func HasMore(offset, limit int, total int64) bool {
	return int64(offset+limit) < total
}

// GetCurrentPage converts an offset into a 1-based page number
func GetCurrentPage(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}
